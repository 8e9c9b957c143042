package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/authgate/internal/common"
	"github.com/avolkov/authgate/internal/logging"
	"github.com/avolkov/authgate/internal/server/models"
)

type handlers struct {
	gateway   AuthGateway
	cookieTTL time.Duration
	log       logging.Logger
}

// credentialsRequest is the body of both /register and /login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userPayload is the client-facing projection of a user. The password hash
// never leaves the server.
type userPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func toPayload(u *models.User) userPayload {
	return userPayload{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func respondData(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized is logged and reported as a generic 500 so internal
// detail does not leak to clients.
func (h *handlers) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		respondError(c, http.StatusConflict, "username is already taken")
	case errors.Is(err, common.ErrorInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrProofInvalid),
		errors.Is(err, common.ErrProofExpired):
		respondError(c, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, common.ErrorNotFound):
		respondError(c, http.StatusNotFound, "not found")
	default:
		h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// setAuthCookie mirrors the proof into a cookie so browser clients do not
// have to manage the Authorization header themselves.
func (h *handlers) setAuthCookie(c *gin.Context, proof string) {
	c.SetCookie(common.AuthCookieName, proof, int(h.cookieTTL.Seconds()), "/", "", false, true)
}

func (h *handlers) clearAuthCookie(c *gin.Context) {
	c.SetCookie(common.AuthCookieName, "", -1, "/", "", false, true)
}

func (h *handlers) health(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"service": "authgate"})
}

func (h *handlers) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "request body must be JSON with username and password")
		return
	}

	user, proof, err := h.gateway.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.setAuthCookie(c, proof)
	respondData(c, http.StatusCreated, gin.H{
		"token": proof,
		"user":  toPayload(user),
	})
}

func (h *handlers) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "request body must be JSON with username and password")
		return
	}

	user, proof, err := h.gateway.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.setAuthCookie(c, proof)
	respondData(c, http.StatusOK, gin.H{
		"token": proof,
		"user":  toPayload(user),
	})
}

func (h *handlers) protected(c *gin.Context) {
	identity, ok := IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.gateway.GetUser(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Hello, %s! You have accessed a protected resource.", user.Username),
		"user":    toPayload(user),
	})
}

// logout revokes whatever proof the request carries. It is idempotent: a
// request with no proof, or a proof that never verified, still gets 200, so
// stale clients can always log out cleanly.
func (h *handlers) logout(c *gin.Context) {
	if proof := extractProof(c); proof != "" {
		if err := h.gateway.Logout(c.Request.Context(), proof); err != nil {
			h.respondServiceError(c, err)
			return
		}
	}

	h.clearAuthCookie(c)
	respondData(c, http.StatusOK, gin.H{"message": "logged out"})
}
