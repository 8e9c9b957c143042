package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/authgate/internal/common"
	"github.com/avolkov/authgate/internal/logging"
	"github.com/avolkov/authgate/internal/server/auth"
)

// identityContextKey is the gin context key the middleware stores the
// verified identity under.
const identityContextKey = "authgate.identity"

// extractProof pulls the proof from the Authorization header (with or
// without a Bearer prefix) or, failing that, from the auth cookie.
func extractProof(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader(common.AuthHeaderName))
	if header != "" {
		if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(rest)
		}
		return header
	}

	cookie, err := c.Cookie(common.AuthCookieName)
	if err != nil {
		return ""
	}
	return cookie
}

// RequireAuth verifies the request's proof and stores the resulting identity
// in the gin context. Requests without a verifiable proof are rejected with
// 401 before the handler runs.
func RequireAuth(issuer auth.Issuer, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		proof := extractProof(c)
		if proof == "" {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		identity, err := issuer.Verify(c.Request.Context(), proof)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrProofExpired):
				respondError(c, http.StatusUnauthorized, "session expired, please log in again")
			case errors.Is(err, common.ErrProofInvalid):
				respondError(c, http.StatusUnauthorized, "authentication required")
			default:
				log.Error(c.Request.Context(), "proof verification failed", "error", err)
				respondError(c, http.StatusInternalServerError, "internal server error")
			}
			c.Abort()
			return
		}

		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok
}
