// Package httpapi exposes the authentication operations over HTTP. All
// responses share the same JSON envelope: {"status": "success", "data": ...}
// or {"status": "error", "message": ...}.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/avolkov/authgate/internal/logging"
	"github.com/avolkov/authgate/internal/server/auth"
	"github.com/avolkov/authgate/internal/server/models"
)

// AuthGateway is the service surface the HTTP handlers call into.
type AuthGateway interface {
	Register(ctx context.Context, username, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Logout(ctx context.Context, proof string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// Config carries the transport-level settings for the HTTP server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	// CookieTTL bounds the auth cookie lifetime. It should match the
	// validity of the proofs the issuer mints.
	CookieTTL time.Duration
}

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	log    logging.Logger
}

// NewServer builds the router and wires every route. The issuer is used by
// the middleware to verify proofs on protected routes.
func NewServer(cfg Config, gateway AuthGateway, issuer auth.Issuer, log logging.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	// cors.New rejects a config without origins, so only install the
	// middleware when some are configured.
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		engine.Use(cors.New(corsConfig))
	}

	h := &handlers{
		gateway:   gateway,
		cookieTTL: cfg.CookieTTL,
		log:       log,
	}

	engine.GET("/health", h.health)
	engine.POST("/register", h.register)
	engine.POST("/login", h.login)
	engine.POST("/logout", h.logout)

	protected := engine.Group("")
	protected.Use(RequireAuth(issuer, log))
	{
		protected.GET("/protected", h.protected)
	}

	return &Server{
		engine: engine,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		log: log,
	}
}

// Handler returns the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	s.log.Info(context.Background(), "http server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
