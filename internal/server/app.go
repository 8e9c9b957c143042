// Package server initializes and runs the authentication server. It selects
// the storage backends from configuration, starts the HTTP endpoint, sweeps
// expired sessions, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/avolkov/authgate/internal/filex"
	"github.com/avolkov/authgate/internal/logging"
	"github.com/avolkov/authgate/internal/server/auth"
	"github.com/avolkov/authgate/internal/server/config"
	"github.com/avolkov/authgate/internal/server/hashing"
	"github.com/avolkov/authgate/internal/server/httpapi"
	"github.com/avolkov/authgate/internal/server/repositories/repomanager"
	"github.com/avolkov/authgate/internal/server/repositories/sessions"
	"github.com/avolkov/authgate/internal/server/repositories/users"
	"github.com/avolkov/authgate/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	sessionRepo sessions.Repository
	httpServer  *httpapi.Server
}

// NewApp wires the application from configuration. Backend selection:
//   - DatabaseDSN set: users (and sessions, under the session strategy)
//     live in PostgreSQL; migrations run on startup.
//   - otherwise: users live in the JSON file store, and sessions (if that
//     strategy is active) in Redis when RedisAddr is set, else in memory.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	gin.SetMode(gin.ReleaseMode)

	app := &App{config: cfg, logger: logger}

	var usersRepo users.Repository
	var sessionRepo sessions.Repository

	if cfg.DatabaseDSN != "" {
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("db ping error: %w", err)
		}

		manager := repomanager.NewPostgresRepositoryManager()
		if err := manager.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}

		usersRepo = manager.Users(db)
		sessionRepo = manager.Sessions(db)
		app.db = db
	} else {
		path, err := filex.EnsureParentDir(cfg.UsersFile)
		if err != nil {
			return nil, fmt.Errorf("users file init error: %w", err)
		}
		usersRepo, err = users.NewFileRepository(path)
		if err != nil {
			return nil, fmt.Errorf("users file init error: %w", err)
		}
	}

	var issuer auth.Issuer
	cookieTTL := cfg.TokenValidityDuration

	switch cfg.AuthStrategy {
	case config.StrategySession:
		if sessionRepo == nil {
			if cfg.RedisAddr != "" {
				client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
				if err := client.Ping(ctx).Err(); err != nil {
					return nil, fmt.Errorf("redis ping error: %w", err)
				}
				sessionRepo = sessions.NewRedisRepository(client)
			} else {
				sessionRepo = sessions.NewMemoryRepository()
			}
		}
		issuer = auth.NewSessionIssuer(sessionRepo, cfg.SessionValidityDuration)
		cookieTTL = cfg.SessionValidityDuration
		// Only the session strategy needs the sweeper.
		app.sessionRepo = sessionRepo
	case config.StrategyToken:
		issuer = auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.TokenValidityDuration)
	default:
		return nil, fmt.Errorf("unknown auth strategy: %q", cfg.AuthStrategy)
	}

	service := services.NewAuthService(usersRepo, hashing.NewBcryptHasher(cfg.BcryptCost), issuer, logger)

	app.httpServer = httpapi.NewServer(httpapi.Config{
		Addr:           cfg.EndpointAddr,
		AllowedOrigins: splitOrigins(cfg.CORSAllowedOrigins),
		CookieTTL:      cookieTTL,
	}, service, issuer, logger)

	return app, nil
}

// splitOrigins turns the comma-separated origin list into a slice, dropping
// empty entries.
func splitOrigins(s string) []string {
	var out []string
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runSessionSweeper periodically deletes expired session records until the
// context is cancelled.
func (app *App) runSessionSweeper(ctx context.Context) {
	ticker := time.NewTicker(app.config.SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := app.sessionRepo.DeleteExpired(ctx, time.Now())
			if err != nil {
				app.logger.Error(ctx, "session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				app.logger.Info(ctx, "expired sessions swept", "removed", removed)
			}
		}
	}
}

// Run starts the HTTP server and blocks until the context is cancelled or a
// termination signal arrives, then shuts everything down.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "strategy", app.config.AuthStrategy)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	if app.sessionRepo != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.runSessionSweeper(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Start(); err != nil {
			app.logger.Error(ctx, "http server failed", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close error", "error", err)
		}
	}

	app.logger.Info(context.Background(), "app stopped")
}
