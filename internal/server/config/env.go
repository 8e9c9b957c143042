package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables, optionally
// seeded from a .env file in the working directory. Durations accept Go
// duration strings ("1h", "30m"). Unset or malformed values keep the
// values already present in Config.
//
// Recognized variables: ADDRESS, AUTH_STRATEGY, SECRET_KEY, TOKEN_TTL,
// SESSION_TTL, BCRYPT_COST, USERS_FILE, DATABASE_DSN, REDIS_ADDR,
// CORS_ALLOWED_ORIGINS, SESSION_SWEEP_INTERVAL.
func parseEnv(config *Config) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	setString(&config.EndpointAddr, "ADDRESS")
	setString(&config.AuthStrategy, "AUTH_STRATEGY")
	setString(&config.SecretKey, "SECRET_KEY")
	setDuration(&config.TokenValidityDuration, "TOKEN_TTL")
	setDuration(&config.SessionValidityDuration, "SESSION_TTL")
	setInt(&config.BcryptCost, "BCRYPT_COST")
	setString(&config.UsersFile, "USERS_FILE")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.RedisAddr, "REDIS_ADDR")
	setString(&config.CORSAllowedOrigins, "CORS_ALLOWED_ORIGINS")
	setDuration(&config.SessionSweepInterval, "SESSION_SWEEP_INTERVAL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
