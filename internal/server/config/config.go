// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

import "time"

// Auth strategies selectable per deployment.
const (
	StrategyToken   = "token"
	StrategySession = "session"
)

// Config holds runtime settings for the auth server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - AuthStrategy: "token" (stateless JWT) or "session" (server-side records).
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration / SessionValidityDuration: proof lifetimes per strategy.
//   - BcryptCost: work factor of the password hash.
//   - UsersFile: path of the JSON credential store (used when DatabaseDSN is empty).
//   - DatabaseDSN: PostgreSQL DSN (pgx); when set, users and sessions live in postgres.
//   - RedisAddr: optional Redis host:port for the session store.
//   - CORSAllowedOrigins: comma-separated list of allowed origins.
//   - SessionSweepInterval: how often expired session records are swept.
type Config struct {
	EndpointAddr            string
	AuthStrategy            string
	SecretKey               string
	TokenValidityDuration   time.Duration
	SessionValidityDuration time.Duration
	BcryptCost              int
	UsersFile               string
	DatabaseDSN             string
	RedisAddr               string
	CORSAllowedOrigins      string
	SessionSweepInterval    time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.AuthStrategy = StrategyToken
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 1 * time.Hour
	c.SessionValidityDuration = 24 * time.Hour
	c.BcryptCost = 10
	c.UsersFile = "var/storage/users.json"
	c.DatabaseDSN = ""
	c.RedisAddr = ""
	c.CORSAllowedOrigins = "http://localhost:5500"
	c.SessionSweepInterval = 5 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
