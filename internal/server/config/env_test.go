package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("AUTH_STRATEGY", StrategySession)
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("USERS_FILE", "/tmp/u.json")
	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://example.com")
	t.Setenv("SESSION_SWEEP_INTERVAL", "1m")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9090", c.EndpointAddr)
	assert.Equal(t, StrategySession, c.AuthStrategy)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.TokenValidityDuration)
	assert.Equal(t, 48*time.Hour, c.SessionValidityDuration)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, "/tmp/u.json", c.UsersFile)
	assert.Equal(t, "postgres://env", c.DatabaseDSN)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, "https://example.com", c.CORSAllowedOrigins)
	assert.Equal(t, time.Minute, c.SessionSweepInterval)
}

func TestParseEnv_EmptyValuesKeepDefaults(t *testing.T) {
	t.Setenv("ADDRESS", "")
	t.Setenv("SECRET_KEY", "")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, "secretKey", c.SecretKey)
}

func TestParseEnv_MalformedValuesKeepDefaults(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")
	t.Setenv("BCRYPT_COST", "many")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, time.Hour, c.TokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
}
