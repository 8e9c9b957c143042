package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.EndpointAddr, ":8080")
	assert.Equal(t, c.AuthStrategy, StrategyToken)
	assert.Equal(t, c.SecretKey, "secretKey")
	assert.Equal(t, c.TokenValidityDuration, 1*time.Hour)
	assert.Equal(t, c.SessionValidityDuration, 24*time.Hour)
	assert.Equal(t, c.BcryptCost, 10)
	assert.Equal(t, c.UsersFile, "var/storage/users.json")
	assert.Equal(t, c.DatabaseDSN, "")
	assert.Equal(t, c.RedisAddr, "")
	assert.Equal(t, c.CORSAllowedOrigins, "http://localhost:5500")
	assert.Equal(t, c.SessionSweepInterval, 5*time.Minute)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, c.EndpointAddr, ":8080")
	assert.Equal(t, c.AuthStrategy, StrategyToken)
	assert.Equal(t, c.SecretKey, "secretKey")
	assert.Equal(t, c.TokenValidityDuration, 1*time.Hour)
	assert.Equal(t, c.SessionValidityDuration, 24*time.Hour)
	assert.Equal(t, c.UsersFile, "var/storage/users.json")
}

func TestLoadConfig_SubMinuteEnvDurationsSurviveFlagLayer(t *testing.T) {
	old := os.Args
	os.Args = []string{"test"}
	t.Cleanup(func() { os.Args = old })

	t.Setenv("TOKEN_TTL", "30s")
	t.Setenv("SESSION_TTL", "45s")

	c := LoadConfig()

	require.NotNil(t, c)
	assert.Equal(t, 30*time.Second, c.TokenValidityDuration)
	assert.Equal(t, 45*time.Second, c.SessionValidityDuration)
}
