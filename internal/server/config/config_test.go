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

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, 5*time.Minute, c.ActivationTokenTTL)
	assert.Equal(t, 15*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenTTL)
	assert.Equal(t, 10, c.PasswordHashCost)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty activation secret", func(c *Config) { c.ActivationSecret = "" }},
		{"shared access and refresh secret", func(c *Config) { c.RefreshTokenSecret = c.AccessTokenSecret }},
		{"shared activation and access secret", func(c *Config) { c.AccessTokenSecret = c.ActivationSecret }},
		{"zero access ttl", func(c *Config) { c.AccessTokenTTL = 0 }},
		{"access outlives refresh", func(c *Config) { c.AccessTokenTTL = 8 * 24 * time.Hour }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_grpc": "json:1",
		"database_dsn":       "json-dsn",
		"access_token_ttl":   "10m",
	})

	t.Setenv("USERS_DATABASE_DSN", "env-dsn")
	os.Args = []string{"server", "-c", path, "-t", "20m"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "json:1", cfg.EndpointAddrGRPC)
	assert.Equal(t, "env-dsn", cfg.DatabaseDSN)
	assert.Equal(t, 20*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"server", "-ts", "same", "-rs", "same"}

	_, err := LoadConfig()
	assert.Error(t, err)
}
