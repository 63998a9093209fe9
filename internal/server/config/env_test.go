package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("ACTIVATION_SECRET", "from-env")
	t.Setenv("REFRESH_TOKEN_TTL", "72h")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(&cfg))

	assert.Equal(t, "from-env", cfg.ActivationSecret)
	assert.Equal(t, 72*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
	assert.Equal(t, "dev-access-token-secret", cfg.AccessTokenSecret)
}

func TestParseEnv_BadValue(t *testing.T) {
	t.Setenv("PASSWORD_HASH_COST", "high")

	var cfg Config
	assert.Error(t, parseEnv(&cfg))
}
