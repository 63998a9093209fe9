package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	args := []string{
		"-c", "ignored.json",
		"-a", "127.0.0.1:9090", "-m", "", "-d", "db", "-l", "debug",
		"-as", "act", "-ts", "acc", "-rs", "ref",
		"-at", "2m", "-t", "1m", "-r", "3h",
	}

	cfg := &Config{}
	require.NoError(t, parseFlags(cfg, args))

	want := &Config{
		EndpointAddrGRPC:   "127.0.0.1:9090",
		DatabaseDSN:        "db",
		LogLevel:           "debug",
		ActivationSecret:   "act",
		AccessTokenSecret:  "acc",
		RefreshTokenSecret: "ref",
		ActivationTokenTTL: 2 * time.Minute,
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    3 * time.Hour,
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseFlags_BadDuration(t *testing.T) {
	assert.Error(t, parseFlags(&Config{}, []string{"-t", "soon"}))
}
