package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"client"}, args...)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	want := Config{
		ServerEndpointAddr: "127.0.0.1:50051",
		RequestTimeout:     10 * time.Second,
		LogLevel:           "warn",
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_endpoint_addr": "json:1",
		"request_timeout":      "3s",
		"log_level":            "debug",
	})

	t.Setenv("USERS_SERVER_ADDR", "env:2")
	withArgs(t, "-c", path, "-t", "7s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "env:2", cfg.ServerEndpointAddr)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_PartialJSONKeepsDefaults(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"log_level": "error"})
	withArgs(t, "-config", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(t.TempDir(), "absent.json"))
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "read config file")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		withArgs(t, "-c", path)
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "decode config file")
	})

	t.Run("bad duration flag", func(t *testing.T) {
		withArgs(t, "-t", "soon")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		withArgs(t, "-t", "0s")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "invalid config")
	})

	t.Run("empty address", func(t *testing.T) {
		withArgs(t, "-a", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "server address")
	})
}
