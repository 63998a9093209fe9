package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the users CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the users gRPC endpoint.
//   - RequestTimeout: deadline applied to every RPC.
//   - LogLevel: level of diagnostic output written to stderr.
type Config struct {
	ServerEndpointAddr string        `env:"USERS_SERVER_ADDR"`
	RequestTimeout     time.Duration `env:"USERS_REQUEST_TIMEOUT"`
	LogLevel           string        `env:"USERS_CLIENT_LOG_LEVEL"`
}

// LoadDefaults populates c with defaults matching a local server.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

func (c *Config) Validate() error {
	if c.ServerEndpointAddr == "" {
		return errors.New("server address must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	return nil
}

// LoadConfig builds a Config from defaults, an optional JSON file, the
// environment and command-line flags, later sources winning.
func LoadConfig() (*Config, error) {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
