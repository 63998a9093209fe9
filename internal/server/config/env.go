package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays fields whose environment variable is set. Unset
// variables leave the earlier layers untouched.
func parseEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
