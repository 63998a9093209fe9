package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kuba1e/food-delivery/internal/flagx"
	"github.com/kuba1e/food-delivery/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either strings such as "15m" or integer nanoseconds. Only keys present in
// the file override the current values.
type JsonConfig struct {
	EndpointAddrGRPC   *string         `json:"endpoint_addr_grpc"`
	MetricsAddr        *string         `json:"metrics_addr"`
	DatabaseDSN        *string         `json:"database_dsn"`
	LogLevel           *string         `json:"log_level"`
	ActivationSecret   *string         `json:"activation_secret"`
	AccessTokenSecret  *string         `json:"access_token_secret"`
	RefreshTokenSecret *string         `json:"refresh_token_secret"`
	ActivationTokenTTL *timex.Duration `json:"activation_token_ttl"`
	AccessTokenTTL     *timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL    *timex.Duration `json:"refresh_token_ttl"`
	PasswordHashCost   *int            `json:"password_hash_cost"`
	SMTPHost           *string         `json:"smtp_host"`
	SMTPPort           *int            `json:"smtp_port"`
	SMTPUser           *string         `json:"smtp_user"`
	SMTPPassword       *string         `json:"smtp_password"`
	MailFrom           *string         `json:"mail_from"`
	MailTimeout        *timex.Duration `json:"mail_timeout"`
	DirectoryTimeout   *timex.Duration `json:"directory_timeout"`
	RateLimitRPS       *float64        `json:"rate_limit_rps"`
	RateLimitBurst     *int            `json:"rate_limit_burst"`
}

// parseJson loads the file named by -c/-config in args, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.ActivationSecret, c.ActivationSecret)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.MailFrom, c.MailFrom)

	if c.ActivationTokenTTL != nil {
		config.ActivationTokenTTL = c.ActivationTokenTTL.Duration
	}
	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL != nil {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
	if c.MailTimeout != nil {
		config.MailTimeout = c.MailTimeout.Duration
	}
	if c.DirectoryTimeout != nil {
		config.DirectoryTimeout = c.DirectoryTimeout.Duration
	}
	if c.PasswordHashCost != nil {
		config.PasswordHashCost = *c.PasswordHashCost
	}
	if c.SMTPPort != nil {
		config.SMTPPort = *c.SMTPPort
	}
	if c.RateLimitRPS != nil {
		config.RateLimitRPS = *c.RateLimitRPS
	}
	if c.RateLimitBurst != nil {
		config.RateLimitBurst = *c.RateLimitBurst
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
