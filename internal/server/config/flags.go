package config

import (
	"flag"
	"io"

	"github.com/kuba1e/food-delivery/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     gRPC bind address (e.g. ":50051")
//	-m string     metrics bind address (empty disables)
//	-d string     PostgreSQL DSN
//	-l string     log level
//	-as string    activation token secret
//	-ts string    access token secret
//	-rs string    refresh token secret
//	-at duration  activation token TTL
//	-t duration   access token TTL
//	-r duration   refresh token TTL
//
// Only these flags are picked out of args, so flags owned by other layers
// (-c/-config) do not collide.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, "-a", "-m", "-d", "-l", "-as", "-ts", "-rs", "-at", "-t", "-r")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to expose metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.ActivationSecret, "as", config.ActivationSecret, "activation token secret")
	fs.StringVar(&config.AccessTokenSecret, "ts", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "rs", config.RefreshTokenSecret, "refresh token secret")
	fs.DurationVar(&config.ActivationTokenTTL, "at", config.ActivationTokenTTL, "activation token lifetime")
	fs.DurationVar(&config.AccessTokenTTL, "t", config.AccessTokenTTL, "access token lifetime")
	fs.DurationVar(&config.RefreshTokenTTL, "r", config.RefreshTokenTTL, "refresh token lifetime")

	return fs.Parse(filtered)
}
