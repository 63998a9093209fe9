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
//	-a string     address and port of the users server
//	-t duration   per-request timeout
//	-l string     log level
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, "-a", "-t", "-l")

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(filtered)
}
