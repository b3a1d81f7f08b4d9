package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/dropvault/internal/flagx"
)

// parseFlags populates the client Config from command-line flags.
//
// Supported flags:
//
//	-s string   server base URL (e.g., "http://localhost:8080")
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "s", config.ServerURL, "server base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
