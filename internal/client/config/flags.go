package config

import (
	"flag"
	"os"

	"github.com/stormbuddi/mobile/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-u string   base URL of the backend API (default from Config)
//	-d string   path to the local sqlite database
//	-b string   billing/renewal web page URL
//
// Only the flags listed here are parsed; everything else in os.Args is left
// for other components, via flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-d", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database file")
	fs.StringVar(&cfg.BillingURL, "b", cfg.BillingURL, "billing page URL for the renew action")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
