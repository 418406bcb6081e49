package config

import "time"

// Config holds runtime settings for the StormBuddi mobile client shell.
//
// Fields:
//   - APIBaseURL: root of the backend REST API.
//   - DatabasePath: sqlite file holding the token store.
//   - MinLoaderDisplay: minimum visible duration for blocking loaders.
//   - HTTPTimeout: per-request timeout for API calls.
//   - BillingURL: web page opened by the renew action.
type Config struct {
	APIBaseURL       string
	DatabasePath     string
	MinLoaderDisplay time.Duration
	HTTPTimeout      time.Duration
	BillingURL       string
}

// LoadDefaults populates c with production defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://app.stormbuddi.com/api"
	c.DatabasePath = "stormbuddi.db"
	c.MinLoaderDisplay = 2 * time.Second
	c.HTTPTimeout = 30 * time.Second
	c.BillingURL = "https://app.stormbuddi.com/billing"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
