package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/stormbuddi/mobile/internal/flagx"
	"github.com/stormbuddi/mobile/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so the file can specify either strings like "2s" or integer
// nanoseconds.
type JsonConfig struct {
	APIBaseURL       string         `json:"api_base_url"`
	DatabasePath     string         `json:"database_path"`
	MinLoaderDisplay timex.Duration `json:"min_loader_display"`
	HTTPTimeout      timex.Duration `json:"http_timeout"`
	BillingURL       string         `json:"billing_url"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flags. Absent file path means no overlay. Zero-valued JSON
// fields leave the existing Config value in place. Read or unmarshal errors
// panic; the caller decides whether to recover.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.MinLoaderDisplay.Duration != 0 {
		cfg.MinLoaderDisplay = time.Duration(jc.MinLoaderDisplay.Duration)
	}
	if jc.HTTPTimeout.Duration != 0 {
		cfg.HTTPTimeout = time.Duration(jc.HTTPTimeout.Duration)
	}
	if jc.BillingURL != "" {
		cfg.BillingURL = jc.BillingURL
	}
}
