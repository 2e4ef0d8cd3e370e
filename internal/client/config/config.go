// Package config assembles the client configuration from defaults, the
// environment, an optional JSON file, and command-line flags. Later sources
// take precedence over earlier ones.
package config

import "time"

// Config holds runtime settings for the onboarding CLI.
//
// Fields:
//   - APIBaseURL: root of the backend REST API, including the /api prefix.
//   - RequestTimeout: the single fixed timeout applied to every request.
//   - LocalDBPath: path of the sqlite file backing the session store.
//   - CountryCode: default prefix for phone numbers entered without one.
//   - MockOTPCode: when non-empty, OTP verification is handled locally by a
//     fixed-code test double instead of the backend. This is the only way to
//     enable the test double; it is never swapped in on error.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	LocalDBPath    string
	CountryCode    string
	MockOTPCode    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 15 * time.Second
	c.LocalDBPath = "onboard.db"
	c.CountryCode = "+91"
	c.MockOTPCode = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given), and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
