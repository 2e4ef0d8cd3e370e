package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/quisipp/onboard/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeout is
// expressed in whole seconds to keep hand-written config files simple.
type JsonConfig struct {
	APIBaseURL     string `json:"api_base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	LocalDBPath    string `json:"local_db_path"`
	CountryCode    string `json:"country_code"`
	MockOTPCode    string `json:"mock_otp_code"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags via
// flagx.JsonConfigFlags(); when neither is set, nothing is loaded. Read or
// unmarshal errors panic (caller should recover if desired). Only fields
// present in the file override the current Config.
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
	if jc.TimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(jc.TimeoutSeconds) * time.Second
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.CountryCode != "" {
		cfg.CountryCode = jc.CountryCode
	}
	if jc.MockOTPCode != "" {
		cfg.MockOTPCode = jc.MockOTPCode
	}
}
