package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment,
// loading a .env file first when one is present.
//
// Recognized variables: ONBOARD_API_URL, ONBOARD_TIMEOUT_SECONDS,
// ONBOARD_DB_PATH, ONBOARD_COUNTRY_CODE, ONBOARD_MOCK_OTP.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.APIBaseURL = getEnv("ONBOARD_API_URL", cfg.APIBaseURL)
	cfg.LocalDBPath = getEnv("ONBOARD_DB_PATH", cfg.LocalDBPath)
	cfg.CountryCode = getEnv("ONBOARD_COUNTRY_CODE", cfg.CountryCode)
	cfg.MockOTPCode = getEnv("ONBOARD_MOCK_OTP", cfg.MockOTPCode)

	if secs := getEnvInt("ONBOARD_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
