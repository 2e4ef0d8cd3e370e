package config

import (
	"flag"
	"os"
	"time"

	"github.com/quisipp/onboard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        base URL of the backend API
//	-t int           request timeout in seconds
//	-d string        path of the local sqlite store
//	-mock-otp string fixed OTP code accepted by the local test verifier
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-mock-otp"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend API")
	timeoutSeconds := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "path of the local sqlite store")
	fs.StringVar(&cfg.MockOTPCode, "mock-otp", cfg.MockOTPCode, "fixed OTP code for the local test verifier")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSeconds) * time.Second
}
