package session

import "errors"

var (
	// ErrOperationInFlight is returned when a logical operation is
	// invoked again while a previous invocation is still outstanding.
	// Duplicates are rejected, not queued.
	ErrOperationInFlight = errors.New("operation already in flight")

	// ErrInvalidPhone is returned for an empty phone number.
	ErrInvalidPhone = errors.New("phone number must not be empty")

	// ErrInvalidCode is returned when the OTP code is not exactly six digits.
	ErrInvalidCode = errors.New("otp code must be exactly 6 digits")

	// ErrCodeMismatch is returned by the fixed-code verifier on a wrong code.
	ErrCodeMismatch = errors.New("otp code does not match")
)
