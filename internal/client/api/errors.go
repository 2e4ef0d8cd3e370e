package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks transport-level failures: connection refused,
	// DNS errors, timeouts.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks a 401 response. By the time the caller sees
	// it the persisted session has already been invalidated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound marks a 404 response.
	ErrNotFound = errors.New("not found")
)

// Error is the single normalized error shape for every gateway call.
// Transport failures, non-2xx statuses, and success:false envelopes on a
// 2xx response all surface as *Error, so callers never need to dig through
// service-specific response shapes.
type Error struct {
	// Status is the HTTP status code, or 0 for transport failures.
	Status int
	// Message is the server-reported message when one was present,
	// otherwise a transport description.
	Message string
	// Soft is true for a success:false envelope on a 2xx response:
	// the request reached the server and was understood, but the
	// operation was declined. Soft failures are retryable by the user.
	Soft bool

	err error
}

func (e *Error) Error() string {
	switch {
	case e.Soft:
		return fmt.Sprintf("api: request declined: %s", e.Message)
	case e.Status != 0:
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("api: %s", e.Message)
	}
}

func (e *Error) Unwrap() error { return e.err }

// IsSoft reports whether err is a server-declined (success:false) failure.
func IsSoft(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Soft
}
