package backend

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAuth indicates an invalid or expired credential. Fatal to the
	// triggering operation and never auto-retried.
	ErrAuth = errors.New("authentication failed")

	// ErrNetwork indicates a transient transport failure or timeout.
	// Retry is a new user-issued request.
	ErrNetwork = errors.New("network error")

	// ErrRateLimited indicates the remote service rejected the call for
	// exceeding its rate limit.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound indicates the remote entity is missing. Local
	// correction is deferred to the next sync cycle.
	ErrNotFound = errors.New("remote entity not found")

	// ErrValidation indicates the remote service rejected caller input.
	ErrValidation = errors.New("invalid request")
)

// RateLimitError carries the backoff hint the service provided, if any.
// Unwraps to ErrRateLimited.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
