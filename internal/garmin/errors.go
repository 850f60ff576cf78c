package garmin

import (
	"errors"
	"fmt"
	"time"
)

// ErrMultipleWeighIns signals that a date holds more than one weigh-in and
// the caller did not opt in to deleting all of them. No deletions were
// performed.
var ErrMultipleWeighIns = errors.New("multiple weigh-ins found for date")

// AuthError covers every way the service can deny access: bad credentials,
// a rejected second factor, an unusable refresh token, a repeated 401, or a
// privacy-protected resource.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Cause }

// APIError is any HTTP failure other than 401 and 429. Body carries the raw
// response payload for the caller to inspect.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("garmin api: %d %s", e.StatusCode, e.Body)
}

// RateLimitError is an HTTP 429. The dispatcher surfaces it without
// retrying; backoff policy belongs to the caller.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// ConfigError reports a bad dispatch: an operation key missing from the
// registry, or a template placeholder with no matching parameter.
type ConfigError struct {
	Op      Operation
	Missing string
}

func (e *ConfigError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("operation %q: no value for template parameter %q", e.Op, e.Missing)
	}
	return fmt.Sprintf("unknown operation %q", e.Op)
}

// FormatError reports an unsupported upload or download file format.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q", e.Format)
}
