package fetch

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is wrapped by every error returned from Fetch: transport
// failures and non-success responses alike. A failed fetch never yields a
// body, so callers cannot mistake it for an empty page.
var ErrFetchFailed = errors.New("fetch failed")

// ErrBodyTooLarge is wrapped when a response body exceeds the size limit.
// The page is never returned cut short.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError reports a response with a non-success status code.
type StatusError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status code received.
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrFetchFailed, e.URL, e.StatusCode)
}

// Is reports StatusError as an ErrFetchFailed.
func (e *StatusError) Is(target error) bool {
	return target == ErrFetchFailed
}

// BodyTooLargeError reports a response body longer than the configured limit.
type BodyTooLargeError struct {
	URL   string
	Limit int64
}

// Error implements error.
func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("%s: %s: %s (limit %d bytes)", ErrFetchFailed, e.URL, ErrBodyTooLarge, e.Limit)
}

// Is reports BodyTooLargeError as both ErrFetchFailed and ErrBodyTooLarge.
func (e *BodyTooLargeError) Is(target error) bool {
	return target == ErrFetchFailed || target == ErrBodyTooLarge
}
