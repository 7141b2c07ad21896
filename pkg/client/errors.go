package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindRejected means the backend was reached and answered with an
	// explicit non-success response. Message carries the server's text.
	KindRejected Kind = iota
	// KindUnauthorized means the backend rejected the bearer credential.
	// The adapter has already cleared the credential store by the time the
	// caller sees this error.
	KindUnauthorized
	// KindUnreachable means the request never produced a server response.
	KindUnreachable
)

// APIError represents a failed call to the backend.
type APIError struct {
	Kind       Kind
	StatusCode int // 0 when the server was never reached
	Message    string
	err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.err
}

// IsUnauthorized reports whether err is an APIError with KindUnauthorized.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// IsUnreachable reports whether err is an APIError with KindUnreachable.
func IsUnreachable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnreachable
}

// Message extracts the user-facing message from err. For APIErrors it is the
// server-provided (or generic transport) text; anything else falls back to
// err.Error().
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
