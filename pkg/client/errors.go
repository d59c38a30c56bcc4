package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotAuthenticated is returned by protected calls when no bearer token is
// available. No request is made; the caller should route to the login view.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrMalformedResponse marks a 2xx response whose body is missing required
// fields (e.g. a login response without user or token).
var ErrMalformedResponse = errors.New("malformed response")

// HTTPError represents a non-2xx HTTP response from the API. Message carries
// the server-provided "message" field when the body had one.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error, status %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the
// given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsUnauthorized reports whether err is an authorization rejection from a
// protected endpoint. When true the session must be discarded, never retried.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// Reason extracts a human-readable message from an API error for inline
// display: the server message when one exists, the plain error text otherwise.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return fmt.Sprintf("HTTP error, status %d", httpErr.StatusCode)
	}
	return err.Error()
}
