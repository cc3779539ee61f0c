package aura

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the Aura API.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("aura API error %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("aura API error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if an error indicates the instance does not exist.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsTransient checks if an error is worth retrying: rate limits, server-side
// failures, and transport errors that never produced an API response.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		// No API response at all: network blip, timeout, connection reset.
		return true
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
}

// IsAuthError checks if an error indicates bad or expired credentials.
// These are fatal and must not consume the retry budget.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
