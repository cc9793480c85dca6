package dblp

import (
	"errors"
	"fmt"
)

// Common errors returned by the DBLP client.
var (
	// ErrNotFound indicates the person or record does not exist.
	ErrNotFound = errors.New("not found in DBLP")

	// ErrRateLimited indicates DBLP answered 429. Callers should stop the
	// current run and retry later rather than try the next candidate.
	ErrRateLimited = errors.New("DBLP rate limit exceeded")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("DBLP API error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with DBLP")

	// ErrInvalidResponse indicates a body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from DBLP")
)

// APIError represents a non-success HTTP status from DBLP.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	PID        string // set for person lookups
}

func (e *APIError) Error() string {
	if e.PID != "" {
		return fmt.Sprintf("DBLP API error (status %d, code %s): %s (pid: %s)", e.StatusCode, e.Code, e.Message, e.PID)
	}
	return fmt.Sprintf("DBLP API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap lets errors.Is(err, ErrAPIError) match any *APIError.
func (e *APIError) Unwrap() error {
	return ErrAPIError
}

// IsNotFound returns true if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404 || apiErr.Code == "not_found"
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.Code == "rate_limited"
	}
	return false
}
