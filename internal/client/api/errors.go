package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnavailable means the backend could not be reached at all.
var ErrUnavailable = errors.New("network error")

// APIError is a response the backend rejected with a 4xx/5xx status or a
// success=false envelope.
type APIError struct {
	Status      int
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func statusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }
func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }
func IsRateLimited(err error) bool { return statusOf(err) == http.StatusTooManyRequests }
func IsValidation(err error) bool { return statusOf(err) == http.StatusUnprocessableEntity }
func IsConflict(err error) bool { return statusOf(err) == http.StatusConflict }

// FieldErrors returns per-field messages of a validation failure.
func FieldErrors(err error) map[string]string {
	var ae *APIError
	if errors.As(err, &ae) && ae.FieldErrors != nil {
		return ae.FieldErrors
	}
	return map[string]string{}
}

// MessageOr returns the backend's message when err carries one, fallback
// otherwise.
func MessageOr(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
