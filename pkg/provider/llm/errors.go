package llm

import (
	"fmt"
	"net/http"
)

// StatusError is a backend failure that carries an HTTP-like status code.
// Providers convert their SDK's structured API errors into StatusError.
type StatusError struct {
	// Code is the HTTP status code returned by the backend.
	Code int

	// Status is the backend's symbolic status (e.g. "UNAVAILABLE"), if any.
	Status string

	// Err is the underlying SDK error.
	Err error
}

// Error implements error.
func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.Code)
	}
	if e.Err == nil {
		return fmt.Sprintf("llm: status %d %s", e.Code, status)
	}
	return fmt.Sprintf("llm: status %d %s: %v", e.Code, status, e.Err)
}

// Unwrap returns the underlying SDK error.
func (e *StatusError) Unwrap() error { return e.Err }
