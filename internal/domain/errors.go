// Package domain defines core types and errors for the lineage explorer.
package domain

import "fmt"

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError indicates the bearer token could not be obtained.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Cause }

// APIError indicates a non-2xx response from the lineage endpoint.
// It carries the upstream status code and the raw response body.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Body)
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrAuth creates an AuthError wrapping the provider failure.
func ErrAuth(cause error, format string, args ...interface{}) *AuthError {
	return &AuthError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ErrAPI creates an APIError from an upstream response.
func ErrAPI(status int, body string) *APIError {
	return &APIError{Status: status, Body: body}
}
