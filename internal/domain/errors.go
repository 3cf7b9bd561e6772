package domain

import "errors"

// ErrMetricsNotFound signals that no metrics document exists for a symbol.
// The HTTP layer maps it to 404; the pricing pipeline treats it as
// "no metrics" and keeps going.
var ErrMetricsNotFound = errors.New("no metrics found")

// AppError is an error with a client-safe message and an HTTP status.
// Anything else that escapes a handler is reported as a generic 500.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// BadRequest builds a 400 AppError for invalid caller input.
func BadRequest(message string) *AppError {
	return &AppError{Status: 400, Message: message}
}

// UpstreamError builds a 502 AppError for failures of services we call.
func UpstreamError(message string) *AppError {
	return &AppError{Status: 502, Message: message}
}
