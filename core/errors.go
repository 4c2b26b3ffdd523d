package core

import (
	"errors"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrMalformedPayload marks input that could not be interpreted as a webhook payload.
// Handlers map it to 400, any other error is treated as an internal fault.
var ErrMalformedPayload = errors.New("malformed payload")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// IsMalformedPayloadError checks if an error was caused by bad client input
func IsMalformedPayloadError(err error) bool {
	return err != nil && errors.Is(err, ErrMalformedPayload)
}
