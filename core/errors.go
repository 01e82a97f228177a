package core

import (
	"errors"
	"fmt"
)

// IgnorableError marks a single malformed or undecodable frame. It is logged
// and skipped; it must never terminate the stream.
type IgnorableError struct {
	Message string
	Err     error
}

func (e *IgnorableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *IgnorableError) Unwrap() error {
	return e.Err
}

// IsIgnorableError checks if an error is an IgnorableError
func IsIgnorableError(err error) (*IgnorableError, bool) {
	var ignorableErr *IgnorableError
	if errors.As(err, &ignorableErr) {
		return ignorableErr, true
	}
	return nil, false
}

// ValidationError marks user-supplied input that failed its constraints.
// Reply carries the in-character message sent back to the user; this is not
// a system error and is never logged as one.
type ValidationError struct {
	Reply string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reply
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
