package services

import (
	"errors"
	"fmt"
)

// Domain error kinds surfaced by the booking core. Handlers map them to
// HTTP statuses; anything else is treated as a storage failure and
// propagated unchanged.

// ErrNotFound is returned when a transition targets a booking that does not
// exist or is already in a terminal state.
var ErrNotFound = errors.New("booking not found or already finalized")

// ValidationError marks a malformed request, rejected before any
// availability or capacity check. It is never persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConflictError marks an availability or capacity violation. The request is
// never partially admitted; retrying with different parameters is always
// safe.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func conflictErrorf(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
