package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrChannelNotFound is returned when the target channel has no counter row
	ErrChannelNotFound = errors.New("channel not found")

	// ErrNotFound is returned when a post doesn't exist or is tombstoned
	ErrNotFound = errors.New("post not found")

	// ErrSequenceConflict is returned when two writers raced on the same
	// channel's sequence counter. Fatal to this create call, safe to retry:
	// a retry draws a fresh number.
	ErrSequenceConflict = errors.New("sequence number conflict")

	// ErrNotAuthorized is returned when the user may not delete the post
	ErrNotAuthorized = errors.New("user not authorized for this post")

	// ErrDuplicateClientToken signals an idempotency-token replay; the service
	// resolves it by returning the originally created post
	ErrDuplicateClientToken = errors.New("client token already used")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
