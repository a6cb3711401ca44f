package reactions

import (
	"errors"
	"fmt"
)

// Sentinel errors for reaction operations
var (
	// ErrUnknownType is returned when the reaction type is not in the catalogue
	ErrUnknownType = errors.New("unknown reaction type")

	// ErrPostNotFound is returned when the target post doesn't exist or is tombstoned
	ErrPostNotFound = errors.New("post not found")
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
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
