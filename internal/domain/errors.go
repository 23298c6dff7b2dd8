package domain

import "fmt"

// ValidationError reports invalid purchase input. It is the only failure kind
// that crosses the engine boundary; storage failures are absorbed below it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
