package custom_error

import "fmt"

// ValidationError rejects a request before any mutation is attempted.
type ValidationError struct {
	message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{message: message}
}

func (e *ValidationError) Error() string {
	return e.message
}

// NotFoundError reports that the addressed resource does not exist.
type NotFoundError struct {
	resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{resource: resource}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.resource)
}
