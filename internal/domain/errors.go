package domain

import "errors"

// ValidationError is raised before any request is sent.
// Its message is meant to be shown to the user as-is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError
func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
