// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUnknownField is returned when an update contains a field outside
	// the allow-list for the entity. The whole update is rejected.
	ErrUnknownField = errors.New("unknown field in update")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// IsValidationError reports whether the error is one of the domain's
// validation failures, including the entity-specific sentinels declared
// alongside User and Task.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrValidation,
		ErrInvalidID,
		ErrInvalidEmail,
		ErrInvalidPassword,
		ErrUnknownField,
		ErrEmptyUserID,
		ErrEmptyName,
		ErrEmptyEmail,
		ErrEmptyPassword,
		ErrEmptyHashedPassword,
		ErrPasswordTooShort,
		ErrPasswordTooLong,
		ErrPasswordContainsPassword,
		ErrNegativeAge,
		ErrEmptyTaskID,
		ErrEmptyDescription,
		ErrEmptyTaskOwner,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ValidationError describes a validation failure for a specific field.
// It wraps a sentinel error so callers can match with errors.Is while
// still reporting which field was at fault.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
