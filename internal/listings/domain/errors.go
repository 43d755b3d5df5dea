package domain

import (
	"errors"
	"strings"
)

// Domain errors for the Listings context.
var (
	// ErrOwnerNotFound is returned when an owner cannot be found.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrPropertyNotFound is returned when a property cannot be found.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrReservationNotFound is returned when a reservation cannot be found.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrImageNotFound is returned when a property image cannot be found.
	ErrImageNotFound = errors.New("property image not found")

	// ErrDuplicateCode is returned when a property internal code is already in use.
	ErrDuplicateCode = errors.New("internal code already exists")

	// ErrDateConflict is returned when a reservation overlaps an existing one.
	ErrDateConflict = errors.New("property is not available for selected dates")

	// ErrCorruptData is returned when data loaded from persistence is invalid.
	ErrCorruptData = errors.New("corrupt data in database")
)

// ValidationError reports one or more violations in caller-supplied input.
// The caller can recover by resubmitting corrected input.
type ValidationError struct {
	Violations []string
}

// NewValidationError builds a ValidationError from the given violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// Error implements [error]. Violations are joined the way the API reports them.
func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// isBlank reports whether s is empty or whitespace only.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
