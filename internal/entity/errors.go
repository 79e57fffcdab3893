package entity

import (
	"errors"
	"fmt"
)

var (
	// Event errors
	ErrEventNotFound = errors.New("event not found")
	ErrSlugTaken     = errors.New("an event with this title already exists")
	ErrEmptySlug     = errors.New("title must include alphanumeric characters to generate a slug")
	ErrInvalidDate   = errors.New("date must be a valid calendar date in YYYY-MM-DD format")
	ErrInvalidTime   = errors.New("time must be in HH:MM 24-hour format")

	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrAlreadyRegistered = errors.New("already registered for this event with this email")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrInvalidEmail      = errors.New("invalid email address")

	// General errors
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden operation")
)

// ValidationError carries field-level detail for user-correctable input
// errors. It matches ErrValidation under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a field-level validation error.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
