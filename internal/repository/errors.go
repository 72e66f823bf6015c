package repository

import "errors"

// Common repository errors that can be checked with errors.Is()
var (
	// ErrConstraintViolation is returned when a write breaks a uniqueness or other integrity constraint
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrStaleEntity is returned when an update targets a version that is no longer current
	ErrStaleEntity = errors.New("entity was modified concurrently")

	// ErrInvalidEntity is returned when an entity cannot be stored as given
	ErrInvalidEntity = errors.New("invalid entity")
)
