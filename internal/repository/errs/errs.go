// Package errs holds the shared repository sentinel errors in a leaf
// package so domain packages can match on them without importing
// internal/repository, whose interfaces import the domain types.
package errs

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional write loses to a
	// concurrent writer
	ErrConflict = errors.New("conflict: entity was modified by another worker")

	// ErrUnavailable is returned when the store stayed rate-limited or
	// unreachable after the retry budget was spent
	ErrUnavailable = errors.New("store unavailable")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
