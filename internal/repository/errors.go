package repository

import "github.com/coletalabs/coleta/internal/repository/errs"

// The sentinel values live in the errs leaf package; these aliases keep
// repository.Err* references working with identical error identity.
var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errs.ErrNotFound

	// ErrConflict is returned when a conditional write loses to a
	// concurrent writer
	ErrConflict = errs.ErrConflict

	// ErrUnavailable is returned when the store stayed rate-limited or
	// unreachable after the retry budget was spent
	ErrUnavailable = errs.ErrUnavailable

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errs.ErrInvalidInput
)
