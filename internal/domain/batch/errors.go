package batch

import "errors"

var (
	// ErrBatchNotFound indicates the batch doesn't exist.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrAlreadyClaimed indicates another worker holds the batch.
	ErrAlreadyClaimed = errors.New("batch already claimed by another worker")
	// ErrBatchDone indicates the batch was finalized and accepts no further work.
	ErrBatchDone = errors.New("batch is done")
	// ErrInvalidInput indicates invalid batch operation input.
	ErrInvalidInput = errors.New("invalid batch input")
)
