package batch

import "context"

// Repository provides persistence for batches.
type Repository interface {
	Append(ctx context.Context, batches []Batch) error
	Get(ctx context.Context, projectID string, number int) (*Batch, error)
	ListByProject(ctx context.Context, projectID string) ([]Batch, error)
	// Claim conditionally transitions a batch to in_progress for worker.
	// It succeeds only when the batch is free, or already in progress and
	// owned by the same worker. A lost race returns repository.ErrConflict.
	Claim(ctx context.Context, projectID string, number int, worker string) error
	// UpdateProgress writes the progress string; a non-nil checkpoint
	// replaces the stored checkpoint, nil leaves it untouched.
	UpdateProgress(ctx context.Context, projectID string, number int, progress string, checkpoint *string) error
	// Finalize sets status to done, writes progress, and clears the checkpoint.
	Finalize(ctx context.Context, projectID string, number int, progress string) error
}

// ItemRepository provides persistence for items.
type ItemRepository interface {
	Append(ctx context.Context, items []Item) error
	ListByBatch(ctx context.Context, projectID string, number int) ([]Item, error)
	ListByProject(ctx context.Context, projectID string) ([]Item, error)
	UpdateLink(ctx context.Context, item Item) error
	UpdateLinks(ctx context.Context, items []Item) error
}
