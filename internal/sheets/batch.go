package sheets

import (
	"context"
	"strconv"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/repository"
)

// Column positions within a batches row (0-based).
const (
	batchColProjectID = iota
	batchColNumber
	batchColStatus
	batchColOwner
	batchColProgress
	batchColCheckpoint
)

// BatchRepository implements repository.BatchRepository over a RowStore
type BatchRepository struct {
	store RowStore
}

// NewBatchRepository creates a new BatchRepository
func NewBatchRepository(store RowStore) *BatchRepository {
	return &BatchRepository{store: store}
}

// Append adds batch rows in one call
func (r *BatchRepository) Append(ctx context.Context, batches []batch.Batch) error {
	if len(batches) == 0 {
		return nil
	}
	rows := make([][]string, len(batches))
	for i, b := range batches {
		rows[i] = []string{
			b.ProjectID,
			strconv.Itoa(b.Number),
			string(b.Status),
			b.Owner,
			b.Progress,
			b.Checkpoint,
		}
	}
	return r.store.Append(ctx, TableBatches, rows)
}

// Get retrieves a batch by its composite identity
func (r *BatchRepository) Get(ctx context.Context, projectID string, number int) (*batch.Batch, error) {
	_, b, err := r.find(ctx, projectID, number)
	return b, err
}

// ListByProject returns a project's batches in sheet order
func (r *BatchRepository) ListByProject(ctx context.Context, projectID string) ([]batch.Batch, error) {
	rows, err := r.store.Rows(ctx, TableBatches)
	if err != nil {
		return nil, err
	}
	var batches []batch.Batch
	for i := 1; i < len(rows); i++ {
		if cellAt(rows[i], batchColProjectID) != projectID {
			continue
		}
		batches = append(batches, decodeBatch(rows[i]))
	}
	return batches, nil
}

// Claim writes owner and status, then re-reads the row. The spreadsheet
// has no conditional write, so the claim is verified after the fact: with
// last-write-wins cell semantics the final owner cell names the winner,
// and everyone else lost.
func (r *BatchRepository) Claim(ctx context.Context, projectID string, number int, worker string) error {
	sheetRow, b, err := r.find(ctx, projectID, number)
	if err != nil {
		return err
	}
	claimable := b.Status == batch.StatusFree ||
		(b.Status == batch.StatusInProgress && b.Owner == worker)
	if !claimable {
		return repository.ErrConflict
	}

	err = r.store.UpdateRange(ctx, TableBatches, []CellUpdate{
		{Row: sheetRow, Col: batchColStatus + 1, Value: string(batch.StatusInProgress)},
		{Row: sheetRow, Col: batchColOwner + 1, Value: worker},
	})
	if err != nil {
		return err
	}

	row, err := r.store.RowAt(ctx, TableBatches, sheetRow)
	if err != nil {
		return err
	}
	if cellAt(row, batchColOwner) != worker {
		return repository.ErrConflict
	}
	return nil
}

// UpdateProgress writes the progress cell and optionally the checkpoint cell
func (r *BatchRepository) UpdateProgress(ctx context.Context, projectID string, number int, progress string, checkpoint *string) error {
	sheetRow, _, err := r.find(ctx, projectID, number)
	if err != nil {
		return err
	}
	updates := []CellUpdate{
		{Row: sheetRow, Col: batchColProgress + 1, Value: progress},
	}
	if checkpoint != nil {
		updates = append(updates, CellUpdate{Row: sheetRow, Col: batchColCheckpoint + 1, Value: *checkpoint})
	}
	return r.store.UpdateRange(ctx, TableBatches, updates)
}

// Finalize marks the batch done and clears the checkpoint
func (r *BatchRepository) Finalize(ctx context.Context, projectID string, number int, progress string) error {
	sheetRow, _, err := r.find(ctx, projectID, number)
	if err != nil {
		return err
	}
	return r.store.UpdateRange(ctx, TableBatches, []CellUpdate{
		{Row: sheetRow, Col: batchColStatus + 1, Value: string(batch.StatusDone)},
		{Row: sheetRow, Col: batchColProgress + 1, Value: progress},
		{Row: sheetRow, Col: batchColCheckpoint + 1, Value: ""},
	})
}

// find locates a batch row and returns its 1-based sheet position.
func (r *BatchRepository) find(ctx context.Context, projectID string, number int) (int, *batch.Batch, error) {
	rows, err := r.store.Rows(ctx, TableBatches)
	if err != nil {
		return 0, nil, err
	}
	want := strconv.Itoa(number)
	for i := 1; i < len(rows); i++ {
		if cellAt(rows[i], batchColProjectID) == projectID && cellAt(rows[i], batchColNumber) == want {
			b := decodeBatch(rows[i])
			return i + 1, &b, nil
		}
	}
	return 0, nil, repository.ErrNotFound
}

func decodeBatch(row []string) batch.Batch {
	return batch.Batch{
		ProjectID:  cellAt(row, batchColProjectID),
		Number:     parseIntCell(cellAt(row, batchColNumber)),
		Status:     batch.Status(cellAt(row, batchColStatus)),
		Owner:      cellAt(row, batchColOwner),
		Progress:   cellAt(row, batchColProgress),
		Checkpoint: cellAt(row, batchColCheckpoint),
	}
}
