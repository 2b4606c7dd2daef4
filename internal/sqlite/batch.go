package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/repository"
)

// BatchRepository implements repository.BatchRepository for SQLite
type BatchRepository struct {
	db *DB
}

// NewBatchRepository creates a new BatchRepository
func NewBatchRepository(db *DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Append inserts batches in bulk inside one transaction
func (r *BatchRepository) Append(ctx context.Context, batches []batch.Batch) error {
	if len(batches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO batches (project_id, number, status, owner, progress, checkpoint)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, b := range batches {
		if _, err := tx.ExecContext(ctx, query, b.ProjectID, b.Number, b.Status, b.Owner, b.Progress, b.Checkpoint); err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrNotFound
			}
			return fmt.Errorf("failed to insert batch %d: %w", b.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a batch by its composite identity
func (r *BatchRepository) Get(ctx context.Context, projectID string, number int) (*batch.Batch, error) {
	query := `
		SELECT project_id, number, status, owner, progress, checkpoint
		FROM batches
		WHERE project_id = ? AND number = ?
	`

	var b batch.Batch
	err := r.db.QueryRowContext(ctx, query, projectID, number).Scan(
		&b.ProjectID,
		&b.Number,
		&b.Status,
		&b.Owner,
		&b.Progress,
		&b.Checkpoint,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	return &b, nil
}

// ListByProject returns a project's batches ordered by number
func (r *BatchRepository) ListByProject(ctx context.Context, projectID string) ([]batch.Batch, error) {
	query := `
		SELECT project_id, number, status, owner, progress, checkpoint
		FROM batches
		WHERE project_id = ?
		ORDER BY number ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []batch.Batch
	for rows.Next() {
		var b batch.Batch
		err := rows.Scan(&b.ProjectID, &b.Number, &b.Status, &b.Owner, &b.Progress, &b.Checkpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch rows: %w", err)
	}

	return batches, nil
}

// Claim conditionally takes ownership of a batch. The WHERE clause is the
// concurrency control: only a free batch, or one already owned by the same
// worker, matches, so two concurrent claimants can't both win.
func (r *BatchRepository) Claim(ctx context.Context, projectID string, number int, worker string) error {
	query := `
		UPDATE batches
		SET status = ?, owner = ?
		WHERE project_id = ? AND number = ?
		  AND (status = ? OR (status = ? AND owner = ?))
	`

	result, err := r.db.ExecContext(ctx, query,
		batch.StatusInProgress, worker,
		projectID, number,
		batch.StatusFree, batch.StatusInProgress, worker,
	)
	if err != nil {
		return fmt.Errorf("failed to claim batch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// No row matched: either the batch doesn't exist or someone else holds it.
	if _, err := r.Get(ctx, projectID, number); err != nil {
		return err
	}
	return repository.ErrConflict
}

// UpdateProgress writes the progress string and optionally the checkpoint
func (r *BatchRepository) UpdateProgress(ctx context.Context, projectID string, number int, progress string, checkpoint *string) error {
	query := `UPDATE batches SET progress = ? WHERE project_id = ? AND number = ?`
	args := []any{progress, projectID, number}
	if checkpoint != nil {
		query = `UPDATE batches SET progress = ?, checkpoint = ? WHERE project_id = ? AND number = ?`
		args = []any{progress, *checkpoint, projectID, number}
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Finalize marks a batch done, records final progress, and clears the checkpoint
func (r *BatchRepository) Finalize(ctx context.Context, projectID string, number int, progress string) error {
	query := `
		UPDATE batches
		SET status = ?, progress = ?, checkpoint = ''
		WHERE project_id = ? AND number = ?
	`

	result, err := r.db.ExecContext(ctx, query, batch.StatusDone, progress, projectID, number)
	if err != nil {
		return fmt.Errorf("failed to finalize batch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
