package sqlite

import (
	"context"
	"fmt"

	"github.com/coletalabs/coleta/internal/domain/timelog"
)

// TimeLogRepository implements repository.TimeLogRepository for SQLite
type TimeLogRepository struct {
	db *DB
}

// NewTimeLogRepository creates a new TimeLogRepository
func NewTimeLogRepository(db *DB) *TimeLogRepository {
	return &TimeLogRepository{db: db}
}

// Append inserts a time-log entry. Entries are never updated or deleted.
func (r *TimeLogRepository) Append(ctx context.Context, entry *timelog.Entry) error {
	query := `
		INSERT INTO time_log (
			id, project_id, project_name, batch_number, worker, action,
			log_date, started_at, ended_at, duration_seconds, summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ProjectID,
		entry.ProjectName,
		entry.BatchNumber,
		entry.Worker,
		entry.Action,
		entry.Date,
		entry.StartedAt,
		entry.EndedAt,
		entry.DurationSeconds,
		entry.Summary,
	)
	if err != nil {
		return fmt.Errorf("failed to append time-log entry: %w", err)
	}

	return nil
}

// List returns entries newest first, optionally filtered by project and worker
func (r *TimeLogRepository) List(ctx context.Context, opts timelog.ListOptions) ([]timelog.Entry, error) {
	query := `
		SELECT id, project_id, project_name, batch_number, worker, action,
		       log_date, started_at, ended_at, duration_seconds, summary
		FROM time_log
		WHERE 1=1
	`
	var args []any
	if opts.ProjectID != "" {
		query += " AND project_id = ?"
		args = append(args, opts.ProjectID)
	}
	if opts.Worker != "" {
		query += " AND worker = ?"
		args = append(args, opts.Worker)
	}
	query += " ORDER BY ended_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-log entries: %w", err)
	}
	defer rows.Close()

	var entries []timelog.Entry
	for rows.Next() {
		var e timelog.Entry
		err := rows.Scan(
			&e.ID, &e.ProjectID, &e.ProjectName, &e.BatchNumber, &e.Worker, &e.Action,
			&e.Date, &e.StartedAt, &e.EndedAt, &e.DurationSeconds, &e.Summary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time-log entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time-log rows: %w", err)
	}

	return entries, nil
}
