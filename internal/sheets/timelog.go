package sheets

import (
	"context"
	"strconv"
	"sync"

	"github.com/coletalabs/coleta/internal/domain/timelog"
)

// Column positions within a time_log row (0-based).
const (
	tlColID = iota
	tlColProjectID
	tlColProjectName
	tlColBatchNumber
	tlColWorker
	tlColAction
	tlColDate
	tlColStartedAt
	tlColEndedAt
	tlColDuration
	tlColSummary
)

// TimeLogRepository implements repository.TimeLogRepository over a RowStore.
// The time_log table is created on first use.
type TimeLogRepository struct {
	store RowStore

	ensureOnce sync.Once
	ensureErr  error
}

// NewTimeLogRepository creates a new TimeLogRepository
func NewTimeLogRepository(store RowStore) *TimeLogRepository {
	return &TimeLogRepository{store: store}
}

func (r *TimeLogRepository) ensure(ctx context.Context) error {
	r.ensureOnce.Do(func() {
		r.ensureErr = r.store.EnsureTable(ctx, TableTimeLog, tableHeaders[TableTimeLog])
	})
	return r.ensureErr
}

// Append adds one time-log row. Entries are never updated or deleted.
func (r *TimeLogRepository) Append(ctx context.Context, entry *timelog.Entry) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}
	row := []string{
		entry.ID,
		entry.ProjectID,
		entry.ProjectName,
		strconv.Itoa(entry.BatchNumber),
		entry.Worker,
		string(entry.Action),
		entry.Date,
		formatTimeCell(entry.StartedAt),
		formatTimeCell(entry.EndedAt),
		strconv.Itoa(entry.DurationSeconds),
		entry.Summary,
	}
	return r.store.Append(ctx, TableTimeLog, [][]string{row})
}

// List returns entries newest first, optionally filtered
func (r *TimeLogRepository) List(ctx context.Context, opts timelog.ListOptions) ([]timelog.Entry, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	rows, err := r.store.Rows(ctx, TableTimeLog)
	if err != nil {
		return nil, err
	}

	var entries []timelog.Entry
	for i := len(rows) - 1; i >= 1; i-- {
		row := rows[i]
		if opts.ProjectID != "" && cellAt(row, tlColProjectID) != opts.ProjectID {
			continue
		}
		if opts.Worker != "" && cellAt(row, tlColWorker) != opts.Worker {
			continue
		}
		entries = append(entries, timelog.Entry{
			ID:              cellAt(row, tlColID),
			ProjectID:       cellAt(row, tlColProjectID),
			ProjectName:     cellAt(row, tlColProjectName),
			BatchNumber:     parseIntCell(cellAt(row, tlColBatchNumber)),
			Worker:          cellAt(row, tlColWorker),
			Action:          timelog.Action(cellAt(row, tlColAction)),
			Date:            cellAt(row, tlColDate),
			StartedAt:       parseTimeCell(cellAt(row, tlColStartedAt)),
			EndedAt:         parseTimeCell(cellAt(row, tlColEndedAt)),
			DurationSeconds: parseIntCell(cellAt(row, tlColDuration)),
			Summary:         cellAt(row, tlColSummary),
		})
		if opts.Limit > 0 && len(entries) >= opts.Limit {
			break
		}
	}
	return entries, nil
}
