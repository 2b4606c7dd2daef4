// Package sheets persists the domain in a spreadsheet, the deployment
// target the team already operates. Repositories here speak the same
// interfaces as the sqlite backend; the 1-based row/column convention of
// spreadsheets is confined to the RowStore boundary.
package sheets

import "context"

// Table names, one worksheet per relation.
const (
	TableProjects = "projects"
	TableBatches  = "batches"
	TableItems    = "items"
	TableTimeLog  = "time_log"
)

// Header rows written when a table is created.
var tableHeaders = map[string][]string{
	TableProjects: {"id", "name", "created_at", "batch_count", "status"},
	TableBatches:  {"project_id", "number", "status", "owner", "progress", "checkpoint"},
	TableItems:    {"project_id", "batch_number", "ean", "description", "site", "postal_code", "address", "link"},
	TableTimeLog:  {"id", "project_id", "project_name", "batch_number", "worker", "action", "date", "started_at", "ended_at", "duration_seconds", "summary"},
}

// CellUpdate addresses one cell write. Row and Col are 1-based; row 1 is
// the header.
type CellUpdate struct {
	Row   int
	Col   int
	Value string
}

// RowStore is the minimal spreadsheet capability the repositories need:
// whole-table reads, addressed cell writes, and appends. Implementations
// must not reorder rows, since captured row positions are reused across
// calls.
type RowStore interface {
	// Rows returns every row of a table including the header row.
	Rows(ctx context.Context, table string) ([][]string, error)
	// RowAt returns a single row by its 1-based position.
	RowAt(ctx context.Context, table string, row int) ([]string, error)
	// UpdateCell writes one cell.
	UpdateCell(ctx context.Context, table string, row, col int, value string) error
	// UpdateRange writes several cells in one round trip.
	UpdateRange(ctx context.Context, table string, updates []CellUpdate) error
	// Append adds rows after the last non-empty row.
	Append(ctx context.Context, table string, rows [][]string) error
	// EnsureTable creates a table with the given header if it is missing.
	EnsureTable(ctx context.Context, table string, header []string) error
}
