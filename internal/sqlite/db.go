package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema if it doesn't exist yet.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects table
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('active', 'archived')),
    batch_count INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Batch control table
CREATE TABLE IF NOT EXISTS batches (
    project_id TEXT NOT NULL,
    number INTEGER NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('free', 'in_progress', 'done')),
    owner TEXT NOT NULL DEFAULT '',
    progress TEXT NOT NULL DEFAULT '',
    checkpoint TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (project_id, number),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Raw item data
CREATE TABLE IF NOT EXISTS items (
    project_id TEXT NOT NULL,
    batch_number INTEGER NOT NULL,
    ean TEXT NOT NULL,
    description TEXT NOT NULL,
    site TEXT NOT NULL DEFAULT '',
    postal_code TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    link TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (project_id, batch_number, ean),
    FOREIGN KEY (project_id, batch_number) REFERENCES batches(project_id, number)
);
CREATE INDEX IF NOT EXISTS idx_items_project ON items(project_id);

-- Append-only time log
CREATE TABLE IF NOT EXISTS time_log (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    project_name TEXT NOT NULL,
    batch_number INTEGER NOT NULL,
    worker TEXT NOT NULL,
    action TEXT NOT NULL,
    log_date TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    ended_at TIMESTAMP NOT NULL,
    duration_seconds INTEGER NOT NULL,
    summary TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_timelog_project ON time_log(project_id);
CREATE INDEX IF NOT EXISTS idx_timelog_worker ON time_log(worker);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
