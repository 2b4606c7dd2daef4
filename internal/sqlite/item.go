package sqlite

import (
	"context"
	"fmt"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/repository"
)

// ItemRepository implements repository.ItemRepository for SQLite
type ItemRepository struct {
	db *DB
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Append inserts items in bulk inside one transaction
func (r *ItemRepository) Append(ctx context.Context, items []batch.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO items (project_id, batch_number, ean, description, site, postal_code, address, link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, it := range items {
		_, err := tx.ExecContext(ctx, query,
			it.ProjectID, it.BatchNumber, it.EAN,
			it.Description, it.Site, it.PostalCode, it.Address, it.Link,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: duplicate item %s", repository.ErrInvalidInput, it.EAN)
			}
			if isForeignKeyViolation(err) {
				return repository.ErrNotFound
			}
			return fmt.Errorf("failed to insert item %s: %w", it.EAN, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListByBatch returns a batch's items in insertion order. RowIndex carries
// the sqlite rowid so callers hold a stable position token either way,
// though this backend updates by identity key.
func (r *ItemRepository) ListByBatch(ctx context.Context, projectID string, number int) ([]batch.Item, error) {
	query := `
		SELECT rowid, project_id, batch_number, ean, description, site, postal_code, address, link
		FROM items
		WHERE project_id = ? AND batch_number = ?
		ORDER BY rowid ASC
	`
	return r.list(ctx, query, projectID, number)
}

// ListByProject returns all items of a project in insertion order
func (r *ItemRepository) ListByProject(ctx context.Context, projectID string) ([]batch.Item, error) {
	query := `
		SELECT rowid, project_id, batch_number, ean, description, site, postal_code, address, link
		FROM items
		WHERE project_id = ?
		ORDER BY rowid ASC
	`
	return r.list(ctx, query, projectID)
}

func (r *ItemRepository) list(ctx context.Context, query string, args ...any) ([]batch.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []batch.Item
	for rows.Next() {
		var it batch.Item
		err := rows.Scan(
			&it.RowIndex,
			&it.ProjectID, &it.BatchNumber, &it.EAN,
			&it.Description, &it.Site, &it.PostalCode, &it.Address, &it.Link,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// UpdateLink writes a single item's link by identity key
func (r *ItemRepository) UpdateLink(ctx context.Context, item batch.Item) error {
	query := `
		UPDATE items SET link = ?
		WHERE project_id = ? AND batch_number = ? AND ean = ?
	`

	result, err := r.db.ExecContext(ctx, query, item.Link, item.ProjectID, item.BatchNumber, item.EAN)
	if err != nil {
		return fmt.Errorf("failed to update item link: %w", err)
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

// UpdateLinks writes links in bulk inside one transaction
func (r *ItemRepository) UpdateLinks(ctx context.Context, items []batch.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE items SET link = ?
		WHERE project_id = ? AND batch_number = ? AND ean = ?
	`
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, query, it.Link, it.ProjectID, it.BatchNumber, it.EAN); err != nil {
			return fmt.Errorf("failed to update item %s: %w", it.EAN, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
