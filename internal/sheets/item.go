package sheets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/repository"
)

// Column positions within an items row (0-based).
const (
	itemColProjectID = iota
	itemColBatchNumber
	itemColEAN
	itemColDescription
	itemColSite
	itemColPostalCode
	itemColAddress
	itemColLink
)

// ItemRepository implements repository.ItemRepository over a RowStore
type ItemRepository struct {
	store RowStore
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(store RowStore) *ItemRepository {
	return &ItemRepository{store: store}
}

// Append adds item rows in one call
func (r *ItemRepository) Append(ctx context.Context, items []batch.Item) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{
			it.ProjectID,
			strconv.Itoa(it.BatchNumber),
			it.EAN,
			it.Description,
			it.Site,
			it.PostalCode,
			it.Address,
			it.Link,
		}
	}
	return r.store.Append(ctx, TableItems, rows)
}

// ListByBatch returns a batch's items with their sheet row positions
// captured in RowIndex. Saves pass the position back, so a single edit
// never rescans the table.
func (r *ItemRepository) ListByBatch(ctx context.Context, projectID string, number int) ([]batch.Item, error) {
	return r.list(ctx, projectID, strconv.Itoa(number))
}

// ListByProject returns all items of a project
func (r *ItemRepository) ListByProject(ctx context.Context, projectID string) ([]batch.Item, error) {
	return r.list(ctx, projectID, "")
}

func (r *ItemRepository) list(ctx context.Context, projectID, number string) ([]batch.Item, error) {
	rows, err := r.store.Rows(ctx, TableItems)
	if err != nil {
		return nil, err
	}
	var items []batch.Item
	for i := 1; i < len(rows); i++ {
		if cellAt(rows[i], itemColProjectID) != projectID {
			continue
		}
		if number != "" && cellAt(rows[i], itemColBatchNumber) != number {
			continue
		}
		it := decodeItem(rows[i])
		it.RowIndex = i + 1
		items = append(items, it)
	}
	return items, nil
}

// UpdateLink writes one item's link cell. The captured RowIndex addresses
// the row directly; only an item saved without one (a stale client) falls
// back to scanning for its identity key.
func (r *ItemRepository) UpdateLink(ctx context.Context, item batch.Item) error {
	row := item.RowIndex
	if row <= 1 {
		found, err := r.findRow(ctx, item.Key())
		if err != nil {
			return err
		}
		row = found
	}
	return r.store.UpdateCell(ctx, TableItems, row, itemColLink+1, item.Link)
}

// UpdateLinks writes link cells in bulk using captured row positions
func (r *ItemRepository) UpdateLinks(ctx context.Context, items []batch.Item) error {
	if len(items) == 0 {
		return nil
	}
	updates := make([]CellUpdate, 0, len(items))
	for _, it := range items {
		if it.RowIndex <= 1 {
			return fmt.Errorf("%w: item %s has no captured row position", repository.ErrInvalidInput, it.EAN)
		}
		updates = append(updates, CellUpdate{Row: it.RowIndex, Col: itemColLink + 1, Value: it.Link})
	}
	return r.store.UpdateRange(ctx, TableItems, updates)
}

func (r *ItemRepository) findRow(ctx context.Context, key batch.Key) (int, error) {
	rows, err := r.store.Rows(ctx, TableItems)
	if err != nil {
		return 0, err
	}
	number := strconv.Itoa(key.BatchNumber)
	for i := 1; i < len(rows); i++ {
		if cellAt(rows[i], itemColProjectID) == key.ProjectID &&
			cellAt(rows[i], itemColBatchNumber) == number &&
			cellAt(rows[i], itemColEAN) == key.EAN {
			return i + 1, nil
		}
	}
	return 0, repository.ErrNotFound
}

func decodeItem(row []string) batch.Item {
	return batch.Item{
		ProjectID:   cellAt(row, itemColProjectID),
		BatchNumber: parseIntCell(cellAt(row, itemColBatchNumber)),
		EAN:         cellAt(row, itemColEAN),
		Description: cellAt(row, itemColDescription),
		Site:        cellAt(row, itemColSite),
		PostalCode:  cellAt(row, itemColPostalCode),
		Address:     cellAt(row, itemColAddress),
		Link:        cellAt(row, itemColLink),
	}
}
