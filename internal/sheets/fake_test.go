package sheets

import (
	"context"
	"fmt"
	"sync"
)

// fakeStore is an in-memory RowStore for tests. Writes can be intercepted
// through onUpdate to simulate interleaved workers.
type fakeStore struct {
	mu     sync.Mutex
	tables map[string][][]string

	// onUpdate runs before each UpdateRange under the lock.
	onUpdate func(table string, updates []CellUpdate)
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: map[string][][]string{}}
}

func (f *fakeStore) seed(table string, rows ...[]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[table] = append([][]string{tableHeaders[table]}, rows...)
}

func (f *fakeStore) Rows(_ context.Context, table string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src := f.tables[table]
	rows := make([][]string, len(src))
	for i, row := range src {
		rows[i] = append([]string(nil), row...)
	}
	return rows, nil
}

func (f *fakeStore) RowAt(_ context.Context, table string, row int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.tables[table]
	if row < 1 || row > len(rows) {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	return append([]string(nil), rows[row-1]...), nil
}

func (f *fakeStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	return f.UpdateRange(ctx, table, []CellUpdate{{Row: row, Col: col, Value: value}})
}

func (f *fakeStore) UpdateRange(_ context.Context, table string, updates []CellUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onUpdate != nil {
		f.onUpdate(table, updates)
	}
	rows := f.tables[table]
	for _, u := range updates {
		if u.Row < 1 || u.Row > len(rows) {
			return fmt.Errorf("row %d out of range", u.Row)
		}
		row := rows[u.Row-1]
		for len(row) < u.Col {
			row = append(row, "")
		}
		row[u.Col-1] = u.Value
		rows[u.Row-1] = row
	}
	f.tables[table] = rows
	return nil
}

func (f *fakeStore) Append(_ context.Context, table string, rows [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[table]; !ok {
		f.tables[table] = [][]string{tableHeaders[table]}
	}
	for _, row := range rows {
		f.tables[table] = append(f.tables[table], append([]string(nil), row...))
	}
	return nil
}

func (f *fakeStore) EnsureTable(_ context.Context, table string, header []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[table]; !ok {
		f.tables[table] = [][]string{append([]string(nil), header...)}
	}
	return nil
}
