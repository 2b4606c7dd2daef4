package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/repository"
)

func seedItems(projectID string) []batch.Item {
	return []batch.Item{
		{ProjectID: projectID, BatchNumber: 1, EAN: "7890000000017", Description: "Produto 1", Site: "mercado-a"},
		{ProjectID: projectID, BatchNumber: 1, EAN: "7890000000024", Description: "Produto 2", Site: "mercado-a"},
		{ProjectID: projectID, BatchNumber: 1, EAN: "7890000000031", Description: "Produto 3", Site: "mercado-b"},
	}
}

func TestItemRepository_ListByBatch(t *testing.T) {
	db := NewTestDB(t)
	seedProject(t, db, "p1", seedItems("p1"))
	repo := NewItemRepository(db)

	items, err := repo.ListByBatch(context.Background(), "p1", 1)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "7890000000017", items[0].EAN)
	require.Positive(t, items[0].RowIndex)
	require.Greater(t, items[1].RowIndex, items[0].RowIndex)
}

func TestItemRepository_UpdateLink(t *testing.T) {
	db := NewTestDB(t)
	seedProject(t, db, "p1", seedItems("p1"))
	repo := NewItemRepository(db)
	ctx := context.Background()

	err := repo.UpdateLink(ctx, batch.Item{
		ProjectID:   "p1",
		BatchNumber: 1,
		EAN:         "7890000000024",
		Link:        "https://mercado-a.example/produto-2",
	})
	require.NoError(t, err)

	items, err := repo.ListByBatch(ctx, "p1", 1)
	require.NoError(t, err)
	require.Equal(t, "https://mercado-a.example/produto-2", items[1].Link)
	require.Empty(t, items[0].Link)
}

func TestItemRepository_UpdateLinkNotFound(t *testing.T) {
	db := NewTestDB(t)
	seedProject(t, db, "p1", seedItems("p1"))
	repo := NewItemRepository(db)

	err := repo.UpdateLink(context.Background(), batch.Item{
		ProjectID:   "p1",
		BatchNumber: 1,
		EAN:         "0000000000000",
		Link:        "https://x.example",
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestItemRepository_UpdateLinks(t *testing.T) {
	db := NewTestDB(t)
	seedProject(t, db, "p1", seedItems("p1"))
	repo := NewItemRepository(db)
	ctx := context.Background()

	edits := []batch.Item{
		{ProjectID: "p1", BatchNumber: 1, EAN: "7890000000017", Link: "https://a.example/1"},
		{ProjectID: "p1", BatchNumber: 1, EAN: "7890000000031", Link: "https://a.example/3"},
	}
	require.NoError(t, repo.UpdateLinks(ctx, edits))

	items, err := repo.ListByBatch(ctx, "p1", 1)
	require.NoError(t, err)
	require.Equal(t, "https://a.example/1", items[0].Link)
	require.Empty(t, items[1].Link)
	require.Equal(t, "https://a.example/3", items[2].Link)
}

func TestItemRepository_AppendDuplicate(t *testing.T) {
	db := NewTestDB(t)
	seedProject(t, db, "p1", seedItems("p1"))
	repo := NewItemRepository(db)

	err := repo.Append(context.Background(), []batch.Item{
		{ProjectID: "p1", BatchNumber: 1, EAN: "7890000000017", Description: "dup"},
	})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}
