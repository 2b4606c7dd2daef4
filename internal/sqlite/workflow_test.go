package sqlite_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/domain/intake"
	"github.com/coletalabs/coleta/internal/domain/project"
	"github.com/coletalabs/coleta/internal/export"
	"github.com/coletalabs/coleta/internal/sqlite"
)

// TestCollectionWorkflow walks one batch through its full life: upload and
// partition, claim, incremental saves, and finalization, all against the
// real store.
func TestCollectionWorkflow(t *testing.T) {
	db := sqlite.NewTestDB(t)
	ctx := context.Background()

	projects := sqlite.NewProjectRepository(db)
	batches := sqlite.NewBatchRepository(db)
	items := sqlite.NewItemRepository(db)

	intakeSvc := intake.NewService(projects, batches, items, 100, nil)
	batchSvc := batch.NewService(batches, items, nil)
	projectSvc := project.NewService(projects, nil)

	// Upload 5 products with a lot size of 2: three batches.
	rows := make([][]string, 5)
	for i := range rows {
		hint := ""
		if i == 0 {
			hint = "2"
		}
		rows[i] = []string{"mercado-a", fmt.Sprintf("Produto %d", i+1), fmt.Sprintf("789%04d", i+1), hint}
	}
	result, err := intakeSvc.Partition(ctx, intake.Upload{
		Name:   "campanha-julho.xlsx",
		Header: []string{"Site*", "Descrição*", "EAN*", "Quantidade no Lote*"},
		Rows:   rows,
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.BatchCount)
	require.Equal(t, 5, result.ItemCount)

	// Worker claims batch 1; a rival cannot take it.
	claimed, err := batchSvc.Claim(ctx, result.ProjectID, 1, "ana")
	require.NoError(t, err)
	require.Equal(t, batch.StatusInProgress, claimed.Status)

	_, err = batchSvc.Claim(ctx, result.ProjectID, 1, "bia")
	require.ErrorIs(t, err, batch.ErrAlreadyClaimed)

	// Fill one of two links and pause with a checkpoint.
	_, loaded, err := batchSvc.Load(ctx, result.ProjectID, 1)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	loaded[0].Link = "https://mercado-a.example/7890001"
	filled, total, err := batchSvc.Save(ctx, result.ProjectID, 1, loaded, "parei no segundo")
	require.NoError(t, err)
	require.Equal(t, 1, filled)
	require.Equal(t, 2, total)

	paused, err := batches.Get(ctx, result.ProjectID, 1)
	require.NoError(t, err)
	require.Equal(t, "1/2", paused.Progress)
	require.Equal(t, "parei no segundo", paused.Checkpoint)

	// The same worker resumes and finishes.
	resumed, err := batchSvc.Claim(ctx, result.ProjectID, 1, "ana")
	require.NoError(t, err)
	require.Equal(t, "ana", resumed.Owner)

	_, loaded, err = batchSvc.Load(ctx, result.ProjectID, 1)
	require.NoError(t, err)
	loaded[1].Link = "https://mercado-a.example/7890002"
	require.NoError(t, batchSvc.Finalize(ctx, result.ProjectID, 1, loaded))

	done, err := batches.Get(ctx, result.ProjectID, 1)
	require.NoError(t, err)
	require.Equal(t, batch.StatusDone, done.Status)
	require.Equal(t, "2/2", done.Progress)
	require.Empty(t, done.Checkpoint)

	_, err = batchSvc.Claim(ctx, result.ProjectID, 1, "bia")
	require.ErrorIs(t, err, batch.ErrBatchDone)

	// Export reflects the collected links.
	var buf bytes.Buffer
	require.NoError(t, export.NewWriter(items).WriteProject(ctx, &buf, result.ProjectID))
	require.Contains(t, buf.String(), "https://mercado-a.example/7890001")
	require.Contains(t, buf.String(), "https://mercado-a.example/7890002")

	// Archiving hides the project from the worker list.
	require.NoError(t, projectSvc.Archive(ctx, result.ProjectID))
	active, err := projectSvc.ListActive(ctx)
	require.NoError(t, err)
	require.Empty(t, active)
}
