package intake_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/domain/intake"
	"github.com/coletalabs/coleta/internal/repository/mocks"
)

var uploadHeader = []string{"Site*", "Descrição*", "EAN*", "Quantidade no Lote*", "CEP", "Endereço"}

func uploadRows(n int, lotSize string) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		hint := ""
		if i == 0 {
			hint = lotSize
		}
		site := ""
		if i == 0 {
			site = "mercado-a"
		}
		rows[i] = []string{site, fmt.Sprintf("Produto %d", i+1), fmt.Sprintf("789%07d", i+1), hint, "", ""}
	}
	return rows
}

func newIntakeMocks() (*mocks.ProjectRepository, *mocks.BatchRepository, *mocks.ItemRepository) {
	projects := &mocks.ProjectRepository{}
	batches := &mocks.BatchRepository{}
	items := &mocks.ItemRepository{}
	projects.On("Create", mock.Anything, mock.Anything).Return(nil)
	batches.On("Append", mock.Anything, mock.Anything).Return(nil)
	items.On("Append", mock.Anything, mock.Anything).Return(nil)
	return projects, batches, items
}

func TestIntakeService_Partition(t *testing.T) {
	ctx := context.Background()
	projects, batches, items := newIntakeMocks()

	svc := intake.NewService(projects, batches, items, 100, nil)
	result, err := svc.Partition(ctx, intake.Upload{
		Name:   "campanha-julho.xlsx",
		Header: uploadHeader,
		Rows:   uploadRows(250, ""),
	})
	require.NoError(t, err)
	require.Equal(t, "campanha-julho", result.Name)
	require.Equal(t, 3, result.BatchCount)
	require.Equal(t, 250, result.ItemCount)
	require.Equal(t, 100, result.LotSize)
	require.Len(t, result.ProjectID, 8)

	appended := batches.Calls[0].Arguments.Get(1).([]batch.Batch)
	require.Len(t, appended, 3)
	require.Equal(t, "0/100", appended[0].Progress)
	require.Equal(t, "0/100", appended[1].Progress)
	require.Equal(t, "0/50", appended[2].Progress)
	for i, b := range appended {
		require.Equal(t, i+1, b.Number)
		require.Equal(t, batch.StatusFree, b.Status)
	}
}

func TestIntakeService_PartitionLotSizeHint(t *testing.T) {
	ctx := context.Background()
	projects, batches, items := newIntakeMocks()

	svc := intake.NewService(projects, batches, items, 100, nil)
	result, err := svc.Partition(ctx, intake.Upload{
		Name:   "campanha.csv",
		Header: uploadHeader,
		Rows:   uploadRows(120, "50"),
	})
	require.NoError(t, err)
	require.Equal(t, 50, result.LotSize)
	require.Equal(t, 3, result.BatchCount)

	appended := batches.Calls[0].Arguments.Get(1).([]batch.Batch)
	require.Equal(t, "0/50", appended[0].Progress)
	require.Equal(t, "0/20", appended[2].Progress)
}

func TestIntakeService_PartitionDecimalHint(t *testing.T) {
	ctx := context.Background()
	projects, batches, items := newIntakeMocks()

	// Spreadsheet exports often render integers as decimals.
	svc := intake.NewService(projects, batches, items, 100, nil)
	result, err := svc.Partition(ctx, intake.Upload{
		Name:   "campanha",
		Header: uploadHeader,
		Rows:   uploadRows(60, "30,0"),
	})
	require.NoError(t, err)
	require.Equal(t, 30, result.LotSize)
}

func TestIntakeService_PartitionForwardFillsSite(t *testing.T) {
	ctx := context.Background()
	projects, batches, items := newIntakeMocks()

	svc := intake.NewService(projects, batches, items, 100, nil)
	_, err := svc.Partition(ctx, intake.Upload{
		Name:   "campanha",
		Header: uploadHeader,
		Rows:   uploadRows(5, ""),
	})
	require.NoError(t, err)

	appended := items.Calls[0].Arguments.Get(1).([]batch.Item)
	require.Len(t, appended, 5)
	for _, it := range appended {
		require.Equal(t, "mercado-a", it.Site)
	}
}

func TestIntakeService_PartitionEmpty(t *testing.T) {
	svc := intake.NewService(&mocks.ProjectRepository{}, &mocks.BatchRepository{}, &mocks.ItemRepository{}, 100, nil)
	_, err := svc.Partition(context.Background(), intake.Upload{
		Name:   "vazio.xlsx",
		Header: uploadHeader,
	})
	require.ErrorIs(t, err, intake.ErrEmptyUpload)
}

func TestIntakeService_PartitionMissingColumn(t *testing.T) {
	svc := intake.NewService(&mocks.ProjectRepository{}, &mocks.BatchRepository{}, &mocks.ItemRepository{}, 100, nil)
	_, err := svc.Partition(context.Background(), intake.Upload{
		Name:   "sem-ean.xlsx",
		Header: []string{"Site*", "Descrição*"},
		Rows:   [][]string{{"mercado-a", "Produto 1"}},
	})
	require.ErrorIs(t, err, intake.ErrMissingColumn)
}

func TestIntakeService_PartitionDuplicateEAN(t *testing.T) {
	projects := &mocks.ProjectRepository{}
	batches := &mocks.BatchRepository{}
	items := &mocks.ItemRepository{}

	rows := uploadRows(10, "")
	rows[7][2] = rows[2][2]

	svc := intake.NewService(projects, batches, items, 100, nil)
	_, err := svc.Partition(context.Background(), intake.Upload{
		Name:   "duplicado.xlsx",
		Header: uploadHeader,
		Rows:   rows,
	})
	require.ErrorIs(t, err, intake.ErrDuplicateEAN)

	// Validation fails before anything reaches the store.
	projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	batches.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	items.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestIntakeService_PartitionDuplicateAcrossBatchesAllowed(t *testing.T) {
	ctx := context.Background()
	projects, batches, items := newIntakeMocks()

	// The same EAN may repeat across batches, only not within one.
	rows := uploadRows(4, "2")
	rows[3][2] = rows[0][2]

	svc := intake.NewService(projects, batches, items, 100, nil)
	result, err := svc.Partition(ctx, intake.Upload{
		Name:   "repetido.xlsx",
		Header: uploadHeader,
		Rows:   rows,
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.BatchCount)
}
