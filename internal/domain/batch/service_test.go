package batch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/repository"
	"github.com/coletalabs/coleta/internal/repository/mocks"
)

func freeBatch() *batch.Batch {
	return &batch.Batch{ProjectID: "proj1", Number: 1, Status: batch.StatusFree, Progress: "0/3"}
}

func TestBatchService_Claim(t *testing.T) {
	ctx := context.Background()

	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 1).Return(freeBatch(), nil)
	batches.On("Claim", ctx, "proj1", 1, "ana").Return(nil)

	svc := batch.NewService(batches, &mocks.ItemRepository{}, nil)
	b, err := svc.Claim(ctx, "proj1", 1, "ana")
	require.NoError(t, err)
	require.Equal(t, batch.StatusInProgress, b.Status)
	require.Equal(t, "ana", b.Owner)
	batches.AssertExpectations(t)
}

func TestBatchService_ClaimLosesRace(t *testing.T) {
	ctx := context.Background()

	// The batch looks free on read but another worker wins the conditional write.
	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 1).Return(freeBatch(), nil)
	batches.On("Claim", ctx, "proj1", 1, "ana").Return(repository.ErrConflict)

	svc := batch.NewService(batches, &mocks.ItemRepository{}, nil)
	_, err := svc.Claim(ctx, "proj1", 1, "ana")
	require.ErrorIs(t, err, batch.ErrAlreadyClaimed)
}

func TestBatchService_ClaimOwnBatchResumes(t *testing.T) {
	ctx := context.Background()

	owned := freeBatch()
	owned.Status = batch.StatusInProgress
	owned.Owner = "ana"

	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 1).Return(owned, nil)

	svc := batch.NewService(batches, &mocks.ItemRepository{}, nil)
	b, err := svc.Claim(ctx, "proj1", 1, "ana")
	require.NoError(t, err)
	require.Equal(t, "ana", b.Owner)
	batches.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchService_ClaimOtherOwner(t *testing.T) {
	ctx := context.Background()

	owned := freeBatch()
	owned.Status = batch.StatusInProgress
	owned.Owner = "bia"

	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 1).Return(owned, nil)

	svc := batch.NewService(batches, &mocks.ItemRepository{}, nil)
	_, err := svc.Claim(ctx, "proj1", 1, "ana")
	require.ErrorIs(t, err, batch.ErrAlreadyClaimed)
}

func TestBatchService_ClaimDone(t *testing.T) {
	ctx := context.Background()

	done := freeBatch()
	done.Status = batch.StatusDone

	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 1).Return(done, nil)

	svc := batch.NewService(batches, &mocks.ItemRepository{}, nil)
	_, err := svc.Claim(ctx, "proj1", 1, "ana")
	require.ErrorIs(t, err, batch.ErrBatchDone)
}

func TestBatchService_ClaimValidation(t *testing.T) {
	svc := batch.NewService(&mocks.BatchRepository{}, &mocks.ItemRepository{}, nil)
	_, err := svc.Claim(context.Background(), "proj1", 1, "  ")
	require.ErrorIs(t, err, batch.ErrInvalidInput)
}

func TestBatchService_ClaimNotFound(t *testing.T) {
	ctx := context.Background()

	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 99).Return((*batch.Batch)(nil), repository.ErrNotFound)

	svc := batch.NewService(batches, &mocks.ItemRepository{}, nil)
	_, err := svc.Claim(ctx, "proj1", 99, "ana")
	require.ErrorIs(t, err, batch.ErrBatchNotFound)
}

func TestBatchService_Save(t *testing.T) {
	ctx := context.Background()

	inProgress := freeBatch()
	inProgress.Status = batch.StatusInProgress
	inProgress.Owner = "ana"

	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 1).Return(inProgress, nil)
	batches.On("UpdateProgress", ctx, "proj1", 1, "2/3", mock.Anything).Return(nil)

	items := &mocks.ItemRepository{}
	items.On("UpdateLinks", ctx, mock.Anything).Return(nil)

	svc := batch.NewService(batches, items, nil)
	filled, total, err := svc.Save(ctx, "proj1", 1, []batch.Item{
		{EAN: "1", Link: " https://a.example/1 ", RowIndex: 2},
		{EAN: "2", Link: "https://a.example/2", RowIndex: 3},
		{EAN: "3", Link: "", RowIndex: 4},
	}, "stopped at item 2")
	require.NoError(t, err)
	require.Equal(t, 2, filled)
	require.Equal(t, 3, total)

	// Links are trimmed before the bulk write.
	saved := items.Calls[0].Arguments.Get(1).([]batch.Item)
	require.Equal(t, "https://a.example/1", saved[0].Link)

	cp := batches.Calls[1].Arguments.Get(4).(*string)
	require.NotNil(t, cp)
	require.Equal(t, "stopped at item 2", *cp)
}

func TestBatchService_SaveWithoutCheckpoint(t *testing.T) {
	ctx := context.Background()

	inProgress := freeBatch()
	inProgress.Status = batch.StatusInProgress

	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 1).Return(inProgress, nil)
	batches.On("UpdateProgress", ctx, "proj1", 1, "0/1", (*string)(nil)).Return(nil)

	items := &mocks.ItemRepository{}
	items.On("UpdateLinks", ctx, mock.Anything).Return(nil)

	svc := batch.NewService(batches, items, nil)
	_, _, err := svc.Save(ctx, "proj1", 1, []batch.Item{{EAN: "1"}}, "   ")
	require.NoError(t, err)
	batches.AssertExpectations(t)
}

func TestBatchService_SaveDoneRejected(t *testing.T) {
	ctx := context.Background()

	done := freeBatch()
	done.Status = batch.StatusDone

	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 1).Return(done, nil)

	svc := batch.NewService(batches, &mocks.ItemRepository{}, nil)
	_, _, err := svc.Save(ctx, "proj1", 1, []batch.Item{{EAN: "1"}}, "")
	require.ErrorIs(t, err, batch.ErrBatchDone)
}

func TestBatchService_SaveItem(t *testing.T) {
	ctx := context.Background()
	key := batch.Key{ProjectID: "proj1", BatchNumber: 1, EAN: "789"}

	items := &mocks.ItemRepository{}
	items.On("UpdateLink", ctx, batch.Item{
		ProjectID:   "proj1",
		BatchNumber: 1,
		EAN:         "789",
		Link:        "https://a.example/789",
		RowIndex:    5,
	}).Return(nil)

	svc := batch.NewService(&mocks.BatchRepository{}, items, nil)
	require.True(t, svc.SaveItem(ctx, key, 5, " https://a.example/789 "))
	items.AssertExpectations(t)
}

func TestBatchService_SaveItemFailureReturnsFalse(t *testing.T) {
	ctx := context.Background()
	key := batch.Key{ProjectID: "proj1", BatchNumber: 1, EAN: "789"}

	items := &mocks.ItemRepository{}
	items.On("UpdateLink", ctx, mock.Anything).Return(errors.New("write failed"))

	svc := batch.NewService(&mocks.BatchRepository{}, items, nil)
	require.False(t, svc.SaveItem(ctx, key, 5, "https://a.example/789"))
}

func TestBatchService_Finalize(t *testing.T) {
	ctx := context.Background()

	inProgress := freeBatch()
	inProgress.Status = batch.StatusInProgress
	inProgress.Owner = "ana"

	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 1).Return(inProgress, nil)
	batches.On("Finalize", ctx, "proj1", 1, "2/2").Return(nil)

	items := &mocks.ItemRepository{}
	items.On("UpdateLinks", ctx, mock.Anything).Return(nil)

	svc := batch.NewService(batches, items, nil)
	err := svc.Finalize(ctx, "proj1", 1, []batch.Item{
		{EAN: "1", Link: "https://a.example/1"},
		{EAN: "2", Link: "https://a.example/2"},
	})
	require.NoError(t, err)
	batches.AssertExpectations(t)
}

func TestBatchService_FinalizeTwice(t *testing.T) {
	ctx := context.Background()

	done := freeBatch()
	done.Status = batch.StatusDone

	batches := &mocks.BatchRepository{}
	batches.On("Get", ctx, "proj1", 1).Return(done, nil)

	svc := batch.NewService(batches, &mocks.ItemRepository{}, nil)
	err := svc.Finalize(ctx, "proj1", 1, nil)
	require.ErrorIs(t, err, batch.ErrBatchDone)
}
