package timelog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coletalabs/coleta/internal/domain/timelog"
	"github.com/coletalabs/coleta/internal/repository/mocks"
)

func TestTimeLogService_Record(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TimeLogRepository{}
	repo.On("Append", ctx, mock.Anything).Return(nil)

	svc := timelog.NewService(repo, nil)
	err := svc.Record(ctx, timelog.RecordRequest{
		ProjectID:   "proj1",
		ProjectName: "campaign-a",
		BatchNumber: 3,
		Worker:      "ana",
		Action:      timelog.ActionPause,
		Duration:    12 * time.Minute,
		Filled:      40,
		Total:       100,
	})
	require.NoError(t, err)

	entry := repo.Calls[0].Arguments.Get(1).(*timelog.Entry)
	require.NotEmpty(t, entry.ID)
	require.Equal(t, "campaign-a", entry.ProjectName)
	require.Equal(t, 720, entry.DurationSeconds)
	require.Equal(t, "pause (40/100)", entry.Summary)
	require.Equal(t, entry.StartedAt.Format("2006-01-02"), entry.Date)
	require.Equal(t, 12*time.Minute, entry.EndedAt.Sub(entry.StartedAt))
}

func TestTimeLogService_ShortIntervalDropped(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TimeLogRepository{}

	svc := timelog.NewService(repo, nil)
	err := svc.Record(ctx, timelog.RecordRequest{
		ProjectID: "proj1",
		Worker:    "ana",
		Action:    timelog.ActionPause,
		Duration:  3 * time.Second,
	})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestTimeLogService_MinDurationBoundary(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TimeLogRepository{}
	repo.On("Append", ctx, mock.Anything).Return(nil)

	svc := timelog.NewService(repo, nil)
	err := svc.Record(ctx, timelog.RecordRequest{
		ProjectID: "proj1",
		Worker:    "ana",
		Action:    timelog.ActionFinish,
		Duration:  timelog.MinDuration,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
