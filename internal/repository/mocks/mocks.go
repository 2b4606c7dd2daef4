package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/domain/project"
	"github.com/coletalabs/coleta/internal/domain/timelog"
)

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) SetStatus(ctx context.Context, id string, status project.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// BatchRepository is a mock for repository.BatchRepository.
type BatchRepository struct {
	mock.Mock
}

func (m *BatchRepository) Append(ctx context.Context, batches []batch.Batch) error {
	args := m.Called(ctx, batches)
	return args.Error(0)
}

func (m *BatchRepository) Get(ctx context.Context, projectID string, number int) (*batch.Batch, error) {
	args := m.Called(ctx, projectID, number)
	if b, ok := args.Get(0).(*batch.Batch); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BatchRepository) ListByProject(ctx context.Context, projectID string) ([]batch.Batch, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]batch.Batch); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BatchRepository) Claim(ctx context.Context, projectID string, number int, worker string) error {
	args := m.Called(ctx, projectID, number, worker)
	return args.Error(0)
}

func (m *BatchRepository) UpdateProgress(ctx context.Context, projectID string, number int, progress string, checkpoint *string) error {
	args := m.Called(ctx, projectID, number, progress, checkpoint)
	return args.Error(0)
}

func (m *BatchRepository) Finalize(ctx context.Context, projectID string, number int, progress string) error {
	args := m.Called(ctx, projectID, number, progress)
	return args.Error(0)
}

// ItemRepository is a mock for repository.ItemRepository.
type ItemRepository struct {
	mock.Mock
}

func (m *ItemRepository) Append(ctx context.Context, items []batch.Item) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *ItemRepository) ListByBatch(ctx context.Context, projectID string, number int) ([]batch.Item, error) {
	args := m.Called(ctx, projectID, number)
	if list, ok := args.Get(0).([]batch.Item); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ItemRepository) ListByProject(ctx context.Context, projectID string) ([]batch.Item, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]batch.Item); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ItemRepository) UpdateLink(ctx context.Context, item batch.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *ItemRepository) UpdateLinks(ctx context.Context, items []batch.Item) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// TimeLogRepository is a mock for repository.TimeLogRepository.
type TimeLogRepository struct {
	mock.Mock
}

func (m *TimeLogRepository) Append(ctx context.Context, entry *timelog.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *TimeLogRepository) List(ctx context.Context, opts timelog.ListOptions) ([]timelog.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]timelog.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
