package repository

import (
	"context"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/domain/project"
	"github.com/coletalabs/coleta/internal/domain/timelog"
)

// ProjectRepository manages project persistence
type ProjectRepository interface {
	Create(ctx context.Context, proj *project.Project) error
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	SetStatus(ctx context.Context, id string, status project.Status) error
}

// BatchRepository manages batch persistence
type BatchRepository interface {
	Append(ctx context.Context, batches []batch.Batch) error
	Get(ctx context.Context, projectID string, number int) (*batch.Batch, error)
	ListByProject(ctx context.Context, projectID string) ([]batch.Batch, error)
	Claim(ctx context.Context, projectID string, number int, worker string) error
	UpdateProgress(ctx context.Context, projectID string, number int, progress string, checkpoint *string) error
	Finalize(ctx context.Context, projectID string, number int, progress string) error
}

// ItemRepository manages item persistence
type ItemRepository interface {
	Append(ctx context.Context, items []batch.Item) error
	ListByBatch(ctx context.Context, projectID string, number int) ([]batch.Item, error)
	ListByProject(ctx context.Context, projectID string) ([]batch.Item, error)
	UpdateLink(ctx context.Context, item batch.Item) error
	UpdateLinks(ctx context.Context, items []batch.Item) error
}

// TimeLogRepository manages append-only time-log persistence
type TimeLogRepository interface {
	Append(ctx context.Context, entry *timelog.Entry) error
	List(ctx context.Context, opts timelog.ListOptions) ([]timelog.Entry, error)
}
