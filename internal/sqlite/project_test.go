package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coletalabs/coleta/internal/domain/project"
	"github.com/coletalabs/coleta/internal/repository"
)

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := &project.Project{
		ID:         "abc12345",
		Name:       "campanha-julho",
		Status:     project.StatusActive,
		BatchCount: 3,
		CreatedAt:  time.Now(),
	}

	require.NoError(t, repo.Create(ctx, proj))

	got, err := repo.Get(ctx, "abc12345")
	require.NoError(t, err)
	require.Equal(t, proj.Name, got.Name)
	require.Equal(t, project.StatusActive, got.Status)
	require.Equal(t, 3, got.BatchCount)
}

func TestProjectRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_SetStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &project.Project{
		ID:        "p1",
		Name:      "campanha",
		Status:    project.StatusActive,
		CreatedAt: time.Now(),
	}))

	require.NoError(t, repo.SetStatus(ctx, "p1", project.StatusArchived))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, project.StatusArchived, got.Status)

	require.ErrorIs(t, repo.SetStatus(ctx, "missing", project.StatusArchived), repository.ErrNotFound)
}
