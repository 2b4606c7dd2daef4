package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	repository "github.com/coletalabs/coleta/internal/repository/errs"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// ListActive returns the projects visible to workers.
func (s *Service) ListActive(ctx context.Context) ([]Project, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	active := make([]Project, 0, len(all))
	for _, p := range all {
		if p.Status == StatusActive {
			active = append(active, p)
		}
	}
	return active, nil
}

// List returns all projects, archived included.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	return s.repo.List(ctx)
}

// Archive hides a project from workers. Batches and items are kept.
func (s *Service) Archive(ctx context.Context, id string) error {
	if err := s.repo.SetStatus(ctx, id, StatusArchived); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("archiving project: %w", err)
	}
	s.logger.Info("project archived", "project", id)
	return nil
}
