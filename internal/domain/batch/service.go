package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	repository "github.com/coletalabs/coleta/internal/repository/errs"
)

// Service handles the batch lifecycle: claims, saves, and finalization.
type Service struct {
	batches Repository
	items   ItemRepository
	logger  *slog.Logger
}

// NewService creates a new batch service.
func NewService(batches Repository, items ItemRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{batches: batches, items: items, logger: logger}
}

// Claim takes ownership of a batch for worker. Claiming a batch the worker
// already owns is a no-op success. The underlying write is conditional, so
// two concurrent claims on a free batch produce exactly one winner.
func (s *Service) Claim(ctx context.Context, projectID string, number int, worker string) (*Batch, error) {
	if strings.TrimSpace(worker) == "" {
		return nil, ErrInvalidInput
	}

	b, err := s.get(ctx, projectID, number)
	if err != nil {
		return nil, err
	}

	switch {
	case b.Status == StatusDone:
		return nil, ErrBatchDone
	case b.Status == StatusInProgress && b.Owner == worker:
		return b, nil
	case b.Status == StatusInProgress:
		return nil, ErrAlreadyClaimed
	}

	if err := s.batches.Claim(ctx, projectID, number, worker); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyClaimed
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("claiming batch: %w", err)
	}

	b.Status = StatusInProgress
	b.Owner = worker
	s.logger.Info("batch claimed", "project", projectID, "batch", number, "worker", worker)
	return b, nil
}

// Load returns a batch together with its items. Item row positions are
// captured here and must be passed back on every save.
func (s *Service) Load(ctx context.Context, projectID string, number int) (*Batch, []Item, error) {
	b, err := s.get(ctx, projectID, number)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.items.ListByBatch(ctx, projectID, number)
	if err != nil {
		return nil, nil, fmt.Errorf("loading items: %w", err)
	}
	return b, items, nil
}

// List returns all batches of a project for the work map.
func (s *Service) List(ctx context.Context, projectID string) ([]Batch, error) {
	return s.batches.ListByProject(ctx, projectID)
}

// Save writes item links in bulk and refreshes the persisted progress
// string. A non-empty checkpoint marks where the worker paused. Status is
// unchanged; saving against a done batch is rejected.
func (s *Service) Save(ctx context.Context, projectID string, number int, items []Item, checkpoint string) (filled, total int, err error) {
	b, err := s.get(ctx, projectID, number)
	if err != nil {
		return 0, 0, err
	}
	if b.Status == StatusDone {
		return 0, 0, ErrBatchDone
	}

	trimLinks(items)
	if err := s.items.UpdateLinks(ctx, items); err != nil {
		return 0, 0, fmt.Errorf("saving items: %w", err)
	}

	filled, total, _ = Progress(items)
	var cp *string
	if strings.TrimSpace(checkpoint) != "" {
		cp = &checkpoint
	}
	if err := s.batches.UpdateProgress(ctx, projectID, number, FormatProgress(filled, total), cp); err != nil {
		return 0, 0, fmt.Errorf("updating progress: %w", err)
	}
	return filled, total, nil
}

// SaveItem persists a single item's link by its identity key and captured
// row position. This is the auto-save path for individual edits: failures
// are reported as ok=false so the caller can retry the same edit later.
func (s *Service) SaveItem(ctx context.Context, key Key, rowIndex int, link string) bool {
	item := Item{
		ProjectID:   key.ProjectID,
		BatchNumber: key.BatchNumber,
		EAN:         key.EAN,
		Link:        strings.TrimSpace(link),
		RowIndex:    rowIndex,
	}
	if err := s.items.UpdateLink(ctx, item); err != nil {
		s.logger.Warn("item save failed",
			"project", key.ProjectID, "batch", key.BatchNumber, "ean", key.EAN, "error", err)
		return false
	}
	return true
}

// Finalize writes item links, marks the batch done, and clears its
// checkpoint. Unfilled items do not block finalization.
func (s *Service) Finalize(ctx context.Context, projectID string, number int, items []Item) error {
	b, err := s.get(ctx, projectID, number)
	if err != nil {
		return err
	}
	if b.Status == StatusDone {
		return ErrBatchDone
	}

	trimLinks(items)
	if err := s.items.UpdateLinks(ctx, items); err != nil {
		return fmt.Errorf("saving items: %w", err)
	}

	filled, total, _ := Progress(items)
	if err := s.batches.Finalize(ctx, projectID, number, FormatProgress(filled, total)); err != nil {
		return fmt.Errorf("finalizing batch: %w", err)
	}
	s.logger.Info("batch finalized", "project", projectID, "batch", number, "progress", FormatProgress(filled, total))
	return nil
}

func (s *Service) get(ctx context.Context, projectID string, number int) (*Batch, error) {
	b, err := s.batches.Get(ctx, projectID, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("loading batch: %w", err)
	}
	return b, nil
}

func trimLinks(items []Item) {
	for i := range items {
		items[i].Link = strings.TrimSpace(items[i].Link)
	}
}
