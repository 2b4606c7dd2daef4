package timelog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// MinDuration filters out instantaneous reload noise: sessions shorter than
// this are not logged.
const MinDuration = 5 * time.Second

// RecordRequest describes a finished work interval on a batch.
type RecordRequest struct {
	ProjectID   string
	ProjectName string
	BatchNumber int
	Worker      string
	Action      Action
	Duration    time.Duration
	Filled      int
	Total       int
}

// Service handles time-log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new time-log service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Record appends an audit entry for a pause or finalize action. Intervals
// below MinDuration are dropped without error.
func (s *Service) Record(ctx context.Context, req RecordRequest) error {
	if req.Duration < MinDuration {
		s.logger.Debug("time-log entry skipped",
			"project", req.ProjectID, "batch", req.BatchNumber, "duration", req.Duration)
		return nil
	}

	end := s.now()
	start := end.Add(-req.Duration)
	entry := &Entry{
		ID:              uuid.NewString(),
		ProjectID:       req.ProjectID,
		ProjectName:     req.ProjectName,
		BatchNumber:     req.BatchNumber,
		Worker:          req.Worker,
		Action:          req.Action,
		Date:            start.Format("2006-01-02"),
		StartedAt:       start,
		EndedAt:         end,
		DurationSeconds: int(req.Duration.Seconds()),
		Summary:         fmt.Sprintf("%s (%d/%d)", req.Action, req.Filled, req.Total),
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("appending time-log entry: %w", err)
	}
	return nil
}

// List returns entries for admin reports.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	return s.repo.List(ctx, opts)
}
