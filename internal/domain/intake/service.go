package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/domain/project"
)

// DefaultLotSize is used when the upload carries no usable lot-size hint.
const DefaultLotSize = 100

// Upload is a parsed tabular upload: one header row plus data rows.
// File-format decoding (xlsx, csv) happens upstream.
type Upload struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Result summarizes a successful partition.
type Result struct {
	ProjectID  string `json:"project_id"`
	Name       string `json:"name"`
	BatchCount int    `json:"batch_count"`
	ItemCount  int    `json:"item_count"`
	LotSize    int    `json:"lot_size"`
}

// Service splits uploads into fixed-size batches and seeds the store.
type Service struct {
	projects project.Repository
	batches  batch.Repository
	items    batch.ItemRepository
	logger   *slog.Logger
	lotSize  int
}

// NewService creates a new intake service. defaultLotSize falls back to
// DefaultLotSize when non-positive.
func NewService(projects project.Repository, batches batch.Repository, items batch.ItemRepository, defaultLotSize int, logger *slog.Logger) *Service {
	if defaultLotSize <= 0 {
		defaultLotSize = DefaultLotSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		projects: projects,
		batches:  batches,
		items:    items,
		logger:   logger,
		lotSize:  defaultLotSize,
	}
}

// Partition validates an upload, splits it into contiguous chunks, and
// appends one project, its batches, and their items to the store. All
// validation happens before the first write. Store failures propagate:
// there is no rollback, and a failed partition can leave a partially
// written project behind.
func (s *Service) Partition(ctx context.Context, up Upload) (*Result, error) {
	rows, lotSize, err := s.prepare(up)
	if err != nil {
		return nil, err
	}

	projectID := shortID()
	chunks := chunkRows(rows, lotSize)

	batches := make([]batch.Batch, 0, len(chunks))
	items := make([]batch.Item, 0, len(rows))
	for i, chunk := range chunks {
		number := i + 1
		if ean := duplicateEAN(chunk); ean != "" {
			return nil, fmt.Errorf("%w: batch %d, ean %q", ErrDuplicateEAN, number, ean)
		}
		batches = append(batches, batch.Batch{
			ProjectID: projectID,
			Number:    number,
			Status:    batch.StatusFree,
			Progress:  batch.FormatProgress(0, len(chunk)),
		})
		for _, r := range chunk {
			r.ProjectID = projectID
			r.BatchNumber = number
			items = append(items, r)
		}
	}

	proj := &project.Project{
		ID:         projectID,
		Name:       projectName(up.Name),
		Status:     project.StatusActive,
		BatchCount: len(batches),
		CreatedAt:  time.Now(),
	}

	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	if err := s.batches.Append(ctx, batches); err != nil {
		return nil, fmt.Errorf("appending batches: %w", err)
	}
	if err := s.items.Append(ctx, items); err != nil {
		return nil, fmt.Errorf("appending items: %w", err)
	}

	s.logger.Info("project partitioned",
		"project", projectID, "name", proj.Name, "batches", len(batches), "items", len(items), "lot_size", lotSize)

	return &Result{
		ProjectID:  projectID,
		Name:       proj.Name,
		BatchCount: len(batches),
		ItemCount:  len(items),
		LotSize:    lotSize,
	}, nil
}

// prepare validates the header, applies forward-fill to context columns,
// and resolves the lot size.
func (s *Service) prepare(up Upload) ([]batch.Item, int, error) {
	if len(up.Rows) == 0 {
		return nil, 0, ErrEmptyUpload
	}

	idx := columnIndex(up.Header)
	for _, required := range []string{colEAN, colDescription} {
		if _, ok := idx[required]; !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	cell := func(row []string, key string) string {
		i, ok := idx[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	sites := make([]string, len(up.Rows))
	postals := make([]string, len(up.Rows))
	addresses := make([]string, len(up.Rows))
	for i, row := range up.Rows {
		sites[i] = cell(row, colSite)
		postals[i] = cell(row, colPostalCode)
		addresses[i] = cell(row, colAddress)
	}
	sites = forwardFill(sites)
	postals = forwardFill(postals)
	addresses = forwardFill(addresses)

	items := make([]batch.Item, len(up.Rows))
	for i, row := range up.Rows {
		items[i] = batch.Item{
			EAN:         cell(row, colEAN),
			Description: cell(row, colDescription),
			Site:        sites[i],
			PostalCode:  postals[i],
			Address:     addresses[i],
		}
	}

	return items, s.resolveLotSize(up, cell), nil
}

// resolveLotSize reads the hint from the first data row. The hint lives in
// the data rather than being an explicit parameter; that matches the upload
// template workers already use.
func (s *Service) resolveLotSize(up Upload, cell func([]string, string) string) int {
	raw := cell(up.Rows[0], colLotSize)
	if raw == "" {
		return s.lotSize
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || int(f) <= 0 {
		return s.lotSize
	}
	return int(f)
}

func chunkRows(rows []batch.Item, size int) [][]batch.Item {
	var chunks [][]batch.Item
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

func duplicateEAN(chunk []batch.Item) string {
	seen := make(map[string]struct{}, len(chunk))
	for _, it := range chunk {
		if _, dup := seen[it.EAN]; dup {
			return it.EAN
		}
		seen[it.EAN] = struct{}{}
	}
	return ""
}

func projectName(fileName string) string {
	name := strings.TrimSuffix(fileName, ".xlsx")
	name = strings.TrimSuffix(name, ".csv")
	return strings.TrimSpace(name)
}

// shortID returns the first 8 characters of a UUID, short enough to read
// aloud between workers.
func shortID() string {
	return uuid.NewString()[:8]
}
