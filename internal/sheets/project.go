package sheets

import (
	"context"
	"strconv"

	"github.com/coletalabs/coleta/internal/domain/project"
	"github.com/coletalabs/coleta/internal/repository"
)

// Column positions within a projects row (0-based).
const (
	projColID = iota
	projColName
	projColCreatedAt
	projColBatchCount
	projColStatus
)

// ProjectRepository implements repository.ProjectRepository over a RowStore
type ProjectRepository struct {
	store RowStore
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(store RowStore) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// Create appends the project row
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	row := []string{
		proj.ID,
		proj.Name,
		formatTimeCell(proj.CreatedAt),
		strconv.Itoa(proj.BatchCount),
		string(proj.Status),
	}
	return r.store.Append(ctx, TableProjects, [][]string{row})
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	rows, err := r.store.Rows(ctx, TableProjects)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(rows); i++ {
		if cellAt(rows[i], projColID) == id {
			p := decodeProject(rows[i])
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

// List returns all projects in sheet order
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	rows, err := r.store.Rows(ctx, TableProjects)
	if err != nil {
		return nil, err
	}
	var projects []project.Project
	for i := 1; i < len(rows); i++ {
		if cellAt(rows[i], projColID) == "" {
			continue
		}
		projects = append(projects, decodeProject(rows[i]))
	}
	return projects, nil
}

// SetStatus updates the project status cell
func (r *ProjectRepository) SetStatus(ctx context.Context, id string, status project.Status) error {
	rows, err := r.store.Rows(ctx, TableProjects)
	if err != nil {
		return err
	}
	for i := 1; i < len(rows); i++ {
		if cellAt(rows[i], projColID) == id {
			return r.store.UpdateCell(ctx, TableProjects, i+1, projColStatus+1, string(status))
		}
	}
	return repository.ErrNotFound
}

func decodeProject(row []string) project.Project {
	return project.Project{
		ID:         cellAt(row, projColID),
		Name:       cellAt(row, projColName),
		CreatedAt:  parseTimeCell(cellAt(row, projColCreatedAt)),
		BatchCount: parseIntCell(cellAt(row, projColBatchCount)),
		Status:     project.Status(cellAt(row, projColStatus)),
	}
}
