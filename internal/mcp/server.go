// Package mcp exposes the collection workflow as MCP tools so an assistant
// can drive batch claiming and link entry over stdio or HTTP.
package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/domain/project"
	"github.com/coletalabs/coleta/internal/domain/timelog"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) ([]project.Project, error)
	ListActive(ctx context.Context) ([]project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
}

// BatchService defines batch operations needed by MCP.
type BatchService interface {
	List(ctx context.Context, projectID string) ([]batch.Batch, error)
	Load(ctx context.Context, projectID string, number int) (*batch.Batch, []batch.Item, error)
	Claim(ctx context.Context, projectID string, number int, worker string) (*batch.Batch, error)
	SaveItem(ctx context.Context, key batch.Key, rowIndex int, link string) bool
	Finalize(ctx context.Context, projectID string, number int, items []batch.Item) error
}

// TimeLogService defines time-log operations needed by MCP.
type TimeLogService interface {
	List(ctx context.Context, opts timelog.ListOptions) ([]timelog.Entry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Batches  BatchService
	TimeLog  TimeLogService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

const serverInstructions = `Link collection workflow over partitioned product batches.

Typical flow:
1. list_projects to find an active project.
2. list_batches to find a free batch, then claim_batch with your worker name.
3. save_item_link for each product as you find its link.
4. batch_progress to check how much remains; finalize_batch when every link is in.

A batch claimed by another worker cannot be taken over. Re-claiming your own
batch is allowed and resumes where you left off.`

// NewServer creates and configures an MCP server with all tools.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "coleta",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerTools(server, cfg.Services)

	return server
}
