package mcp

import (
	"context"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/domain/project"
	"github.com/coletalabs/coleta/internal/domain/timelog"
)

type listProjectsParams struct {
	All bool `json:"all,omitempty" jsonschema:"include archived projects"`
}

type listProjectsResult struct {
	Projects []project.Project `json:"projects"`
}

type listBatchesParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
}

type listBatchesResult struct {
	Batches []batch.Batch `json:"batches"`
}

type claimBatchParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	Number    int    `json:"number" jsonschema:"batch number, starting at 1"`
	Worker    string `json:"worker" jsonschema:"name of the worker claiming the batch"`
}

type claimBatchResult struct {
	Batch *batch.Batch `json:"batch"`
	Items []batch.Item `json:"items"`
}

type saveItemLinkParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	Number    int    `json:"number" jsonschema:"batch number"`
	EAN       string `json:"ean" jsonschema:"product EAN code"`
	Link      string `json:"link" jsonschema:"collected product link"`
	RowIndex  int    `json:"row_index,omitempty" jsonschema:"item row index from claim_batch, speeds up the write"`
}

type saveItemLinkResult struct {
	Saved bool `json:"saved"`
}

type finalizeBatchParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	Number    int    `json:"number" jsonschema:"batch number"`
}

type finalizeBatchResult struct {
	Status string `json:"status"`
}

type batchProgressParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	Number    int    `json:"number" jsonschema:"batch number"`
}

type batchProgressResult struct {
	Progress string `json:"progress"`
	Filled   int    `json:"filled"`
	Total    int    `json:"total"`
	Percent  int    `json:"percent"`
	Status   string `json:"status"`
}

type recentTimeLogParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"filter by project"`
	Worker    string `json:"worker,omitempty" jsonschema:"filter by worker"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum entries to return"`
}

type recentTimeLogResult struct {
	Entries []timelog.Entry `json:"entries"`
}

func registerTools(server *sdkmcp.Server, svcs Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List collection projects. Active projects only unless all is set.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params listProjectsParams) (*sdkmcp.CallToolResult, listProjectsResult, error) {
		var (
			projects []project.Project
			err      error
		)
		if params.All {
			projects, err = svcs.Projects.List(ctx)
		} else {
			projects, err = svcs.Projects.ListActive(ctx)
		}
		if err != nil {
			return nil, listProjectsResult{}, toolError(err)
		}
		return nil, listProjectsResult{Projects: projects}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_batches",
		Description: "List the batches of a project with their status, owner and progress.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params listBatchesParams) (*sdkmcp.CallToolResult, listBatchesResult, error) {
		batches, err := svcs.Batches.List(ctx, params.ProjectID)
		if err != nil {
			return nil, listBatchesResult{}, toolError(err)
		}
		return nil, listBatchesResult{Batches: batches}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "claim_batch",
		Description: "Claim a free batch for a worker and return its items. Re-claiming your own batch resumes it.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params claimBatchParams) (*sdkmcp.CallToolResult, claimBatchResult, error) {
		if params.Worker == "" {
			return nil, claimBatchResult{}, errors.New("worker is required")
		}
		b, err := svcs.Batches.Claim(ctx, params.ProjectID, params.Number, params.Worker)
		if err != nil {
			return nil, claimBatchResult{}, toolError(err)
		}
		_, items, err := svcs.Batches.Load(ctx, params.ProjectID, params.Number)
		if err != nil {
			return nil, claimBatchResult{}, toolError(err)
		}
		return nil, claimBatchResult{Batch: b, Items: items}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_item_link",
		Description: "Save the collected link for one product. Returns saved=false when the write did not go through.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params saveItemLinkParams) (*sdkmcp.CallToolResult, saveItemLinkResult, error) {
		key := batch.Key{ProjectID: params.ProjectID, BatchNumber: params.Number, EAN: params.EAN}
		saved := svcs.Batches.SaveItem(ctx, key, params.RowIndex, params.Link)
		return nil, saveItemLinkResult{Saved: saved}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "finalize_batch",
		Description: "Mark a batch as done. Every item must have a link first.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params finalizeBatchParams) (*sdkmcp.CallToolResult, finalizeBatchResult, error) {
		_, items, err := svcs.Batches.Load(ctx, params.ProjectID, params.Number)
		if err != nil {
			return nil, finalizeBatchResult{}, toolError(err)
		}
		if err := svcs.Batches.Finalize(ctx, params.ProjectID, params.Number, items); err != nil {
			return nil, finalizeBatchResult{}, toolError(err)
		}
		return nil, finalizeBatchResult{Status: string(batch.StatusDone)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "batch_progress",
		Description: "Report filled/total link progress for a batch.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params batchProgressParams) (*sdkmcp.CallToolResult, batchProgressResult, error) {
		b, items, err := svcs.Batches.Load(ctx, params.ProjectID, params.Number)
		if err != nil {
			return nil, batchProgressResult{}, toolError(err)
		}
		filled, total, percent := batch.Progress(items)
		return nil, batchProgressResult{
			Progress: batch.FormatProgress(filled, total),
			Filled:   filled,
			Total:    total,
			Percent:  percent,
			Status:   string(b.Status),
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_time_log",
		Description: "List recent work intervals, newest first, optionally filtered by project or worker.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params recentTimeLogParams) (*sdkmcp.CallToolResult, recentTimeLogResult, error) {
		entries, err := svcs.TimeLog.List(ctx, timelog.ListOptions{
			ProjectID: params.ProjectID,
			Worker:    params.Worker,
			Limit:     params.Limit,
		})
		if err != nil {
			return nil, recentTimeLogResult{}, toolError(err)
		}
		return nil, recentTimeLogResult{Entries: entries}, nil
	})
}

// toolError flattens domain errors into messages an assistant can act on.
func toolError(err error) error {
	switch {
	case errors.Is(err, batch.ErrAlreadyClaimed):
		return errors.New("batch already claimed by another worker, pick a different one")
	case errors.Is(err, batch.ErrBatchDone):
		return errors.New("batch is already done")
	case errors.Is(err, batch.ErrBatchNotFound):
		return errors.New("batch not found")
	case errors.Is(err, project.ErrProjectNotFound):
		return errors.New("project not found")
	default:
		return fmt.Errorf("operation failed: %w", err)
	}
}
