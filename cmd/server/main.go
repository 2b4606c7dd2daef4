package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coletalabs/coleta/internal/config"
	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/domain/intake"
	"github.com/coletalabs/coleta/internal/domain/project"
	"github.com/coletalabs/coleta/internal/domain/timelog"
	"github.com/coletalabs/coleta/internal/export"
	"github.com/coletalabs/coleta/internal/mcp"
	"github.com/coletalabs/coleta/internal/repository"
	"github.com/coletalabs/coleta/internal/sheets"
	"github.com/coletalabs/coleta/internal/sqlite"
	"github.com/coletalabs/coleta/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	projectSvc := project.NewService(repos.projects, logger)
	batchSvc := batch.NewService(repos.batches, repos.items, logger)
	intakeSvc := intake.NewService(repos.projects, repos.batches, repos.items, cfg.Intake.DefaultLotSize, logger)
	timeLogSvc := timelog.NewService(repos.timeLog, logger)
	exporter := export.NewWriter(repos.items)

	auth := transport.NewAuthenticator(cfg.Auth.Passwords, cfg.Auth.Admins)
	srv := transport.NewServer(projectSvc, batchSvc, intakeSvc, timeLogSvc, exporter, auth, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Batches:  batchSvc,
			TimeLog:  timeLogSvc,
		},
		Logger: logger,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := srv.Router()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/*", mcpHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "backend", cfg.Store.Backend)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

// repositories bundles the store-backed repositories behind the shared
// interfaces, whichever backend produced them.
type repositories struct {
	projects repository.ProjectRepository
	batches  repository.BatchRepository
	items    repository.ItemRepository
	timeLog  repository.TimeLogRepository
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		if err := ensureDBDir(cfg.Store.SQLite.Path); err != nil {
			return repositories{}, nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.Store.SQLite.Path)
		if err != nil {
			return repositories{}, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return repositories{}, nil, fmt.Errorf("run migrations: %w", err)
		}
		return repositories{
			projects: sqlite.NewProjectRepository(db),
			batches:  sqlite.NewBatchRepository(db),
			items:    sqlite.NewItemRepository(db),
			timeLog:  sqlite.NewTimeLogRepository(db),
		}, func() { db.Close() }, nil

	case config.BackendSheets:
		store, err := sheets.NewGoogleStore(ctx, cfg.Store.Sheets.SpreadsheetID, cfg.Store.Sheets.CredentialsFile)
		if err != nil {
			return repositories{}, nil, err
		}
		policy := sheets.Policy{
			MaxAttempts: cfg.Store.Sheets.MaxAttempts,
			BaseDelay:   time.Duration(cfg.Store.Sheets.BaseDelayMS) * time.Millisecond,
		}
		retrying := sheets.WithRetry(store, policy)
		logger.Info("using spreadsheet store", "spreadsheet", cfg.Store.Sheets.SpreadsheetID)
		return repositories{
			projects: sheets.NewProjectRepository(retrying),
			batches:  sheets.NewBatchRepository(retrying),
			items:    sheets.NewItemRepository(retrying),
			timeLog:  sheets.NewTimeLogRepository(retrying),
		}, func() {}, nil

	default:
		return repositories{}, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
