package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coletalabs/coleta/internal/domain/batch"
	"github.com/coletalabs/coleta/internal/domain/intake"
	"github.com/coletalabs/coleta/internal/domain/project"
	"github.com/coletalabs/coleta/internal/domain/timelog"
	"github.com/coletalabs/coleta/internal/export"
	"github.com/coletalabs/coleta/internal/repository"
)

// Server wires HTTP handlers to the domain services.
type Server struct {
	projects *project.Service
	batches  *batch.Service
	intake   *intake.Service
	timeLog  *timelog.Service
	exporter *export.Writer
	auth     *Authenticator
	logger   *slog.Logger
}

// NewServer creates the HTTP server.
func NewServer(projects *project.Service, batches *batch.Service, intakeSvc *intake.Service, timeLog *timelog.Service, exporter *export.Writer, auth *Authenticator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		projects: projects,
		batches:  batches,
		intake:   intakeSvc,
		timeLog:  timeLog,
		exporter: exporter,
		auth:     auth,
		logger:   logger,
	}
}

// Router builds the route tree with auth middleware applied.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Get("/template", s.handleTemplate)
		r.Get("/projects", s.handleListProjects)
		r.Get("/projects/{id}/batches", s.handleListBatches)
		r.Get("/projects/{id}/batches/{n}", s.handleGetBatch)
		r.Post("/projects/{id}/batches/{n}/claim", s.handleClaim)
		r.Post("/projects/{id}/batches/{n}/save", s.handleSave)
		r.Post("/projects/{id}/batches/{n}/finalize", s.handleFinalize)
		r.Put("/projects/{id}/batches/{n}/items/{ean}", s.handleSaveItem)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireAdmin)
			r.Post("/projects", s.handleUpload)
			r.Post("/projects/{id}/archive", s.handleArchive)
			r.Get("/projects/{id}/export", s.handleExport)
			r.Get("/timelog", s.handleTimeLog)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type loginRequest struct {
	Worker   string `json:"worker"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	Worker string `json:"worker"`
	Admin  bool   `json:"admin"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := s.auth.Login(req.Worker, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:  token,
		Worker: req.Worker,
		Admin:  s.auth.IsAdmin(req.Worker),
	})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	worker, _ := WorkerFromContext(r.Context())

	var (
		projects []project.Project
		err      error
	)
	if r.URL.Query().Get("all") != "" && s.auth.IsAdmin(worker) {
		projects, err = s.projects.List(r.Context())
	} else {
		projects, err = s.projects.ListActive(r.Context())
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

type uploadRequest struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.intake.Partition(r.Context(), intake.Upload{
		Name:   req.Name,
		Header: req.Header,
		Rows:   req.Rows,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Archive(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", projectID+".csv"))
	if err := s.exporter.WriteProject(r.Context(), w, projectID); err != nil {
		s.logger.Error("export failed", "project", projectID, "error", err)
	}
}

func (s *Server) handleTemplate(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="template.csv"`)
	if err := export.WriteTemplate(w); err != nil {
		s.logger.Error("template write failed", "error", err)
	}
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.batches.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

type batchResponse struct {
	Batch *batch.Batch `json:"batch"`
	Items []batch.Item `json:"items"`
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	projectID, number, ok := s.batchParams(w, r)
	if !ok {
		return
	}
	b, items, err := s.batches.Load(r.Context(), projectID, number)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Batch: b, Items: items})
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	projectID, number, ok := s.batchParams(w, r)
	if !ok {
		return
	}
	worker, _ := WorkerFromContext(r.Context())

	b, err := s.batches.Claim(r.Context(), projectID, number, worker)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type itemEdit struct {
	EAN      string `json:"ean"`
	Link     string `json:"link"`
	RowIndex int    `json:"row_index"`
}

type saveRequest struct {
	Items           []itemEdit `json:"items"`
	Checkpoint      string     `json:"checkpoint,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
}

type saveResponse struct {
	Progress string `json:"progress"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	projectID, number, ok := s.batchParams(w, r)
	if !ok {
		return
	}
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	items := buildItems(projectID, number, req.Items)
	filled, total, err := s.batches.Save(r.Context(), projectID, number, items, req.Checkpoint)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.recordTime(r, projectID, number, timelog.ActionPause, req.DurationSeconds, filled, total)
	writeJSON(w, http.StatusOK, saveResponse{Progress: batch.FormatProgress(filled, total)})
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	projectID, number, ok := s.batchParams(w, r)
	if !ok {
		return
	}
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	items := buildItems(projectID, number, req.Items)
	if err := s.batches.Finalize(r.Context(), projectID, number, items); err != nil {
		s.writeError(w, err)
		return
	}

	filled, total, _ := batch.Progress(items)
	s.recordTime(r, projectID, number, timelog.ActionFinish, req.DurationSeconds, filled, total)
	w.WriteHeader(http.StatusNoContent)
}

type saveItemRequest struct {
	Link     string `json:"link"`
	RowIndex int    `json:"row_index"`
}

type saveItemResponse struct {
	Saved bool `json:"saved"`
}

func (s *Server) handleSaveItem(w http.ResponseWriter, r *http.Request) {
	projectID, number, ok := s.batchParams(w, r)
	if !ok {
		return
	}
	var req saveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	key := batch.Key{ProjectID: projectID, BatchNumber: number, EAN: chi.URLParam(r, "ean")}
	saved := s.batches.SaveItem(r.Context(), key, req.RowIndex, req.Link)
	writeJSON(w, http.StatusOK, saveItemResponse{Saved: saved})
}

func (s *Server) handleTimeLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.timeLog.List(r.Context(), timelog.ListOptions{
		ProjectID: r.URL.Query().Get("project"),
		Worker:    r.URL.Query().Get("worker"),
		Limit:     limit,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// recordTime logs the work interval behind a save or finalize. Failures
// are logged and swallowed: the audit trail never blocks the save itself.
func (s *Server) recordTime(r *http.Request, projectID string, number int, action timelog.Action, durationSeconds, filled, total int) {
	if durationSeconds <= 0 {
		return
	}
	worker, _ := WorkerFromContext(r.Context())

	name := projectID
	if proj, err := s.projects.Get(r.Context(), projectID); err == nil {
		name = proj.Name
	}

	err := s.timeLog.Record(r.Context(), timelog.RecordRequest{
		ProjectID:   projectID,
		ProjectName: name,
		BatchNumber: number,
		Worker:      worker,
		Action:      action,
		Duration:    time.Duration(durationSeconds) * time.Second,
		Filled:      filled,
		Total:       total,
	})
	if err != nil {
		s.logger.Warn("time-log record failed", "project", projectID, "batch", number, "error", err)
	}
}

func (s *Server) batchParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	projectID := chi.URLParam(r, "id")
	number, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || number < 1 {
		http.Error(w, "invalid batch number", http.StatusBadRequest)
		return "", 0, false
	}
	return projectID, number, true
}

func buildItems(projectID string, number int, edits []itemEdit) []batch.Item {
	items := make([]batch.Item, len(edits))
	for i, e := range edits {
		items[i] = batch.Item{
			ProjectID:   projectID,
			BatchNumber: number,
			EAN:         e.EAN,
			Link:        e.Link,
			RowIndex:    e.RowIndex,
		}
	}
	return items
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, batch.ErrBatchNotFound), errors.Is(err, project.ErrProjectNotFound), errors.Is(err, repository.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, batch.ErrAlreadyClaimed):
		http.Error(w, "already claimed, pick another batch", http.StatusConflict)
	case errors.Is(err, batch.ErrBatchDone):
		http.Error(w, "batch is already done", http.StatusConflict)
	case errors.Is(err, intake.ErrEmptyUpload), errors.Is(err, intake.ErrMissingColumn), errors.Is(err, intake.ErrDuplicateEAN):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, batch.ErrInvalidInput), errors.Is(err, repository.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrUnavailable):
		http.Error(w, "store unavailable, try again shortly", http.StatusServiceUnavailable)
	default:
		s.logger.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
