// Package server serves the tasks REST API over a storage.Repository. The
// routes and payloads follow json-server conventions so the client can point
// at either.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/simonbystrom/tasks/internal/log"
	"github.com/simonbystrom/tasks/internal/storage"
	"github.com/simonbystrom/tasks/internal/task"
)

// Config is the server configuration.
type Config struct {
	Repository storage.Repository
	Logger     log.Logger
	// NewID returns a fresh task id. Defaults to a ULID.
	NewID func() string
}

func (c *Config) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "server.HTTP"})
	if c.NewID == nil {
		c.NewID = func() string { return ulid.Make().String() }
	}
	return nil
}

// Server holds the REST handlers.
type Server struct {
	repo   storage.Repository
	logger log.Logger
	newID  func() string
}

// New returns a server using cfg.
func New(cfg Config) (*Server, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Server{repo: cfg.Repository, logger: cfg.Logger, newID: cfg.NewID}, nil
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /tasks", s.handleList)
	mux.HandleFunc("POST /tasks", s.handleCreate)
	mux.HandleFunc("GET /tasks/{id}", s.handleGet)
	mux.HandleFunc("PATCH /tasks/{id}", s.handlePatch)
	mux.HandleFunc("PUT /tasks/{id}", s.handlePut)
	mux.HandleFunc("DELETE /tasks/{id}", s.handleDelete)
	return withLogging(s.logger, withCORS(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repo.ListTasks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.repo.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req task.CreateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if !task.ValidText(req.Text) {
		s.writeError(w, fmt.Errorf("text is required: %w", task.ErrNotValid))
		return
	}

	t := task.Task{ID: s.newID(), Text: req.Text, Completed: req.Completed}
	if err := s.repo.CreateTask(r.Context(), t); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Infof("Task created: %s", t.ID)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	var req task.UpdateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Text != nil && !task.ValidText(*req.Text) {
		s.writeError(w, fmt.Errorf("text must not be empty: %w", task.ErrNotValid))
		return
	}

	current, err := s.repo.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	updated := req.Apply(*current)
	if err := s.repo.UpdateTask(r.Context(), updated); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	var req task.CreateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if !task.ValidText(req.Text) {
		s.writeError(w, fmt.Errorf("text is required: %w", task.ErrNotValid))
		return
	}

	t := task.Task{ID: r.PathValue("id"), Text: req.Text, Completed: req.Completed}
	if err := s.repo.UpdateTask(r.Context(), t); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.repo.DeleteTask(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Infof("Task deleted: %s", id)
	writeJSON(w, http.StatusOK, struct{}{})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w: %w", task.ErrNotValid, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, task.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, task.ErrNotValid):
		return http.StatusBadRequest
	case errors.Is(err, task.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Errorf("Request failed: %s", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
