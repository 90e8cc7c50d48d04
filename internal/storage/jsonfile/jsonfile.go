// Package jsonfile stores tasks in a single db.json document, rewritten on
// every change.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/simonbystrom/tasks/internal/log"
	"github.com/simonbystrom/tasks/internal/storage/memory"
	"github.com/simonbystrom/tasks/internal/storage/seed"
	"github.com/simonbystrom/tasks/internal/task"
)

// RepositoryConfig is the configuration for the JSON file repository.
type RepositoryConfig struct {
	Path   string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.JSONFile"})
	return nil
}

// Repository keeps the collection in memory and mirrors it to disk.
type Repository struct {
	// mu serializes mutate+flush so the file always matches memory.
	mu     sync.Mutex
	path   string
	mem    *memory.Repository
	logger log.Logger
}

// NewRepository opens the document at cfg.Path, creating it when missing.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	mem, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
	if err != nil {
		return nil, err
	}
	r := &Repository{path: cfg.Path, mem: mem, logger: cfg.Logger}

	data, err := os.ReadFile(cfg.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := r.flush(ctx); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read db file: %w", err)
	default:
		tasks, err := seed.Parse(data)
		if err != nil {
			return nil, err
		}
		if err := mem.ReplaceTasks(ctx, tasks); err != nil {
			return nil, err
		}
	}

	cfg.Logger.Debugf("JSON file repository initialized at %s", cfg.Path)
	return r, nil
}

func (r *Repository) ListTasks(ctx context.Context) ([]task.Task, error) {
	return r.mem.ListTasks(ctx)
}

func (r *Repository) GetTask(ctx context.Context, id string) (*task.Task, error) {
	return r.mem.GetTask(ctx, id)
}

func (r *Repository) CreateTask(ctx context.Context, t task.Task) error {
	return r.mutate(ctx, func() error { return r.mem.CreateTask(ctx, t) })
}

func (r *Repository) UpdateTask(ctx context.Context, t task.Task) error {
	return r.mutate(ctx, func() error { return r.mem.UpdateTask(ctx, t) })
}

func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	return r.mutate(ctx, func() error { return r.mem.DeleteTask(ctx, id) })
}

func (r *Repository) ReplaceTasks(ctx context.Context, tasks []task.Task) error {
	return r.mutate(ctx, func() error { return r.mem.ReplaceTasks(ctx, tasks) })
}

func (r *Repository) mutate(ctx context.Context, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	return r.flush(ctx)
}

// flush atomically writes the collection to disk.
func (r *Repository) flush(ctx context.Context) error {
	tasks, err := r.mem.ListTasks(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(seed.Document{Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write db temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("rename db file: %w", err)
	}
	return nil
}
