package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/simonbystrom/tasks/internal/log"
	"github.com/simonbystrom/tasks/internal/task"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	mu     sync.RWMutex
	order  []string
	tasks  map[string]task.Task
	logger log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Repository{
		tasks:  make(map[string]task.Task),
		logger: cfg.Logger,
	}, nil
}

// ListTasks returns all tasks in insertion order.
func (r *Repository) ListTasks(ctx context.Context) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tasks[id])
	}
	return out, nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, task.ErrNotFound)
	}
	return &t, nil
}

// CreateTask appends a task.
func (r *Repository) CreateTask(ctx context.Context, t task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; ok {
		return fmt.Errorf("task %s: %w", t.ID, task.ErrAlreadyExists)
	}
	r.tasks[t.ID] = t
	r.order = append(r.order, t.ID)
	r.logger.Debugf("Created task in repository: %s", t.ID)
	return nil
}

// UpdateTask replaces an existing task in place.
func (r *Repository) UpdateTask(ctx context.Context, t task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; !ok {
		return fmt.Errorf("task %s: %w", t.ID, task.ErrNotFound)
	}
	r.tasks[t.ID] = t
	r.logger.Debugf("Updated task in repository: %s", t.ID)
	return nil
}

// DeleteTask removes a task.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, task.ErrNotFound)
	}
	delete(r.tasks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Debugf("Deleted task from repository: %s", id)
	return nil
}

// ReplaceTasks swaps the whole collection.
func (r *Repository) ReplaceTasks(ctx context.Context, tasks []task.Task) error {
	order := make([]string, 0, len(tasks))
	byID := make(map[string]task.Task, len(tasks))
	for _, t := range tasks {
		if _, ok := byID[t.ID]; ok {
			return fmt.Errorf("task %s: %w", t.ID, task.ErrAlreadyExists)
		}
		byID[t.ID] = t
		order = append(order, t.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = order
	r.tasks = byID
	r.logger.Debugf("Replaced repository contents with %d tasks", len(tasks))
	return nil
}
