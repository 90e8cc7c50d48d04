// Package storage defines task persistence for the task server.
package storage

import (
	"context"

	"github.com/simonbystrom/tasks/internal/task"
)

// Repository stores the flat task collection. ListTasks returns tasks in
// insertion order.
type Repository interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	CreateTask(ctx context.Context, t task.Task) error
	UpdateTask(ctx context.Context, t task.Task) error
	DeleteTask(ctx context.Context, id string) error
	// ReplaceTasks drops every stored task and stores tasks in their place.
	ReplaceTasks(ctx context.Context, tasks []task.Task) error
}
