// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/simonbystrom/tasks/internal/task"
)

// FakeStore is an in-memory task store with error injection.
type FakeStore struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int
	calls  []string

	// Error injection for testing
	FetchErr  error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeStore creates a FakeStore holding tasks in the given order.
func NewFakeStore(tasks ...task.Task) *FakeStore {
	return &FakeStore{tasks: append([]task.Task{}, tasks...), nextID: 100}
}

func (f *FakeStore) record(call string) {
	f.calls = append(f.calls, call)
}

// Calls returns the operations performed so far, e.g. "update:2".
func (f *FakeStore) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

// HasCalled reports whether call was recorded.
func (f *FakeStore) HasCalled(call string) bool {
	for _, c := range f.Calls() {
		if c == call {
			return true
		}
	}
	return false
}

// Snapshot returns the stored tasks.
func (f *FakeStore) Snapshot() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]task.Task{}, f.tasks...)
}

func (f *FakeStore) FetchTasks(ctx context.Context) ([]task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("fetch")
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return append([]task.Task{}, f.tasks...), nil
}

func (f *FakeStore) CreateTask(ctx context.Context, req task.CreateRequest) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create:" + req.Text)
	if f.CreateErr != nil {
		return task.Task{}, f.CreateErr
	}
	f.nextID++
	t := task.Task{ID: fmt.Sprintf("t%d", f.nextID), Text: req.Text, Completed: req.Completed}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *FakeStore) UpdateTask(ctx context.Context, id string, req task.UpdateRequest) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update:" + id)
	if f.UpdateErr != nil {
		return task.Task{}, f.UpdateErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = req.Apply(t)
			return f.tasks[i], nil
		}
	}
	return task.Task{}, fmt.Errorf("task %s: %w", id, task.ErrNotFound)
}

func (f *FakeStore) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete:" + id)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task %s: %w", id, task.ErrNotFound)
}
