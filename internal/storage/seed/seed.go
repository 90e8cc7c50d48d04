// Package seed reads task collections from db.json style documents.
package seed

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/simonbystrom/tasks/internal/task"
)

// Document is the on-disk shape of the backing store: a flat collection keyed
// by id under "tasks". JSON documents are accepted as YAML.
type Document struct {
	Tasks []task.Task `json:"tasks" yaml:"tasks"`
}

// Loader loads seed documents from a filesystem.
type Loader struct {
	fs fs.FS
}

// NewLoader creates a loader reading from filesystem.
func NewLoader(filesystem fs.FS) *Loader {
	return &Loader{fs: filesystem}
}

// Load reads and validates the document at path.
func (l *Loader) Load(ctx context.Context, path string) ([]task.Task, error) {
	data, err := fs.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return Parse(data)
}

// Parse decodes and validates a seed document.
func Parse(data []byte) ([]task.Task, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	if doc.Tasks == nil {
		doc.Tasks = []task.Task{}
	}
	return doc.Tasks, nil
}

func (d Document) validate() error {
	seen := make(map[string]bool, len(d.Tasks))
	for i, t := range d.Tasks {
		if t.ID == "" {
			return fmt.Errorf("task %d: id is required: %w", i, task.ErrNotValid)
		}
		if seen[t.ID] {
			return fmt.Errorf("task %s: duplicate id: %w", t.ID, task.ErrAlreadyExists)
		}
		seen[t.ID] = true
		if !task.ValidText(t.Text) {
			return fmt.Errorf("task %s: text is required: %w", t.ID, task.ErrNotValid)
		}
	}
	return nil
}
