package task

import "strings"

// Task is a single to-do item as stored by the backend.
type Task struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// CreateRequest is the payload used to create a task. The id is assigned by
// the server.
type CreateRequest struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// UpdateRequest is a partial update. Nil fields are left untouched.
type UpdateRequest struct {
	Completed *bool   `json:"completed,omitempty"`
	Text      *string `json:"text,omitempty"`
}

// Apply returns t with the non-nil fields of r applied.
func (r UpdateRequest) Apply(t Task) Task {
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	if r.Text != nil {
		t.Text = *r.Text
	}
	return t
}

// ValidText reports whether s is usable as task text.
func ValidText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Bool returns a pointer to b, for building an UpdateRequest.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for building an UpdateRequest.
func String(s string) *string { return &s }
