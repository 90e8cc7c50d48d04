// Package coordinator owns the task list shown by the UI. It decides the
// order tasks are displayed in, sequences the delete/add/move animations
// against the remote store, and keeps the swipe-to-delete affordance
// exclusive to a single task.
//
// The coordinator is driven from the bubbletea event loop: operations mutate
// state synchronously and return commands; store calls and animation delays
// run as commands and report back through Handle.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/tasks/internal/task"
	"github.com/simonbystrom/tasks/internal/taskservice"
)

// Messages for errors that do not come from the task service.
const (
	fallbackFetch  = "An unexpected error occurred. Please try again."
	fallbackAdd    = "Failed to add task. Please try again."
	fallbackUpdate = "Failed to update task. Please try again."
	fallbackDelete = "Failed to delete task. Please try again."
)

// Store is the remote task collection.
type Store interface {
	FetchTasks(ctx context.Context) ([]task.Task, error)
	CreateTask(ctx context.Context, req task.CreateRequest) (task.Task, error)
	UpdateTask(ctx context.Context, id string, req task.UpdateRequest) (task.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Timings are the animation windows the coordinator waits on.
type Timings struct {
	Delete time.Duration
	Move   time.Duration
	Settle time.Duration
	Add    time.Duration
}

// DefaultTimings match the row transitions rendered by the UI.
func DefaultTimings() Timings {
	return Timings{
		Delete: 300 * time.Millisecond,
		Move:   150 * time.Millisecond,
		Settle: 50 * time.Millisecond,
		Add:    400 * time.Millisecond,
	}
}

// Op is the mutation currently in flight for a task.
type Op int

const (
	OpIdle Op = iota
	OpToggle
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpToggle:
		return "pending-toggle"
	case OpDelete:
		return "pending-delete"
	default:
		return "idle"
	}
}

// FetchedMsg carries the result of loading the task list.
type FetchedMsg struct {
	Tasks []task.Task
	Err   error
}

// CreatedMsg carries the result of creating a task.
type CreatedMsg struct {
	Task task.Task
	Err  error
}

// ToggledMsg carries the result of a completion update.
type ToggledMsg struct {
	ID        string
	Completed bool // state the task was moved to
	Moved     bool // took the deferred path
	Err       error
}

// DeletedMsg carries the result of deleting a task.
type DeletedMsg struct {
	ID  string
	Err error
}

// CelebrateMsg is emitted when a task becomes completed.
type CelebrateMsg struct {
	ID string
}

type moveElapsedMsg struct {
	id        string
	completed bool
}

type settledMsg struct{ id string }

type deleteElapsedMsg struct{ id string }

type addSettledMsg struct{ id string }

type Coordinator struct {
	ctx     context.Context
	store   Store
	timings Timings

	tasks   []task.Task
	loading bool
	err     string
	openID  string

	deleting map[string]struct{}
	moving   map[string]struct{}
	addingID string
	pending  map[string]Op
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimings overrides the animation windows.
func WithTimings(t Timings) Option {
	return func(c *Coordinator) { c.timings = t }
}

func New(ctx context.Context, store Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		ctx:      ctx,
		store:    store,
		timings:  DefaultTimings(),
		tasks:    []task.Task{},
		deleting: make(map[string]struct{}),
		moving:   make(map[string]struct{}),
		pending:  make(map[string]Op),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init loads the task list.
func (c *Coordinator) Init() tea.Cmd {
	return c.Reload()
}

// Reload fetches the task list again. The current list stays in place until
// the fetch succeeds.
func (c *Coordinator) Reload() tea.Cmd {
	c.loading = true
	c.err = ""
	store, ctx := c.store, c.ctx
	return func() tea.Msg {
		tasks, err := store.FetchTasks(ctx)
		return FetchedMsg{Tasks: tasks, Err: err}
	}
}

// Add creates a task from text. Blank text is ignored.
func (c *Coordinator) Add(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	c.err = ""
	store, ctx := c.store, c.ctx
	return func() tea.Msg {
		created, err := store.CreateTask(ctx, task.CreateRequest{Text: text, Completed: false})
		return CreatedMsg{Task: created, Err: err}
	}
}

// Toggle flips the completion state of task id. currentCompleted is the
// state the caller saw. If the task would change position the store update
// is deferred until the move animation has played.
func (c *Coordinator) Toggle(id string, currentCompleted bool) tea.Cmd {
	c.err = ""
	c.closeSwipe()

	current := task.IndexOf(c.tasks, id)
	if current < 0 {
		return nil
	}
	if op := c.pending[id]; op != OpIdle {
		slog.Debug("toggle rejected", "id", id, "pending", op.String())
		return nil
	}

	next := !currentCompleted
	candidate := task.Reorder(c.tasks, id, next)
	c.pending[id] = OpToggle

	if task.IndexOf(candidate, id) != current {
		c.moving[id] = struct{}{}
		return tea.Tick(c.timings.Move, func(time.Time) tea.Msg {
			return moveElapsedMsg{id: id, completed: next}
		})
	}
	return c.updateCmd(id, next, false)
}

// Delete removes task id once the delete animation has played.
func (c *Coordinator) Delete(id string) tea.Cmd {
	c.err = ""
	c.closeSwipe()

	if task.IndexOf(c.tasks, id) < 0 {
		return nil
	}
	if op := c.pending[id]; op != OpIdle {
		slog.Debug("delete rejected", "id", id, "pending", op.String())
		return nil
	}

	c.pending[id] = OpDelete
	c.deleting[id] = struct{}{}
	return tea.Tick(c.timings.Delete, func(time.Time) tea.Msg {
		return deleteElapsedMsg{id: id}
	})
}

// SwipeOpen marks task id as the one showing its delete affordance. Any other
// open task is closed first and its id returned so its offset can be reset.
// Unknown ids close the open task without opening anything.
func (c *Coordinator) SwipeOpen(id string) (closed string) {
	if c.openID != "" && c.openID != id {
		closed = c.closeSwipe()
	}
	if task.IndexOf(c.tasks, id) >= 0 {
		c.openID = id
	}
	return closed
}

// CloseSwipe closes the open delete affordance and returns its task id.
func (c *Coordinator) CloseSwipe() string {
	return c.closeSwipe()
}

func (c *Coordinator) closeSwipe() string {
	closed := c.openID
	c.openID = ""
	return closed
}

// Handle processes the messages produced by the coordinator's own commands.
// It reports false for messages it does not own.
func (c *Coordinator) Handle(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case FetchedMsg:
		return c.handleFetched(msg), true
	case CreatedMsg:
		return c.handleCreated(msg), true
	case moveElapsedMsg:
		return c.updateCmd(msg.id, msg.completed, true), true
	case ToggledMsg:
		return c.handleToggled(msg), true
	case settledMsg:
		delete(c.moving, msg.id)
		return nil, true
	case deleteElapsedMsg:
		return c.deleteCmd(msg.id), true
	case DeletedMsg:
		return c.handleDeleted(msg), true
	case addSettledMsg:
		if c.addingID == msg.id {
			c.addingID = ""
		}
		return nil, true
	}
	return nil, false
}

func (c *Coordinator) handleFetched(msg FetchedMsg) tea.Cmd {
	c.loading = false
	if msg.Err != nil {
		c.err = userMessage(msg.Err, fallbackFetch)
		slog.Error("fetch tasks failed", "error", msg.Err)
		return nil
	}
	c.tasks = append([]task.Task{}, msg.Tasks...)
	slog.Info("tasks loaded", "count", len(c.tasks))
	return nil
}

func (c *Coordinator) handleCreated(msg CreatedMsg) tea.Cmd {
	if msg.Err != nil {
		c.err = userMessage(msg.Err, fallbackAdd)
		slog.Error("add task failed", "error", msg.Err)
		return nil
	}
	if task.IndexOf(c.tasks, msg.Task.ID) >= 0 {
		slog.Warn("created task already listed", "id", msg.Task.ID)
		return nil
	}

	c.tasks = task.Prepend(c.tasks, msg.Task)
	c.addingID = msg.Task.ID
	slog.Info("task added", "id", msg.Task.ID)

	id := msg.Task.ID
	return tea.Tick(c.timings.Add, func(time.Time) tea.Msg {
		return addSettledMsg{id: id}
	})
}

func (c *Coordinator) updateCmd(id string, completed, moved bool) tea.Cmd {
	store, ctx := c.store, c.ctx
	return func() tea.Msg {
		_, err := store.UpdateTask(ctx, id, task.UpdateRequest{Completed: task.Bool(completed)})
		return ToggledMsg{ID: id, Completed: completed, Moved: moved, Err: err}
	}
}

func (c *Coordinator) handleToggled(msg ToggledMsg) tea.Cmd {
	delete(c.pending, msg.ID)

	if msg.Err != nil {
		c.err = userMessage(msg.Err, fallbackUpdate)
		delete(c.moving, msg.ID)
		slog.Error("update task failed", "id", msg.ID, "error", msg.Err)
		return nil
	}
	slog.Info("task toggled", "id", msg.ID, "completed", msg.Completed, "moved", msg.Moved)

	var cmds []tea.Cmd
	if msg.Completed {
		id := msg.ID
		cmds = append(cmds, func() tea.Msg { return CelebrateMsg{ID: id} })
	}

	// The list may have been reloaded while the update was in flight.
	if task.IndexOf(c.tasks, msg.ID) >= 0 {
		if msg.Moved {
			c.tasks = task.Reorder(c.tasks, msg.ID, msg.Completed)
		} else {
			c.tasks = task.SetCompleted(c.tasks, msg.ID, msg.Completed)
		}
	}

	if msg.Moved {
		id := msg.ID
		cmds = append(cmds, tea.Tick(c.timings.Settle, func(time.Time) tea.Msg {
			return settledMsg{id: id}
		}))
	}
	return tea.Batch(cmds...)
}

func (c *Coordinator) deleteCmd(id string) tea.Cmd {
	store, ctx := c.store, c.ctx
	return func() tea.Msg {
		return DeletedMsg{ID: id, Err: store.DeleteTask(ctx, id)}
	}
}

func (c *Coordinator) handleDeleted(msg DeletedMsg) tea.Cmd {
	delete(c.pending, msg.ID)
	delete(c.deleting, msg.ID)

	if msg.Err != nil {
		c.err = userMessage(msg.Err, fallbackDelete)
		slog.Error("delete task failed", "id", msg.ID, "error", msg.Err)
		return nil
	}

	c.tasks = task.Remove(c.tasks, msg.ID)
	if c.openID == msg.ID {
		c.openID = ""
	}
	if c.addingID == msg.ID {
		c.addingID = ""
	}
	slog.Info("task deleted", "id", msg.ID)
	return nil
}

// userMessage turns a store error into the text shown to the user.
func userMessage(err error, fallback string) string {
	var se *taskservice.ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	var ne *taskservice.NetworkError
	if errors.As(err, &ne) {
		return ne.Message
	}
	return fallback
}

// Tasks returns a copy of the authoritative list.
func (c *Coordinator) Tasks() []task.Task {
	return append([]task.Task{}, c.tasks...)
}

// Ordered returns the tasks in display order.
func (c *Coordinator) Ordered() []task.Task {
	return task.DisplayOrder(c.tasks)
}

// OpenCount is the number of active tasks.
func (c *Coordinator) OpenCount() int {
	return task.OpenCount(c.tasks)
}

func (c *Coordinator) Loading() bool { return c.loading }

// Err is the message for the last failed operation, or "".
func (c *Coordinator) Err() string { return c.err }

// ClearErr dismisses the error message.
func (c *Coordinator) ClearErr() { c.err = "" }

func (c *Coordinator) OpenID() string { return c.openID }

func (c *Coordinator) AddingID() string { return c.addingID }

func (c *Coordinator) IsAdding(id string) bool { return id != "" && c.addingID == id }

func (c *Coordinator) IsDeleting(id string) bool {
	_, ok := c.deleting[id]
	return ok
}

func (c *Coordinator) IsMoving(id string) bool {
	_, ok := c.moving[id]
	return ok
}

// Pending reports the mutation in flight for task id.
func (c *Coordinator) Pending(id string) Op {
	return c.pending[id]
}
