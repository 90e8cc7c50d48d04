package coordinator

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/tasks/internal/task"
	"github.com/simonbystrom/tasks/internal/taskservice"
	"github.com/simonbystrom/tasks/internal/testutil"
)

var fastTimings = Timings{
	Delete: time.Millisecond,
	Move:   time.Millisecond,
	Settle: time.Millisecond,
	Add:    time.Millisecond,
}

// run executes cmd and returns the messages it produced, expanding batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drain feeds every message produced by cmd back into the coordinator until
// nothing is left, and returns the messages the coordinator did not own.
func drain(t *testing.T, c *Coordinator, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var unhandled []tea.Msg
	queue := run(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		follow, ok := c.Handle(msg)
		if !ok {
			unhandled = append(unhandled, msg)
			continue
		}
		queue = append(queue, run(follow)...)
	}
	return unhandled
}

func hasCelebrate(msgs []tea.Msg) bool {
	for _, m := range msgs {
		if _, ok := m.(CelebrateMsg); ok {
			return true
		}
	}
	return false
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func newLoaded(t *testing.T, tasks ...task.Task) (*Coordinator, *testutil.FakeStore) {
	t.Helper()
	store := testutil.NewFakeStore(tasks...)
	c := New(context.Background(), store, WithTimings(fastTimings))
	drain(t, c, c.Init())
	if c.Loading() {
		t.Fatal("still loading after Init")
	}
	return c, store
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "1", Text: "A", Completed: false},
		{ID: "2", Text: "B", Completed: false},
		{ID: "3", Text: "C", Completed: true},
	}
}

func TestInit_LoadsInFetchOrder(t *testing.T) {
	store := testutil.NewFakeStore(
		task.Task{ID: "3", Text: "C", Completed: true},
		task.Task{ID: "1", Text: "A"},
	)
	c := New(context.Background(), store, WithTimings(fastTimings))

	cmd := c.Init()
	if !c.Loading() {
		t.Error("Loading should be true while fetching")
	}
	drain(t, c, cmd)

	if c.Loading() {
		t.Error("Loading should be false after fetch")
	}
	if got := ids(c.Tasks()); !reflect.DeepEqual(got, []string{"3", "1"}) {
		t.Errorf("Tasks = %v, fetch order should be kept", got)
	}
	if got := ids(c.Ordered()); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Errorf("Ordered = %v, want [1 3]", got)
	}
}

func TestInit_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"service", &taskservice.ServiceError{StatusCode: 500, Message: taskservice.MsgFetchTasks}, taskservice.MsgFetchTasks},
		{"network", &taskservice.NetworkError{Message: taskservice.MsgNetworkError, Err: errors.New("refused")}, taskservice.MsgNetworkError},
		{"other", errors.New("boom"), fallbackFetch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := testutil.NewFakeStore()
			store.FetchErr = tc.err
			c := New(context.Background(), store, WithTimings(fastTimings))
			drain(t, c, c.Init())

			if c.Err() != tc.want {
				t.Errorf("Err = %q, want %q", c.Err(), tc.want)
			}
			if c.Loading() {
				t.Error("Loading should be cleared on error")
			}
			if len(c.Tasks()) != 0 {
				t.Errorf("Tasks = %v, want empty", c.Tasks())
			}
		})
	}
}

func TestReload_FailureKeepsList(t *testing.T) {
	c, store := newLoaded(t, sampleTasks()...)
	store.FetchErr = errors.New("down")
	drain(t, c, c.Reload())

	if len(c.Tasks()) != 3 {
		t.Errorf("Tasks = %v, want previous list", c.Tasks())
	}
	if c.Err() == "" {
		t.Error("expected error message")
	}
}

func TestOpenCount(t *testing.T) {
	c, _ := newLoaded(t, sampleTasks()...)
	if got := c.OpenCount(); got != 2 {
		t.Errorf("OpenCount = %d, want 2", got)
	}
}

func TestAdd_WhitespaceIsNoop(t *testing.T) {
	c, store := newLoaded(t, sampleTasks()...)
	for _, text := range []string{"", "   ", "\t\n "} {
		if cmd := c.Add(text); cmd != nil {
			t.Errorf("Add(%q) returned a command", text)
		}
	}
	if len(c.Tasks()) != 3 {
		t.Errorf("len = %d, want 3", len(c.Tasks()))
	}
	for _, call := range store.Calls() {
		if call != "fetch" {
			t.Errorf("unexpected store call %q", call)
		}
	}
}

func TestAdd_PrependsAndHighlights(t *testing.T) {
	c, store := newLoaded(t, sampleTasks()...)

	msgs := run(c.Add("  Buy milk  "))
	if len(msgs) != 1 {
		t.Fatalf("msgs = %v", msgs)
	}
	follow, _ := c.Handle(msgs[0])

	if !store.HasCalled("create:Buy milk") {
		t.Errorf("calls = %v, want trimmed create", store.Calls())
	}
	tasks := c.Tasks()
	if tasks[0].Text != "Buy milk" || tasks[0].Completed {
		t.Errorf("first task = %+v", tasks[0])
	}
	if !c.IsAdding(tasks[0].ID) {
		t.Error("new task should be highlighted")
	}

	drain(t, c, follow)
	if c.AddingID() != "" {
		t.Errorf("AddingID = %q, want cleared", c.AddingID())
	}
}

func TestAdd_OlderTimerDoesNotClearNewerHighlight(t *testing.T) {
	c, _ := newLoaded(t)

	first := run(c.Add("one"))
	firstTick, _ := c.Handle(first[0])
	second := run(c.Add("two"))
	secondTick, _ := c.Handle(second[0])

	newest := c.AddingID()
	drain(t, c, firstTick)
	if c.AddingID() != newest {
		t.Errorf("AddingID = %q, want %q", c.AddingID(), newest)
	}
	drain(t, c, secondTick)
	if c.AddingID() != "" {
		t.Error("highlight should clear after its own timer")
	}
}

func TestAdd_FailureLeavesList(t *testing.T) {
	c, store := newLoaded(t, sampleTasks()...)
	store.CreateErr = &taskservice.ServiceError{StatusCode: 500, Message: taskservice.MsgAddTask}
	before := c.Tasks()

	drain(t, c, c.Add("x"))

	if !reflect.DeepEqual(c.Tasks(), before) {
		t.Errorf("Tasks changed: %v", c.Tasks())
	}
	if c.Err() != taskservice.MsgAddTask {
		t.Errorf("Err = %q", c.Err())
	}
	if c.AddingID() != "" {
		t.Error("no highlight expected")
	}
}

func TestAdd_ClearsPreviousError(t *testing.T) {
	c, store := newLoaded(t)
	store.CreateErr = errors.New("x")
	drain(t, c, c.Add("a"))
	if c.Err() != fallbackAdd {
		t.Fatalf("Err = %q, want %q", c.Err(), fallbackAdd)
	}
	store.CreateErr = nil
	drain(t, c, c.Add("b"))
	if c.Err() != "" {
		t.Errorf("Err = %q, want cleared", c.Err())
	}
}

func TestToggle_PositionUnchangedUpdatesImmediately(t *testing.T) {
	c, store := newLoaded(t, sampleTasks()...)

	cmd := c.Toggle("2", false)
	if c.IsMoving("2") {
		t.Error("task should not be marked moving when position is unchanged")
	}
	if c.Pending("2") != OpToggle {
		t.Errorf("Pending = %v, want pending-toggle", c.Pending("2"))
	}

	msgs := run(cmd)
	if len(msgs) != 1 {
		t.Fatalf("msgs = %v", msgs)
	}
	tm, ok := msgs[0].(ToggledMsg)
	if !ok || tm.Moved {
		t.Fatalf("expected immediate ToggledMsg, got %#v", msgs[0])
	}
	if !store.HasCalled("update:2") {
		t.Error("store should be updated without waiting")
	}

	follow, _ := c.Handle(tm)
	unhandled := drain(t, c, follow)

	want := []task.Task{
		{ID: "1", Text: "A", Completed: false},
		{ID: "2", Text: "B", Completed: true},
		{ID: "3", Text: "C", Completed: true},
	}
	if !reflect.DeepEqual(c.Ordered(), want) {
		t.Errorf("Ordered = %+v, want %+v", c.Ordered(), want)
	}
	if c.OpenCount() != 1 {
		t.Errorf("OpenCount = %d, want 1", c.OpenCount())
	}
	if !hasCelebrate(unhandled) {
		t.Error("completing a task should celebrate")
	}
	if c.Pending("2") != OpIdle {
		t.Error("pending should be cleared")
	}
}

func TestToggle_PositionChangedDefersUpdate(t *testing.T) {
	c, store := newLoaded(t,
		task.Task{ID: "a", Text: "A"},
		task.Task{ID: "b", Text: "B"},
	)

	cmd := c.Toggle("a", false)
	if !c.IsMoving("a") {
		t.Fatal("task should be marked moving")
	}

	msgs := run(cmd)
	if len(msgs) != 1 {
		t.Fatalf("msgs = %v", msgs)
	}
	if _, ok := msgs[0].(moveElapsedMsg); !ok {
		t.Fatalf("expected move timer, got %#v", msgs[0])
	}
	if store.HasCalled("update:a") {
		t.Error("store must not be updated before the move window elapses")
	}
	if got := ids(c.Tasks()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("list committed too early: %v", got)
	}

	follow, _ := c.Handle(msgs[0])
	unhandled := drain(t, c, follow)

	if !store.HasCalled("update:a") {
		t.Error("store should be updated after the move window")
	}
	if got := ids(c.Tasks()); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Tasks = %v, want [b a]", got)
	}
	if tk, _ := task.Find(c.Tasks(), "a"); !tk.Completed {
		t.Error("task a should be completed")
	}
	if c.IsMoving("a") {
		t.Error("moving flag should clear after settle")
	}
	if !hasCelebrate(unhandled) {
		t.Error("completing a task should celebrate")
	}
}

func TestToggle_MovingHeldUntilSettle(t *testing.T) {
	c, _ := newLoaded(t,
		task.Task{ID: "a", Text: "A"},
		task.Task{ID: "b", Text: "B"},
	)

	elapsed := run(c.Toggle("a", false))
	update, _ := c.Handle(elapsed[0])
	toggled := run(update)
	settle, _ := c.Handle(toggled[0])

	if got := ids(c.Tasks()); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("Tasks = %v, want committed order", got)
	}
	if !c.IsMoving("a") {
		t.Error("moving flag should survive until the settle delay")
	}
	drain(t, c, settle)
	if c.IsMoving("a") {
		t.Error("moving flag should be cleared")
	}
}

func TestToggle_UncompleteDoesNotCelebrate(t *testing.T) {
	c, _ := newLoaded(t,
		task.Task{ID: "a", Text: "A"},
		task.Task{ID: "b", Text: "B", Completed: true},
		task.Task{ID: "c", Text: "C", Completed: true},
	)

	unhandled := drain(t, c, c.Toggle("c", true))

	if hasCelebrate(unhandled) {
		t.Error("un-completing must not celebrate")
	}
	if got := ids(c.Tasks()); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("Tasks = %v, want [c a b]", got)
	}
	if c.OpenCount() != 2 {
		t.Errorf("OpenCount = %d, want 2", c.OpenCount())
	}
}

func TestToggle_FailedDeferredUpdateRollsBack(t *testing.T) {
	c, store := newLoaded(t,
		task.Task{ID: "a", Text: "A"},
		task.Task{ID: "b", Text: "B"},
		task.Task{ID: "c", Text: "C", Completed: true},
	)
	store.UpdateErr = &taskservice.ServiceError{StatusCode: 500, Message: taskservice.MsgUpdateTask}
	before := c.Tasks()

	unhandled := drain(t, c, c.Toggle("a", false))

	if !reflect.DeepEqual(c.Tasks(), before) {
		t.Errorf("Tasks = %+v, want unchanged %+v", c.Tasks(), before)
	}
	if c.IsMoving("a") {
		t.Error("moving flag should be rolled back")
	}
	if c.Err() != taskservice.MsgUpdateTask {
		t.Errorf("Err = %q", c.Err())
	}
	if hasCelebrate(unhandled) {
		t.Error("failed toggle must not celebrate")
	}
	if c.Pending("a") != OpIdle {
		t.Error("pending should be cleared so the user can retry")
	}
}

func TestToggle_FailedImmediateUpdate(t *testing.T) {
	c, store := newLoaded(t, sampleTasks()...)
	store.UpdateErr = errors.New("x")
	before := c.Tasks()

	drain(t, c, c.Toggle("2", false))

	if !reflect.DeepEqual(c.Tasks(), before) {
		t.Errorf("Tasks changed: %+v", c.Tasks())
	}
	if c.Err() != fallbackUpdate {
		t.Errorf("Err = %q, want %q", c.Err(), fallbackUpdate)
	}
}

func TestToggle_TwiceRestoresState(t *testing.T) {
	c, _ := newLoaded(t,
		task.Task{ID: "a", Text: "A"},
		task.Task{ID: "b", Text: "B"},
		task.Task{ID: "c", Text: "C", Completed: true},
	)

	drain(t, c, c.Toggle("a", false))
	tk, _ := task.Find(c.Tasks(), "a")
	drain(t, c, c.Toggle("a", tk.Completed))

	tk, _ = task.Find(c.Tasks(), "a")
	if tk.Completed {
		t.Error("task a should be active again")
	}
	got := ids(c.Tasks())
	if len(got) != 3 {
		t.Fatalf("Tasks = %v", got)
	}
	seen := map[string]bool{}
	for _, id := range got {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	for _, id := range []string{"a", "b", "c"} {
		if !seen[id] {
			t.Errorf("lost id %s", id)
		}
	}
}

func TestToggle_UnknownIDIsNoop(t *testing.T) {
	c, store := newLoaded(t, sampleTasks()...)
	if cmd := c.Toggle("missing", false); cmd != nil {
		t.Error("expected no command for unknown id")
	}
	if store.HasCalled("update:missing") {
		t.Error("store should not be called")
	}
}

func TestToggle_SameIDRejectedWhilePending(t *testing.T) {
	c, store := newLoaded(t,
		task.Task{ID: "a", Text: "A"},
		task.Task{ID: "b", Text: "B"},
	)

	first := c.Toggle("a", false)
	if second := c.Toggle("a", false); second != nil {
		t.Error("second toggle on a pending task should be rejected")
	}
	if del := c.Delete("a"); del != nil {
		t.Error("delete on a pending task should be rejected")
	}
	drain(t, c, first)

	n := 0
	for _, call := range store.Calls() {
		if call == "update:a" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("update calls = %d, want 1", n)
	}
	if cmd := c.Toggle("a", true); cmd == nil {
		t.Error("toggle should be accepted again once the first committed")
	}
}

func TestToggle_DifferentIDsOverlap(t *testing.T) {
	c, _ := newLoaded(t,
		task.Task{ID: "a", Text: "A"},
		task.Task{ID: "b", Text: "B"},
		task.Task{ID: "c", Text: "C"},
	)

	cmdA := c.Toggle("a", false)
	cmdB := c.Toggle("b", false)
	if !c.IsMoving("a") || !c.IsMoving("b") {
		t.Fatal("both tasks should be moving")
	}
	drain(t, c, cmdA)
	drain(t, c, cmdB)

	if got := ids(c.Tasks()); !reflect.DeepEqual(got, []string{"c", "b", "a"}) {
		t.Errorf("Tasks = %v, want [c b a]", got)
	}
	if c.OpenCount() != 1 {
		t.Errorf("OpenCount = %d, want 1", c.OpenCount())
	}
}

func TestToggle_ClosesOpenSwipe(t *testing.T) {
	c, _ := newLoaded(t, sampleTasks()...)
	c.SwipeOpen("3")
	c.Toggle("1", false)
	if c.OpenID() != "" {
		t.Errorf("OpenID = %q, want closed", c.OpenID())
	}
}

func TestDelete_RemovesAfterWindow(t *testing.T) {
	c, store := newLoaded(t, sampleTasks()...)

	cmd := c.Delete("2")
	if !c.IsDeleting("2") {
		t.Fatal("task should be marked deleting")
	}
	msgs := run(cmd)
	if store.HasCalled("delete:2") {
		t.Error("store must not be called before the delete window elapses")
	}
	follow, _ := c.Handle(msgs[0])
	drain(t, c, follow)

	if got := ids(c.Tasks()); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Errorf("Tasks = %v, want [1 3]", got)
	}
	if c.IsDeleting("2") {
		t.Error("deleting flag should be cleared")
	}
}

func TestDelete_FailureKeepsTask(t *testing.T) {
	c, store := newLoaded(t, sampleTasks()...)
	store.DeleteErr = &taskservice.NetworkError{Message: taskservice.MsgNetworkError, Err: errors.New("reset")}

	drain(t, c, c.Delete("2"))

	if len(c.Tasks()) != 3 {
		t.Errorf("Tasks = %v, want unchanged", c.Tasks())
	}
	if c.IsDeleting("2") {
		t.Error("deleting flag should be rolled back")
	}
	if c.Err() != taskservice.MsgNetworkError {
		t.Errorf("Err = %q", c.Err())
	}
}

func TestDelete_ClearsOpenSwipeOfDeletedTask(t *testing.T) {
	c, _ := newLoaded(t, sampleTasks()...)

	cmd := c.Delete("2")
	// The item is reopened while its delete animation plays.
	c.SwipeOpen("2")
	drain(t, c, cmd)

	if c.OpenID() != "" {
		t.Errorf("OpenID = %q, want cleared", c.OpenID())
	}
	if closed := c.SwipeOpen("1"); closed != "" {
		t.Errorf("SwipeOpen closed %q, want nothing to reset", closed)
	}
	if c.OpenID() != "1" {
		t.Errorf("OpenID = %q, want 1", c.OpenID())
	}
}

func TestSwipeOpen_SingleOpenItem(t *testing.T) {
	c, _ := newLoaded(t, sampleTasks()...)

	if closed := c.SwipeOpen("1"); closed != "" {
		t.Errorf("closed = %q, want none", closed)
	}
	if closed := c.SwipeOpen("1"); closed != "" {
		t.Errorf("reopening the same item closed %q", closed)
	}
	if closed := c.SwipeOpen("2"); closed != "1" {
		t.Errorf("closed = %q, want 1", closed)
	}
	if c.OpenID() != "2" {
		t.Errorf("OpenID = %q, want 2", c.OpenID())
	}
	if closed := c.SwipeOpen("nope"); closed != "2" {
		t.Errorf("closed = %q, want 2", closed)
	}
	if c.OpenID() != "" {
		t.Errorf("OpenID = %q, unknown ids must not open", c.OpenID())
	}
	c.SwipeOpen("3")
	if closed := c.CloseSwipe(); closed != "3" || c.OpenID() != "" {
		t.Errorf("CloseSwipe = %q, OpenID = %q", closed, c.OpenID())
	}
}

func TestEndToEnd(t *testing.T) {
	c, _ := newLoaded(t)

	if c.OpenCount() != 0 || len(c.Ordered()) != 0 {
		t.Fatalf("OpenCount = %d, Ordered = %v", c.OpenCount(), c.Ordered())
	}

	drain(t, c, c.Add("Buy milk"))
	tasks := c.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "Buy milk" || tasks[0].Completed || tasks[0].ID == "" {
		t.Fatalf("Tasks = %+v", tasks)
	}
	if c.OpenCount() != 1 {
		t.Errorf("OpenCount = %d, want 1", c.OpenCount())
	}

	id := tasks[0].ID
	drain(t, c, c.Toggle(id, false))
	if tk, _ := task.Find(c.Tasks(), id); !tk.Completed {
		t.Error("task should be completed")
	}
	if c.OpenCount() != 0 {
		t.Errorf("OpenCount = %d, want 0", c.OpenCount())
	}

	drain(t, c, c.Delete(id))
	if len(c.Tasks()) != 0 {
		t.Errorf("Tasks = %+v, want empty", c.Tasks())
	}
}

func TestHandle_IgnoresForeignMessages(t *testing.T) {
	c, _ := newLoaded(t)
	if _, ok := c.Handle(tea.KeyMsg{}); ok {
		t.Error("KeyMsg should not be handled")
	}
}

func TestOp_String(t *testing.T) {
	if OpIdle.String() != "idle" || OpToggle.String() != "pending-toggle" || OpDelete.String() != "pending-delete" {
		t.Error("unexpected op strings")
	}
}
