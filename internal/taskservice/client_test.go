package taskservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/simonbystrom/tasks/internal/task"
)

func TestFetchTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/tasks" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`[{"id":"1","text":"A","completed":false},{"id":"2","text":"B","completed":true}]`))
	}))
	defer srv.Close()

	tasks, err := New(srv.URL).FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "1" || !tasks[1].Completed {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestFetchTasks_NullBodyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	tasks, err := New(srv.URL).FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchTasks: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("tasks = %#v, want empty non-nil", tasks)
	}
}

func TestCreateTask_SendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var req task.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Text != "Buy milk" || req.Completed {
			t.Errorf("req = %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(task.Task{ID: "x1", Text: req.Text})
	}))
	defer srv.Close()

	got, err := New(srv.URL).CreateTask(context.Background(), task.CreateRequest{Text: "Buy milk"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got.ID != "x1" || got.Text != "Buy milk" {
		t.Errorf("got = %+v", got)
	}
}

func TestUpdateTask_PatchesPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/tasks/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var raw map[string]any
		json.NewDecoder(r.Body).Decode(&raw)
		if _, ok := raw["text"]; ok {
			t.Error("text should be omitted from a completion-only patch")
		}
		if raw["completed"] != true {
			t.Errorf("completed = %v", raw["completed"])
		}
		w.Write([]byte(`{"id":"42","text":"A","completed":true}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).UpdateTask(context.Background(), "42", task.UpdateRequest{Completed: task.Bool(true)})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !got.Completed {
		t.Errorf("got = %+v", got)
	}
}

func TestDeleteTask(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = r.Method == http.MethodDelete && r.URL.Path == "/tasks/7"
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if err := New(srv.URL).DeleteTask(context.Background(), "7"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if !called {
		t.Error("expected DELETE /tasks/7")
	}
}

func TestServiceError_PerOperationMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := New(srv.URL)
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
		want string
	}{
		{"fetch", func() error { _, err := c.FetchTasks(ctx); return err }, MsgFetchTasks},
		{"create", func() error { _, err := c.CreateTask(ctx, task.CreateRequest{Text: "x"}); return err }, MsgAddTask},
		{"update", func() error { _, err := c.UpdateTask(ctx, "1", task.UpdateRequest{}); return err }, MsgUpdateTask},
		{"delete", func() error { return c.DeleteTask(ctx, "1") }, MsgDeleteTask},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			var se *ServiceError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *ServiceError", err)
			}
			if se.StatusCode != http.StatusInternalServerError {
				t.Errorf("StatusCode = %d", se.StatusCode)
			}
			if se.Message != tc.want {
				t.Errorf("Message = %q, want %q", se.Message, tc.want)
			}
		})
	}
}

func TestNetworkError_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).FetchTasks(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
	if ne.Message != MsgNetworkError {
		t.Errorf("Message = %q", ne.Message)
	}
	if ne.Unwrap() == nil {
		t.Error("expected wrapped cause")
	}
}

func TestNetworkError_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchTasks(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
}

func TestTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	_, err := New(srv.URL, WithTimeout(20*time.Millisecond)).FetchTasks(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded in chain", err)
	}
}
