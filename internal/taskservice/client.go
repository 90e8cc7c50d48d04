// Package taskservice is the HTTP client for the tasks REST API.
package taskservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/simonbystrom/tasks/internal/task"
)

const (
	// DefaultBaseURL is where the mock API listens by default.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultTimeout bounds every API call.
	DefaultTimeout = 5 * time.Second
)

// Client talks to the /tasks collection of the REST API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTasks returns every task in backend order.
func (c *Client) FetchTasks(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, MsgFetchTasks, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task and returns it with its server-assigned id.
func (c *Client) CreateTask(ctx context.Context, req task.CreateRequest) (task.Task, error) {
	var created task.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", req, MsgAddTask, &created); err != nil {
		return task.Task{}, err
	}
	return created, nil
}

// UpdateTask applies a partial update to task id.
func (c *Client) UpdateTask(ctx context.Context, id string, req task.UpdateRequest) (task.Task, error) {
	var updated task.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), req, MsgUpdateTask, &updated); err != nil {
		return task.Task{}, err
	}
	return updated, nil
}

// DeleteTask removes task id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, MsgDeleteTask, nil)
}

// do performs one request. A non-2xx status becomes a *ServiceError carrying
// failMsg; anything else that prevents a valid response becomes a *NetworkError.
func (c *Client) do(ctx context.Context, method, path string, body any, failMsg string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Message: MsgNetworkError, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Message: MsgNetworkError, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Message: MsgNetworkError, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &ServiceError{StatusCode: resp.StatusCode, Message: failMsg}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Message: MsgNetworkError, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
