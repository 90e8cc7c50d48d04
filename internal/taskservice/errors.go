package taskservice

import "fmt"

// User-facing messages, one per operation.
const (
	MsgFetchTasks   = "Failed to load tasks. Please refresh the page and try again."
	MsgAddTask      = "Failed to add task. Please check your connection and try again."
	MsgUpdateTask   = "Failed to update task. Please try again."
	MsgDeleteTask   = "Failed to delete task. Please try again."
	MsgNetworkError = "Unable to connect to the server. Please check your connection."
)

// ServiceError is returned when the backend answered with a non-success status.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// NetworkError is returned when no valid response was received.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
