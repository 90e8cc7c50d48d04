package task

import "errors"

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a task id is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a task is not valid.
	ErrNotValid = errors.New("not valid")
)
