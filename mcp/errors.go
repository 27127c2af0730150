package mcp

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by TaskError.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskNotCompleted = errors.New("task not completed")
)

// TaskError reports a task lookup or state failure for one task id.
type TaskError struct {
	TaskID string
	Err    error
}

func (e *TaskError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTaskNotFound):
		return fmt.Sprintf("Task %s not found", e.TaskID)
	case errors.Is(e.Err, ErrTaskNotCompleted):
		return fmt.Sprintf("Task %s is not completed", e.TaskID)
	default:
		return fmt.Sprintf("Task %s: %v", e.TaskID, e.Err)
	}
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

func notFound(id string) error {
	return &TaskError{TaskID: id, Err: ErrTaskNotFound}
}

func notCompleted(id string) error {
	return &TaskError{TaskID: id, Err: ErrTaskNotCompleted}
}
