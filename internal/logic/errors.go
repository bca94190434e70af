package logic

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// GuardError is returned when a workflow transition is not allowed
// in the task's current state.
type GuardError struct {
	TaskID int64
	Reason string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("task %d: %s", e.TaskID, e.Reason)
}

// ValidationError carries a user-facing message for invalid input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
