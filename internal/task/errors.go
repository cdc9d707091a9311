package task

import "fmt"

// ValidationError indicates a required field is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError indicates the task ID doesn't match any task.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// PersistenceReadError indicates saved state could not be read back.
// The store recovers by starting empty; callers only see it in logs.
type PersistenceReadError struct {
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("read saved tasks: %v", e.Err)
}

func (e *PersistenceReadError) Unwrap() error {
	return e.Err
}
