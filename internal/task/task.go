package task

import (
	"strings"
	"time"
)

// Priority is the planner's importance level. Simple tracker tasks leave it empty.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for sorting; higher ranks sort first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether p is a known priority or empty.
func (p Priority) IsValid() bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority normalizes user input ("High", " low ") into a Priority.
func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if !p.IsValid() {
		return "", &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
	return p, nil
}

// Task is a single planner entry.
type Task struct {
	ID          string
	Name        string
	Subject     string
	DueDate     *time.Time
	Priority    Priority
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// HasDue reports whether the task carries a deadline.
func (t Task) HasDue() bool {
	return t.DueDate != nil
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CompletedAt != nil {
		d := *t.CompletedAt
		c.CompletedAt = &d
	}
	return c
}

// Fields are the inputs of a new task.
type Fields struct {
	Name     string
	Subject  string
	DueDate  *time.Time
	Priority Priority
}

// Normalize trims the text fields and validates the result.
func (f Fields) Normalize() (Fields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Subject = strings.TrimSpace(f.Subject)
	if f.Name == "" {
		return f, &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if !f.Priority.IsValid() {
		return f, &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
	if f.Priority == "" && f.DueDate != nil {
		f.Priority = PriorityMedium
	}
	return f, nil
}

// Patch is a partial update. A nil field means "no change".
type Patch struct {
	Name         *string
	Subject      *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *Priority
}

// Apply merges the patch into t after validating it.
func (p Patch) Apply(t *Task) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return &ValidationError{Field: "name", Reason: "cannot be empty"}
		}
		t.Name = name
	}
	if p.Priority != nil {
		if !p.Priority.IsValid() {
			return &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
		}
		t.Priority = *p.Priority
	}
	if p.Subject != nil {
		t.Subject = strings.TrimSpace(*p.Subject)
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		d := *p.DueDate
		t.DueDate = &d
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Subject == nil && p.DueDate == nil && !p.ClearDueDate && p.Priority == nil
}
