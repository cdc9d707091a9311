package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studyplan/internal/task"
)

// record is the persisted shape of a task. Timestamps are RFC 3339 strings
// with nanosecond precision so every instant reads back unchanged.
type record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Text        string  `json:"text,omitempty"`
	Subject     string  `json:"subject,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
	CompletedAt *string `json:"completedAt"`
}

// Encode serializes the collection into the JSON array kept in the slot.
func Encode(tasks []task.Task) ([]byte, error) {
	recs := make([]record, 0, len(tasks))
	for _, t := range tasks {
		r := record{
			ID:        t.ID,
			Name:      t.Name,
			Subject:   t.Subject,
			Priority:  string(t.Priority),
			Completed: t.Completed,
			CreatedAt: formatTime(t.CreatedAt),
		}
		if t.DueDate != nil {
			s := formatTime(*t.DueDate)
			r.DueDate = &s
		}
		if t.CompletedAt != nil {
			s := formatTime(*t.CompletedAt)
			r.CompletedAt = &s
		}
		recs = append(recs, r)
	}
	return json.Marshal(recs)
}

// Decode parses a slot value. Empty input is an empty collection.
func Decode(data []byte) ([]task.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []task.Task{}, nil
	}
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]task.Task, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for i, r := range recs {
		t, err := r.toTask()
		if err != nil {
			return nil, fmt.Errorf("decode task %d: %w", i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("decode task %d: duplicate id %s", i, t.ID)
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r record) toTask() (task.Task, error) {
	if r.ID == "" {
		return task.Task{}, errors.New("missing id")
	}
	name := r.Name
	if name == "" {
		name = r.Text
	}
	if name == "" {
		return task.Task{}, errors.New("missing name")
	}
	priority := task.Priority(r.Priority)
	if !priority.IsValid() {
		return task.Task{}, fmt.Errorf("unknown priority %q", r.Priority)
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("createdAt: %w", err)
	}

	t := task.Task{
		ID:        r.ID,
		Name:      name,
		Subject:   r.Subject,
		Priority:  priority,
		Completed: r.Completed,
		CreatedAt: createdAt,
	}
	if r.DueDate != nil {
		due, err := parseTime(*r.DueDate)
		if err != nil {
			return task.Task{}, fmt.Errorf("dueDate: %w", err)
		}
		t.DueDate = &due
	}
	if r.CompletedAt != nil && t.Completed {
		done, err := parseTime(*r.CompletedAt)
		if err != nil {
			return task.Task{}, fmt.Errorf("completedAt: %w", err)
		}
		t.CompletedAt = &done
	}
	// older planner saves never recorded completion time
	if t.Completed && t.CompletedAt == nil {
		c := t.CreatedAt
		t.CompletedAt = &c
	}
	return t, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
