package store

import (
	"math"
	"sort"
	"strings"
	"time"

	"studyplan/internal/task"
)

// NoSubjectLabel groups tasks that were saved without a subject.
const NoSubjectLabel = "No Subject"

// Filter restricts List results. The zero value matches every task.
type Filter struct {
	Priority task.Priority
}

// ParseFilter reads a filter name: "all", "" or a priority.
func ParseFilter(v string) (Filter, error) {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return Filter{}, nil
	}
	p, err := task.ParsePriority(v)
	if err != nil {
		return Filter{}, err
	}
	return Filter{Priority: p}, nil
}

// Matches reports whether t passes the filter.
func (f Filter) Matches(t task.Task) bool {
	return f.Priority == "" || t.Priority == f.Priority
}

func (f Filter) String() string {
	if f.Priority == "" {
		return "all"
	}
	return string(f.Priority)
}

// Stats summarizes completion progress.
type Stats struct {
	Total                 int
	Completed             int
	CompletionRatePercent int
}

// SubjectStats counts tasks under one subject label.
type SubjectStats struct {
	Total     int
	Completed int
}

// Percent is the rounded completion rate of the subject.
func (s SubjectStats) Percent() int {
	return percent(s.Completed, s.Total)
}

// List returns tasks matching filter in display order.
func (s *Store) List(filter Filter) []task.Task {
	s.mu.RLock()
	out := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	s.mu.RUnlock()

	SortForDisplay(out)
	return out
}

// SortForDisplay orders incomplete tasks first, then by due date (undated
// last), then by priority descending. Equal tasks keep insertion order.
func SortForDisplay(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return a.Priority.Rank() > b.Priority.Rank()
	})
}

// Stats computes totals over the current collection.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.CompletionRatePercent = percent(st.Completed, st.Total)
	return st
}

// SubjectBreakdown groups task counts by subject.
func (s *Store) SubjectBreakdown() map[string]SubjectStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]SubjectStats)
	for _, t := range s.tasks {
		label := t.Subject
		if strings.TrimSpace(label) == "" {
			label = NoSubjectLabel
		}
		st := out[label]
		st.Total++
		if t.Completed {
			st.Completed++
		}
		out[label] = st
	}
	return out
}

// SubjectLabels returns the keys of a breakdown sorted alphabetically,
// with the placeholder label last.
func SubjectLabels(breakdown map[string]SubjectStats) []string {
	labels := make([]string, 0, len(breakdown))
	for l := range breakdown {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if (labels[i] == NoSubjectLabel) != (labels[j] == NoSubjectLabel) {
			return labels[j] == NoSubjectLabel
		}
		return strings.ToLower(labels[i]) < strings.ToLower(labels[j])
	})
	return labels
}

// TasksOnDate returns tasks due on the same local calendar day as date.
func (s *Store) TasksOnDate(date time.Time) []task.Task {
	s.mu.RLock()
	var out []task.Task
	for _, t := range s.tasks {
		if t.DueDate != nil && SameDay(*t.DueDate, date, s.loc) {
			out = append(out, t.Clone())
		}
	}
	s.mu.RUnlock()

	SortForDisplay(out)
	return out
}

// DueSoonOrOverdue classifies t relative to now using the store's window.
func (s *Store) DueSoonOrOverdue(t task.Task, now time.Time) task.Urgency {
	return task.Classify(t, now, s.window)
}

// SameDay compares calendar dates of a and b in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
