// Package deadline periodically looks for tasks whose due date is close and
// raises advisory alerts for them.
package deadline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"studyplan/internal/task"
)

const (
	DefaultInterval = 5 * time.Minute
	DefaultWindow   = task.DefaultDueSoonWindow
)

// Source provides a consistent copy of the task collection.
type Source interface {
	Snapshot() []task.Task
}

// Alert is one upcoming-deadline notice.
type Alert struct {
	TaskID    string
	Name      string
	Due       time.Time
	Remaining time.Duration
	Message   string
}

// Notifier receives alerts. It is called from the scanning goroutine.
type Notifier func(Alert)

// Scanner checks a Source on a fixed interval.
type Scanner struct {
	src      Source
	notify   Notifier
	interval time.Duration
	window   time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu      sync.Mutex
	alerted map[string]time.Time
}

// Option is a functional option for configuring Scanner.
type Option func(*Scanner)

// WithInterval sets how often Run scans.
func WithInterval(d time.Duration) Option {
	return func(s *Scanner) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithWindow sets how far ahead a due date triggers an alert.
func WithWindow(d time.Duration) Option {
	return func(s *Scanner) {
		if d > 0 {
			s.window = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// New creates a Scanner reading from src. notify may be nil, in which case
// alerts are only returned from Scan and logged.
func New(src Source, notify Notifier, opts ...Option) *Scanner {
	s := &Scanner{
		src:      src,
		notify:   notify,
		interval: DefaultInterval,
		window:   DefaultWindow,
		now:      time.Now,
		logger:   slog.Default(),
		alerted:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scans immediately and then on every tick until ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	s.logger.Info("deadline scanner started", "interval", s.interval, "window", s.window)
	s.Scan(s.now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Scan(s.now())
		case <-ctx.Done():
			s.logger.Info("deadline scanner stopped")
			return ctx.Err()
		}
	}
}

// Scan returns alerts for incomplete tasks due within the window after now.
// A task is alerted once per due date; editing the due date re-arms it.
func (s *Scanner) Scan(now time.Time) []Alert {
	tasks := s.src.Snapshot()

	s.mu.Lock()
	seen := make(map[string]bool, len(tasks))
	var alerts []Alert
	for _, t := range tasks {
		seen[t.ID] = true
		if t.Completed || t.DueDate == nil {
			continue
		}
		remaining := t.DueDate.Sub(now)
		if remaining <= 0 || remaining > s.window {
			continue
		}
		if prev, ok := s.alerted[t.ID]; ok && prev.Equal(*t.DueDate) {
			continue
		}
		s.alerted[t.ID] = *t.DueDate
		alerts = append(alerts, Alert{
			TaskID:    t.ID,
			Name:      t.Name,
			Due:       *t.DueDate,
			Remaining: remaining,
			Message:   Message(t.Name, remaining),
		})
	}
	for id := range s.alerted {
		if !seen[id] {
			delete(s.alerted, id)
		}
	}
	s.mu.Unlock()

	for _, a := range alerts {
		s.logger.Debug("deadline alert", "task_id", a.TaskID, "remaining", a.Remaining)
		if s.notify != nil {
			s.notify(a)
		}
	}
	return alerts
}

// Message renders the alert text, in minutes under an hour and hours otherwise.
func Message(name string, remaining time.Duration) string {
	hours := remaining.Hours()
	if hours < 1 {
		return fmt.Sprintf("Task \"%s\" is due in %d minutes", name, int(math.Round(hours*60)))
	}
	return fmt.Sprintf("Task \"%s\" is due in %d hours", name, int(math.Round(hours)))
}
