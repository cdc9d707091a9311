package deadline

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyplan/internal/task"
)

type fakeSource struct {
	mu    sync.Mutex
	tasks []task.Task
}

func (f *fakeSource) Snapshot() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]task.Task(nil), f.tasks...)
}

func (f *fakeSource) set(tasks ...task.Task) {
	f.mu.Lock()
	f.tasks = tasks
	f.mu.Unlock()
}

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func dueIn(id, name string, d time.Duration) task.Task {
	due := now.Add(d)
	return task.Task{ID: id, Name: name, DueDate: &due, Priority: task.PriorityMedium, CreatedAt: now}
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestScanSelectsTasksInsideWindow(t *testing.T) {
	done := dueIn("done", "finished essay", 2*time.Hour)
	done.Completed = true
	done.CompletedAt = &now

	src := &fakeSource{}
	src.set(
		dueIn("soon", "read chapter 4", 3*time.Hour),
		dueIn("edge", "lab report", 24*time.Hour),
		dueIn("late", "problem set", -time.Hour),
		dueIn("far", "project", 48*time.Hour),
		done,
		task.Task{ID: "plain", Name: "buy notebook"},
	)

	s := New(src, nil, quiet())
	alerts := s.Scan(now)
	require.Len(t, alerts, 2)
	assert.Equal(t, "soon", alerts[0].TaskID)
	assert.Equal(t, `Task "read chapter 4" is due in 3 hours`, alerts[0].Message)
	assert.Equal(t, "edge", alerts[1].TaskID)
	assert.Equal(t, 24*time.Hour, alerts[1].Remaining)
}

func TestScanAlertsOncePerDueDate(t *testing.T) {
	src := &fakeSource{}
	src.set(dueIn("a", "revise notes", 2*time.Hour))

	var got []Alert
	s := New(src, func(a Alert) { got = append(got, a) }, quiet())

	s.Scan(now)
	s.Scan(now.Add(time.Minute))
	assert.Len(t, got, 1)

	// Moving the deadline re-arms the alert.
	src.set(dueIn("a", "revise notes", 5*time.Hour))
	s.Scan(now.Add(2 * time.Minute))
	require.Len(t, got, 2)
	assert.Equal(t, now.Add(5*time.Hour), got[1].Due)

	// A removed task is forgotten and alerts again if it comes back.
	src.set()
	s.Scan(now)
	src.set(dueIn("a", "revise notes", 5*time.Hour))
	s.Scan(now)
	assert.Len(t, got, 3)
}

func TestScanDoesNotMutateTasks(t *testing.T) {
	src := &fakeSource{}
	src.set(dueIn("a", "revise notes", 2*time.Hour))
	before := src.Snapshot()

	New(src, nil, quiet()).Scan(now)
	assert.Equal(t, before, src.Snapshot())
}

func TestMessage(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		want      string
	}{
		{30 * time.Minute, `Task "x" is due in 30 minutes`},
		{89 * time.Second, `Task "x" is due in 1 minutes`},
		{90 * time.Minute, `Task "x" is due in 2 hours`},
		{23*time.Hour + 20*time.Minute, `Task "x" is due in 23 hours`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Message("x", tt.remaining), tt.remaining.String())
	}
}

func TestOptionsIgnoreNonPositive(t *testing.T) {
	s := New(&fakeSource{}, nil, WithInterval(0), WithWindow(-time.Hour))
	assert.Equal(t, DefaultInterval, s.interval)
	assert.Equal(t, DefaultWindow, s.window)
}

func TestRunScansImmediatelyAndStops(t *testing.T) {
	src := &fakeSource{}
	src.set(dueIn("a", "revise notes", 2*time.Hour))

	alerts := make(chan Alert, 4)
	s := New(src, func(a Alert) { alerts <- a },
		WithInterval(time.Hour),
		WithClock(func() time.Time { return now }),
		quiet(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	select {
	case a := <-alerts:
		assert.Equal(t, "a", a.TaskID)
	case <-time.After(2 * time.Second):
		t.Fatal("no alert from the initial scan")
	}

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
