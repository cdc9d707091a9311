package store

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"studyplan/internal/task"
)

// Slot is the durable location holding the serialized collection.
// Load returns nil data and a nil error when nothing has been saved yet.
type Slot interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// EventKind names the mutation behind an Event.
type EventKind int

const (
	EventAdded EventKind = iota
	EventUpdated
	EventToggled
	EventRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventUpdated:
		return "updated"
	case EventToggled:
		return "toggled"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is published after every applied mutation. PersistErr is set when
// the change stayed in memory but could not be written to the slot.
type Event struct {
	Kind       EventKind
	Task       task.Task
	PersistErr error
}

// Store holds the canonical task collection for a session.
type Store struct {
	mu     sync.RWMutex
	tasks  []task.Task
	slot   Slot
	now    func() time.Time
	newID  func() string
	loc    *time.Location
	window time.Duration
	logger *slog.Logger

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt and completedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the location whose calendar days TasksOnDate compares.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithDueSoonWindow sets how far ahead a deadline counts as due soon.
func WithDueSoonWindow(d time.Duration) Option {
	return func(s *Store) { s.window = d }
}

// WithIDFunc overrides task id generation.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New loads the collection saved in slot. Missing or unreadable state
// starts an empty collection; New never fails.
func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		now:    time.Now,
		newID:  task.NewID,
		loc:    time.Local,
		window: task.DefaultDueSoonWindow,
		logger: slog.Default(),
		subs:   map[int]func(Event){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = s.load()
	return s
}

func (s *Store) load() []task.Task {
	data, err := s.slot.Load()
	if err != nil {
		s.logger.Warn("saved tasks unreadable, starting empty", "err", &task.PersistenceReadError{Err: err})
		return []task.Task{}
	}
	tasks, err := Decode(data)
	if err != nil {
		s.logger.Warn("saved tasks malformed, starting empty", "err", &task.PersistenceReadError{Err: err})
		return []task.Task{}
	}
	s.logger.Debug("tasks loaded", "count", len(tasks))
	return tasks
}

// persistLocked rewrites the whole collection. Callers hold s.mu.
func (s *Store) persistLocked() error {
	data, err := Encode(s.tasks)
	if err == nil {
		err = s.slot.Save(data)
	}
	if err != nil {
		s.logger.Warn("persist tasks failed; change kept in memory", "err", err)
	}
	return err
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueIDLocked() string {
	for {
		id := s.newID()
		if s.indexLocked(id) < 0 {
			return id
		}
	}
}

// Add creates a pending task from fields.
func (s *Store) Add(fields task.Fields) (task.Task, error) {
	f, err := fields.Normalize()
	if err != nil {
		return task.Task{}, err
	}

	s.mu.Lock()
	t := task.Task{
		ID:        s.uniqueIDLocked(),
		Name:      f.Name,
		Subject:   f.Subject,
		Priority:  f.Priority,
		CreatedAt: s.now(),
	}
	if f.DueDate != nil {
		d := *f.DueDate
		t.DueDate = &d
	}
	s.tasks = append(s.tasks, t)
	perr := s.persistLocked()
	out := t.Clone()
	s.mu.Unlock()

	s.publish(Event{Kind: EventAdded, Task: out, PersistErr: perr})
	return out, nil
}

// Update merges patch into the task with the given id.
func (s *Store) Update(id string, patch task.Patch) (task.Task, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return task.Task{}, &task.NotFoundError{ID: id}
	}
	t := s.tasks[i].Clone()
	if err := patch.Apply(&t); err != nil {
		s.mu.Unlock()
		return task.Task{}, err
	}
	s.tasks[i] = t
	perr := s.persistLocked()
	out := t.Clone()
	s.mu.Unlock()

	s.publish(Event{Kind: EventUpdated, Task: out, PersistErr: perr})
	return out, nil
}

// ToggleComplete flips the completion flag and stamps or clears completedAt.
func (s *Store) ToggleComplete(id string) (task.Task, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return task.Task{}, &task.NotFoundError{ID: id}
	}
	t := &s.tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		now := s.now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	perr := s.persistLocked()
	out := t.Clone()
	s.mu.Unlock()

	s.publish(Event{Kind: EventToggled, Task: out, PersistErr: perr})
	return out, nil
}

// Remove deletes the task permanently. Unknown ids are an error, so a
// second Remove of the same id fails.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return &task.NotFoundError{ID: id}
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	perr := s.persistLocked()
	s.mu.Unlock()

	s.publish(Event{Kind: EventRemoved, Task: removed, PersistErr: perr})
	return nil
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return task.Task{}, &task.NotFoundError{ID: id}
	}
	return s.tasks[i].Clone(), nil
}

// Snapshot copies the collection in insertion order.
func (s *Store) Snapshot() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks)
}

// Location is the zone used for calendar-day comparisons.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Subscribe registers fn for change events and returns its cancel func.
// Events are delivered synchronously, after the store lock is released.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func cloneAll(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
