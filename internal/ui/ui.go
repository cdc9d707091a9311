package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"studyplan/internal/config"
	"studyplan/internal/deadline"
	"studyplan/internal/store"
	"studyplan/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
)

type tab int

const (
	tabTasks tab = iota
	tabCalendar
	tabProgress
)

// Options wires the TUI to the rest of the program.
type Options struct {
	Store     *store.Store
	ThemeSlot store.Slot
	Config    config.Config
	// Alerts delivers deadline notices from the scanner goroutine.
	Alerts <-chan deadline.Alert
	Now    func() time.Time
	Logger *slog.Logger
}

type storeEventMsg store.Event

type alertMsg deadline.Alert

type Model struct {
	store     *store.Store
	themeSlot store.Slot
	cfg       config.Config
	now       func() time.Time
	logger    *slog.Logger

	events      chan store.Event
	alerts      <-chan deadline.Alert
	unsubscribe func()

	tasks      []task.Task
	filter     store.Filter
	cursor     int
	tab        tab
	mode       mode
	input      textinput.Model
	form       *formState
	status     string
	alert      string
	confirmDel bool
	pendingDel *task.Task

	theme  theme
	styles styles

	year  int
	month time.Month
	width int
}

// New builds the model and subscribes it to store changes.
func New(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	filter, err := store.ParseFilter(opts.Config.DefaultFilter)
	if err != nil {
		opts.Logger.Warn("ignoring default filter", "filter", opts.Config.DefaultFilter, "err", err)
	}

	events := make(chan store.Event, 32)
	unsubscribe := opts.Store.Subscribe(func(ev store.Event) {
		select {
		case events <- ev:
		default:
			opts.Logger.Warn("dropping store event", "kind", ev.Kind)
		}
	})

	today := opts.Now().In(opts.Store.Location())
	m := Model{
		store:       opts.Store,
		themeSlot:   opts.ThemeSlot,
		cfg:         opts.Config,
		now:         opts.Now,
		logger:      opts.Logger,
		events:      events,
		alerts:      opts.Alerts,
		unsubscribe: unsubscribe,
		filter:      filter,
		input:       ti,
		mode:        modeList,
		tab:         tabTasks,
		status:      fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", opts.Config.Keys.Add, opts.Config.Keys.Delete),
		year:        today.Year(),
		month:       today.Month(),
	}
	m.theme = m.loadTheme()
	m.styles = newStyles(m.theme)
	m.reload()
	return m
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	defer m.unsubscribe()

	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), waitForAlert(m.alerts))
}

func waitForEvent(ch <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		return storeEventMsg(<-ch)
	}
}

func waitForAlert(ch <-chan deadline.Alert) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return alertMsg(a)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case storeEventMsg:
		m.reload()
		if msg.PersistErr != nil {
			m.status = fmt.Sprintf("Could not save tasks, changes are kept for this session only: %v", msg.PersistErr)
		}
		return m, waitForEvent(m.events)
	case alertMsg:
		m.alert = "⚠ " + msg.Message + "!"
		return m, waitForAlert(m.alerts)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.TabTasks:
		m.tab = tabTasks
		return m, nil
	case m.cfg.Keys.TabCalendar:
		m.tab = tabCalendar
		return m, nil
	case m.cfg.Keys.TabProgress:
		m.tab = tabProgress
		return m, nil
	case m.cfg.Keys.Theme:
		return m.toggleTheme(), nil
	case m.cfg.Keys.Add:
		return m.startForm(newAddForm())
	}

	if key == m.cfg.Keys.Cancel && m.alert != "" {
		m.alert = ""
		return m, nil
	}

	switch m.tab {
	case tabTasks:
		return m.updateTasksTab(key)
	case tabCalendar:
		return m.updateCalendarTab(key), nil
	}
	return m, nil
}

func (m Model) updateTasksTab(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Down, "down":
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case m.cfg.Keys.Toggle:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t, err := m.store.ToggleComplete(m.tasks[m.cursor].ID)
		if err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.reload()
		if t.Completed {
			m.status = "Task completed! Great job!"
		} else {
			m.status = "Task marked as incomplete"
		}
	case m.cfg.Keys.Delete:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Name)
	case m.cfg.Keys.Edit:
		if len(m.tasks) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(newEditForm(m.tasks[m.cursor], m.store.Location()))
	case m.cfg.Keys.Filter:
		m.filter = nextFilter(m.filter)
		m.reload()
		m.status = "Filter: " + m.filter.String()
	}
	return m, nil
}

func (m Model) updateCalendarTab(key string) Model {
	switch key {
	case m.cfg.Keys.PrevMonth, "left":
		m.year, m.month = m.grid().Prev()
	case m.cfg.Keys.NextMonth, "right":
		m.year, m.month = m.grid().Next()
	}
	return m
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if err := m.store.Remove(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
		} else {
			m.reload()
			m.status = "Task deleted successfully!"
		}
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) toggleTheme() Model {
	m.theme = m.theme.other()
	m.styles = newStyles(m.theme)
	m.status = "Theme: " + string(m.theme)
	if m.themeSlot == nil {
		return m
	}
	if err := m.themeSlot.Save([]byte(m.theme)); err != nil {
		m.logger.Warn("persist theme failed", "err", err)
		m.status = fmt.Sprintf("Theme: %s (not saved: %v)", m.theme, err)
	}
	return m
}

func (m Model) loadTheme() theme {
	if m.themeSlot == nil {
		return themeLight
	}
	data, err := m.themeSlot.Load()
	if err != nil {
		m.logger.Warn("read theme failed", "err", err)
		return themeLight
	}
	return parseTheme(string(data))
}

// reload refreshes the visible list from the store, keeping the cursor in range.
func (m *Model) reload() {
	m.tasks = m.store.List(m.filter)
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m *Model) selectID(id string) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func nextFilter(f store.Filter) store.Filter {
	order := []task.Priority{"", task.PriorityHigh, task.PriorityMedium, task.PriorityLow}
	for i, p := range order {
		if p == f.Priority {
			return store.Filter{Priority: order[wrapIndex(i+1, len(order))]}
		}
	}
	return store.Filter{}
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
