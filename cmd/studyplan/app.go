package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"studyplan/internal/config"
	"studyplan/internal/logging"
	"studyplan/internal/output"
	"studyplan/internal/storage"
	"studyplan/internal/store"
)

const defaultLogName = "studyplan.log"

// app holds what every command needs once flags are parsed.
type app struct {
	configPath string
	jsonOutput bool

	cfg       config.Config
	logger    *slog.Logger
	store     *store.Store
	themeSlot store.Slot
	formatter output.Formatter
	now       func() time.Time
	loc       *time.Location
	stderr    io.Writer

	persistErr error
	closers    []io.Closer
}

func newApp() *app {
	return &app{
		now:    time.Now,
		loc:    time.Local,
		stderr: os.Stderr,
	}
}

// open loads the config and wires logging, storage and the store. In TUI
// mode logs always go to a file so they do not corrupt the screen.
func (a *app) open(tui bool) error {
	path := a.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logFile := cfg.LogFile
	if tui && logFile == "" {
		logFile = filepath.Join(filepath.Dir(path), defaultLogName)
	}
	logger, closer, err := logging.New(logFile, cfg.LogLevel, a.stderr)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	a.logger = logger
	a.closers = append(a.closers, closer)

	tasksSlot, themeSlot, err := a.openSlots()
	if err != nil {
		return err
	}
	a.themeSlot = themeSlot

	window, err := cfg.DueSoon()
	if err != nil {
		return err
	}
	a.store = store.New(tasksSlot,
		store.WithLogger(logger),
		store.WithLocation(a.loc),
		store.WithDueSoonWindow(window),
	)
	a.store.Subscribe(func(ev store.Event) {
		if ev.PersistErr != nil {
			a.persistErr = ev.PersistErr
		}
	})
	logger.Debug("store ready", "storage", cfg.Storage, "tasks", len(a.store.Snapshot()))
	return nil
}

func (a *app) openSlots() (store.Slot, store.Slot, error) {
	switch a.cfg.Storage {
	case config.StorageFile:
		dir := filepath.Dir(a.cfg.SlotFile)
		return storage.NewFileSlot(a.cfg.SlotFile), storage.NewFileSlot(filepath.Join(dir, a.cfg.ThemeKey)), nil
	default:
		db, err := storage.Open(a.cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, db)
		return db.Slot(a.cfg.TasksKey), db.Slot(a.cfg.ThemeKey), nil
	}
}

// warnPersist reports a write failure from the last mutation. The change
// itself already happened in memory.
func (a *app) warnPersist() {
	if a.persistErr == nil {
		return
	}
	fmt.Fprintf(a.stderr, "warning: could not save tasks: %v\n", a.persistErr)
	a.persistErr = nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
