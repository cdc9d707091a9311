package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "planner.db"
	DefaultTasksKey       = "studyPlannerTasks"
	DefaultThemeKey       = "studyPlannerTheme"

	StorageSQLite = "sqlite"
	StorageFile   = "file"

	appDir    = "studyplan"
	envConfig = "STUDYPLAN_CONFIG"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Add         string `toml:"add"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	Edit        string `toml:"edit"`
	Filter      string `toml:"filter"`
	Theme       string `toml:"theme"`
	TabTasks    string `toml:"tab_tasks"`
	TabCalendar string `toml:"tab_calendar"`
	TabProgress string `toml:"tab_progress"`
	PrevMonth   string `toml:"prev_month"`
	NextMonth   string `toml:"next_month"`
}

type Config struct {
	DBPath        string `toml:"db_path"`
	Storage       string `toml:"storage"`
	SlotFile      string `toml:"slot_file"`
	TasksKey      string `toml:"tasks_key"`
	ThemeKey      string `toml:"theme_key"`
	DefaultFilter string `toml:"default_filter"`
	DueSoonWindow string `toml:"due_soon_window"`
	ScanInterval  string `toml:"scan_interval"`
	LogFile       string `toml:"log_file"`
	LogLevel      string `toml:"log_level"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file: $STUDYPLAN_CONFIG, then the
// user config dir, then the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(envConfig)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDir, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing defaults on first launch.
// Relative paths inside the file resolve against the file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) fillDefaults(base string) {
	def := defaultConfig(base)
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.Storage == "" {
		c.Storage = def.Storage
	}
	if c.SlotFile == "" {
		c.SlotFile = def.SlotFile
	}
	if c.TasksKey == "" {
		c.TasksKey = def.TasksKey
	}
	if c.ThemeKey == "" {
		c.ThemeKey = def.ThemeKey
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = def.DefaultFilter
	}
	if c.DueSoonWindow == "" {
		c.DueSoonWindow = def.DueSoonWindow
	}
	if c.ScanInterval == "" {
		c.ScanInterval = def.ScanInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	c.DBPath = resolve(base, c.DBPath)
	c.SlotFile = resolve(base, c.SlotFile)
	if c.LogFile != "" {
		c.LogFile = resolve(base, c.LogFile)
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(base, p)
}

// Validate rejects values the rest of the program cannot use.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("unknown storage %q (valid: %s, %s)", c.Storage, StorageSQLite, StorageFile)
	}
	switch strings.ToLower(c.DefaultFilter) {
	case "all", "low", "medium", "high":
	default:
		return fmt.Errorf("unknown default_filter %q (valid: all, low, medium, high)", c.DefaultFilter)
	}
	if _, err := c.DueSoon(); err != nil {
		return err
	}
	if _, err := c.Interval(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// DueSoon is the parsed due_soon_window.
func (c Config) DueSoon() (time.Duration, error) {
	return positiveDuration("due_soon_window", c.DueSoonWindow)
}

// Interval is the parsed scan_interval.
func (c Config) Interval() (time.Duration, error) {
	return positiveDuration("scan_interval", c.ScanInterval)
}

func positiveDuration(field, v string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", field, v)
	}
	return d, nil
}

func defaultConfig(base string) Config {
	return Config{
		DBPath:        filepath.Join(base, DefaultDBName),
		Storage:       StorageSQLite,
		SlotFile:      filepath.Join(base, "tasks.json"),
		TasksKey:      DefaultTasksKey,
		ThemeKey:      DefaultThemeKey,
		DefaultFilter: "all",
		DueSoonWindow: "24h",
		ScanInterval:  "5m",
		LogLevel:      "info",
		Keys: Keymap{
			Quit:        "q",
			Add:         "a",
			Up:          "k",
			Down:        "j",
			Toggle:      " ",
			Delete:      "d",
			Confirm:     "enter",
			Cancel:      "esc",
			Edit:        "e",
			Filter:      "f",
			Theme:       "t",
			TabTasks:    "1",
			TabCalendar: "2",
			TabProgress: "3",
			PrevMonth:   "h",
			NextMonth:   "l",
		},
	}
}

// DefaultKeymap returns the built-in key bindings.
func DefaultKeymap() Keymap {
	return defaultConfig("").Keys
}
