package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studyplan", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(dir, "studyplan", DefaultDBName), cfg.DBPath)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, DefaultTasksKey, cfg.TasksKey)
	assert.Equal(t, "q", cfg.Keys.Quit)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateReadsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	body := `
storage = "file"
slot_file = "state/tasks.json"
default_filter = "high"
due_soon_window = "12h"
scan_interval = "1m"
log_file = "/var/tmp/studyplan.log"

[keys]
quit = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, filepath.Join(dir, "state", "tasks.json"), cfg.SlotFile)
	assert.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath, "unset fields keep defaults")
	assert.Equal(t, "/var/tmp/studyplan.log", cfg.LogFile)
	assert.Equal(t, "x", cfg.Keys.Quit)

	window, err := cfg.DueSoon()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, window)
	interval, err := cfg.Interval()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, interval)
}

func TestLoadOrCreateRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"storage":  `storage = "cloud"`,
		"filter":   `default_filter = "urgent"`,
		"window":   `due_soon_window = "tomorrow"`,
		"interval": `scan_interval = "-5m"`,
		"level":    `log_level = "chatty"`,
		"syntax":   `storage = `,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultConfigFileName)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadOrCreate(path)
			assert.Error(t, err)
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(envConfig, "/etc/studyplan.toml")
	assert.Equal(t, "/etc/studyplan.toml", ResolveConfigPath())

	t.Setenv(envConfig, "")
	t.Setenv("XDG_CONFIG_HOME", "/home/someone/.config")
	t.Setenv("HOME", "/home/someone")
	got := ResolveConfigPath()
	assert.Equal(t, DefaultConfigFileName, filepath.Base(got))
	assert.Equal(t, appDir, filepath.Base(filepath.Dir(got)))
}
