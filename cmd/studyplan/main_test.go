package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// run executes one CLI invocation against the config in dir, the way a
// separate process would.
func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	a := newApp()
	a.now = func() time.Time { return fixedNow }
	a.loc = time.UTC
	var stderr bytes.Buffer
	a.stderr = &stderr

	root := a.rootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))
	err := root.Execute()
	require.NoError(t, a.close())
	return stdout.String(), stderr.String(), err
}

func addTask(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, _, err := run(t, dir, append([]string{"--json", "add"}, args...)...)
	require.NoError(t, err)
	var doc struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.NotEmpty(t, doc.ID)
	return doc.ID
}

func TestCLILifecycle(t *testing.T) {
	dir := t.TempDir()

	essay := addTask(t, dir, "Write essay", "--subject", "English", "--due", "2025-03-11 09:00", "--priority", "high")
	reading := addTask(t, dir, "Read chapter 4", "--subject", "Biology", "--due", "2025-03-14")
	addTask(t, dir, "buy notebook")

	assert.FileExists(t, filepath.Join(dir, "config.toml"))
	assert.FileExists(t, filepath.Join(dir, "planner.db"))

	out, _, err := run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Write essay (English) | due Mar 11, 2025 9:00 AM, 21 hours | high")
	assert.Contains(t, out, "Read chapter 4 (Biology) | due Mar 14, 2025 11:59 PM, 4 days | medium")

	out, _, err = run(t, dir, "list", "--priority", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Write essay")
	assert.NotContains(t, out, "Read chapter 4")

	_, _, err = run(t, dir, "toggle", essay)
	require.NoError(t, err)

	out, _, err = run(t, dir, "--json", "stats")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":3,"completed":1,"completion_rate":33}`, out)

	out, _, err = run(t, dir, "subjects")
	require.NoError(t, err)
	assert.Equal(t, "Biology     0/1 (0%)\nEnglish     1/1 (100%)\nNo Subject  0/1 (0%)\n", out)

	out, _, err = run(t, dir, "day", "2025-03-14")
	require.NoError(t, err)
	assert.Contains(t, out, reading)
	assert.NotContains(t, out, essay)

	out, _, err = run(t, dir, "calendar", "--month", "2025-03")
	require.NoError(t, err)
	assert.Contains(t, out, "March 2025")
	assert.Contains(t, out, "Mar 14: Read chapter 4")

	_, _, err = run(t, dir, "edit", reading, "--clear-due", "--subject", "Chemistry")
	require.NoError(t, err)
	out, _, err = run(t, dir, "show", reading)
	require.NoError(t, err)
	assert.Contains(t, out, "Subject:   Chemistry")
	assert.NotContains(t, out, "Due:")

	out, _, err = run(t, dir, "export", "--format", "yaml")
	require.NoError(t, err)
	var exported []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &exported))
	require.Len(t, exported, 3)
	assert.Equal(t, "Write essay", exported[0]["name"], "export keeps insertion order")
	assert.Equal(t, true, exported[0]["completed"])

	out, _, err = run(t, dir, "rm", essay)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+essay)

	_, _, err = run(t, dir, "rm", essay)
	assert.EqualError(t, err, "task not found: "+essay)
}

func TestCLIErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, dir, "add", "   ")
	assert.EqualError(t, err, "invalid name: cannot be empty")

	_, _, err = run(t, dir, "add", "quiz", "--priority", "urgent")
	assert.EqualError(t, err, "invalid priority: must be low, medium or high")

	_, _, err = run(t, dir, "add", "quiz", "--due", "tomorrow")
	assert.Error(t, err)

	_, _, err = run(t, dir, "day", "14/03/2025")
	assert.ErrorAs(t, err, &InvalidDateError{})

	_, _, err = run(t, dir, "calendar", "--month", "March")
	assert.ErrorAs(t, err, &InvalidMonthError{})

	_, _, err = run(t, dir, "export", "--format", "human")
	assert.ErrorAs(t, err, &InvalidFormatError{})

	id := addTask(t, dir, "quiz")
	_, _, err = run(t, dir, "edit", id)
	assert.ErrorAs(t, err, &NothingToEditError{})
}

func TestCLIFileStorage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("storage = \"file\"\nslot_file = \"data/tasks.json\"\n"), 0o644))

	addTask(t, dir, "Read chapter 4")

	data, err := os.ReadFile(filepath.Join(dir, "data", "tasks.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"Read chapter 4"`)
	assert.NoFileExists(t, filepath.Join(dir, "planner.db"))
}

func TestCLIWatchOnce(t *testing.T) {
	dir := t.TempDir()
	addTask(t, dir, "Lab report", "--due", "2025-03-10 15:00")
	addTask(t, dir, "Project", "--due", "2025-03-20 15:00")

	out, _, err := run(t, dir, "watch", "--once")
	require.NoError(t, err)
	assert.Equal(t, "Task \"Lab report\" is due in 3 hours\n", out)
}

func TestCLIWarnsWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	slotDir := filepath.Join(dir, "ro")
	require.NoError(t, os.MkdirAll(slotDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("storage = \"file\"\nslot_file = \"ro/tasks.json\"\n"), 0o644))
	require.NoError(t, os.Chmod(slotDir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(slotDir, 0o755) })
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	out, stderr, err := run(t, dir, "add", "quiz")
	require.NoError(t, err, "write failures do not fail the command")
	assert.Contains(t, out, "quiz")
	assert.Contains(t, stderr, "warning: could not save tasks")
}
