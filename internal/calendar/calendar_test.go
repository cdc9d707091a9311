package calendar

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyplan/internal/store"
	"studyplan/internal/task"
)

type emptySlot struct{}

func (emptySlot) Load() ([]byte, error) { return nil, nil }
func (emptySlot) Save([]byte) error     { return nil }

func TestMonthLayout(t *testing.T) {
	today := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	g := Month(2025, time.March, time.UTC, today, nil)

	assert.Equal(t, "March 2025", g.Title)
	require.Len(t, g.Cells, 42)

	// March 1st 2025 is a Saturday, so the grid opens on Sunday Feb 23rd.
	first := g.Cells[0]
	assert.Equal(t, time.Sunday, first.Date.Weekday())
	assert.Equal(t, 23, first.Day)
	assert.False(t, first.InMonth)
	assert.True(t, g.Cells[6].InMonth)
	assert.Equal(t, 1, g.Cells[6].Day)

	var inMonth, todays int
	for _, c := range g.Cells {
		if c.InMonth {
			inMonth++
		}
		if c.Today {
			todays++
			assert.Equal(t, 10, c.Day)
		}
	}
	assert.Equal(t, 31, inMonth)
	assert.Equal(t, 1, todays)

	last := g.Cells[41]
	assert.Equal(t, time.April, last.Date.Month())
	assert.Equal(t, 5, last.Day)

	weeks := g.Weeks()
	require.Len(t, weeks, 6)
	for _, w := range weeks {
		assert.Len(t, w, 7)
	}
}

func TestMonthBucketsTasks(t *testing.T) {
	s := store.New(emptySlot{}, store.WithLocation(time.UTC), store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	for i := 0; i < 5; i++ {
		due := time.Date(2025, 3, 10, 8+i, 0, 0, 0, time.UTC)
		_, err := s.Add(task.Fields{Name: fmt.Sprintf("task %d", i), DueDate: &due})
		require.NoError(t, err)
	}
	due := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	_, err := s.Add(task.Fields{Name: "single", DueDate: &due})
	require.NoError(t, err)

	g := Month(2025, time.March, time.UTC, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), s)
	var tenth, eleventh Cell
	for _, c := range g.Cells {
		if c.InMonth && c.Day == 10 {
			tenth = c
		}
		if c.InMonth && c.Day == 11 {
			eleventh = c
		}
	}
	require.Len(t, tenth.Tasks, MaxTasksPerCell)
	assert.Equal(t, 2, tenth.More)
	assert.Equal(t, "task 0", tenth.Tasks[0].Name)
	require.Len(t, eleventh.Tasks, 1)
	assert.Equal(t, 0, eleventh.More)
}

func TestNextPrev(t *testing.T) {
	g := Month(2025, time.December, time.UTC, time.Now(), nil)
	y, m := g.Next()
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.January, m)

	g = Month(2025, time.January, time.UTC, time.Now(), nil)
	y, m = g.Prev()
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.December, m)
}
