package output

import (
	"fmt"
	"time"

	"studyplan/internal/calendar"
	"studyplan/internal/store"
	"studyplan/internal/task"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t task.Task) string
	FormatTaskList(tasks []task.Task) string
	FormatStats(s store.Stats) string
	FormatSubjects(breakdown map[string]store.SubjectStats) string
	FormatCalendar(g calendar.Grid) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ForFormat returns the formatter registered under name. now feeds the
// relative labels of the human formatter.
func ForFormat(name string, now func() time.Time) (Formatter, error) {
	switch name {
	case "", FormatHuman:
		return NewHumanFormatter(now), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want human, json or yaml)", name)
	}
}
