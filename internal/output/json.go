package output

import (
	"encoding/json"

	"studyplan/internal/calendar"
	"studyplan/internal/store"
	"studyplan/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) FormatTask(t task.Task) string {
	return marshalJSON(toTaskDoc(t))
}

func (f *JSONFormatter) FormatTaskList(tasks []task.Task) string {
	return marshalJSON(toTaskDocs(tasks))
}

func (f *JSONFormatter) FormatStats(s store.Stats) string {
	return marshalJSON(toStatsDoc(s))
}

func (f *JSONFormatter) FormatSubjects(breakdown map[string]store.SubjectStats) string {
	return marshalJSON(toSubjectDocs(breakdown))
}

func (f *JSONFormatter) FormatCalendar(g calendar.Grid) string {
	return marshalJSON(toCalendarDoc(g))
}

func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorDoc{Error: err.Error()})
}

func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageDoc{Message: msg})
}
