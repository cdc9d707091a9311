package output

import (
	"gopkg.in/yaml.v3"

	"studyplan/internal/calendar"
	"studyplan/internal/store"
	"studyplan/internal/task"
)

// YAMLFormatter formats output as YAML documents, used by export.
type YAMLFormatter struct{}

func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

func marshalYAML(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "error: " + err.Error() + "\n"
	}
	return string(data)
}

func (f *YAMLFormatter) FormatTask(t task.Task) string {
	return marshalYAML(toTaskDoc(t))
}

func (f *YAMLFormatter) FormatTaskList(tasks []task.Task) string {
	return marshalYAML(toTaskDocs(tasks))
}

func (f *YAMLFormatter) FormatStats(s store.Stats) string {
	return marshalYAML(toStatsDoc(s))
}

func (f *YAMLFormatter) FormatSubjects(breakdown map[string]store.SubjectStats) string {
	return marshalYAML(toSubjectDocs(breakdown))
}

func (f *YAMLFormatter) FormatCalendar(g calendar.Grid) string {
	return marshalYAML(toCalendarDoc(g))
}

func (f *YAMLFormatter) FormatError(err error) string {
	return marshalYAML(errorDoc{Error: err.Error()})
}

func (f *YAMLFormatter) FormatMessage(msg string) string {
	return marshalYAML(messageDoc{Message: msg})
}
