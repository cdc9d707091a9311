package output

import (
	"time"

	"studyplan/internal/calendar"
	"studyplan/internal/store"
	"studyplan/internal/task"
)

// The document types are shared by the JSON and YAML formatters.

type taskDoc struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Subject     string  `json:"subject,omitempty" yaml:"subject,omitempty"`
	DueDate     *string `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Priority    string  `json:"priority,omitempty" yaml:"priority,omitempty"`
	Completed   bool    `json:"completed" yaml:"completed"`
	CreatedAt   string  `json:"created_at" yaml:"created_at"`
	CompletedAt *string `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

func toTaskDoc(t task.Task) taskDoc {
	d := taskDoc{
		ID:        t.ID,
		Name:      t.Name,
		Subject:   t.Subject,
		Priority:  string(t.Priority),
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		s := t.DueDate.Format(time.RFC3339)
		d.DueDate = &s
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.Format(time.RFC3339)
		d.CompletedAt = &s
	}
	return d
}

func toTaskDocs(tasks []task.Task) []taskDoc {
	docs := make([]taskDoc, len(tasks))
	for i, t := range tasks {
		docs[i] = toTaskDoc(t)
	}
	return docs
}

type statsDoc struct {
	Total          int `json:"total" yaml:"total"`
	Completed      int `json:"completed" yaml:"completed"`
	CompletionRate int `json:"completion_rate" yaml:"completion_rate"`
}

func toStatsDoc(s store.Stats) statsDoc {
	return statsDoc{Total: s.Total, Completed: s.Completed, CompletionRate: s.CompletionRatePercent}
}

type subjectDoc struct {
	Subject   string `json:"subject" yaml:"subject"`
	Total     int    `json:"total" yaml:"total"`
	Completed int    `json:"completed" yaml:"completed"`
	Percent   int    `json:"percent" yaml:"percent"`
}

func toSubjectDocs(breakdown map[string]store.SubjectStats) []subjectDoc {
	labels := store.SubjectLabels(breakdown)
	docs := make([]subjectDoc, 0, len(labels))
	for _, l := range labels {
		s := breakdown[l]
		docs = append(docs, subjectDoc{Subject: l, Total: s.Total, Completed: s.Completed, Percent: s.Percent()})
	}
	return docs
}

type dayDoc struct {
	Date    string   `json:"date" yaml:"date"`
	InMonth bool     `json:"in_month" yaml:"in_month"`
	Today   bool     `json:"today,omitempty" yaml:"today,omitempty"`
	Tasks   []string `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	More    int      `json:"more,omitempty" yaml:"more,omitempty"`
}

type calendarDoc struct {
	Title string     `json:"title" yaml:"title"`
	Weeks [][]dayDoc `json:"weeks" yaml:"weeks"`
}

func toCalendarDoc(g calendar.Grid) calendarDoc {
	doc := calendarDoc{Title: g.Title}
	for _, week := range g.Weeks() {
		row := make([]dayDoc, len(week))
		for i, c := range week {
			d := dayDoc{Date: c.Date.Format("2006-01-02"), InMonth: c.InMonth, Today: c.Today, More: c.More}
			for _, t := range c.Tasks {
				d.Tasks = append(d.Tasks, t.Name)
			}
			row[i] = d
		}
		doc.Weeks = append(doc.Weeks, row)
	}
	return doc
}

type errorDoc struct {
	Error string `json:"error" yaml:"error"`
}

type messageDoc struct {
	Message string `json:"message" yaml:"message"`
}
