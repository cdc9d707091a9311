package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"studyplan/internal/calendar"
	"studyplan/internal/store"
	"studyplan/internal/task"
)

const (
	dueLayout = "Jan 2, 2006 3:04 PM"
	barWidth  = 20
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	now func() time.Time
}

// NewHumanFormatter creates a new HumanFormatter. A nil now uses time.Now.
func NewHumanFormatter(now func() time.Time) *HumanFormatter {
	if now == nil {
		now = time.Now
	}
	return &HumanFormatter{now: now}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t task.Task) string {
	now := f.now()
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s\n", t.ID, t.Name)
	if t.Subject != "" {
		fmt.Fprintf(&sb, "  Subject:   %s\n", t.Subject)
	}
	if t.Priority != "" {
		fmt.Fprintf(&sb, "  Priority:  %s\n", t.Priority)
	}
	if t.DueDate != nil {
		fmt.Fprintf(&sb, "  Due:       %s", t.DueDate.Format(dueLayout))
		if !t.Completed {
			fmt.Fprintf(&sb, " (%s)", task.DueLabel(*t.DueDate, now))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  Added:     %s\n", humanize.RelTime(t.CreatedAt, now, "ago", "from now"))
	if t.CompletedAt != nil {
		fmt.Fprintf(&sb, "  Finished:  %s\n", humanize.RelTime(*t.CompletedAt, now, "ago", "from now"))
	}
	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	now := f.now()
	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t, now))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t task.Task, now time.Time) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	parts := []string{fmt.Sprintf("%s %s %s", check, t.ID, t.Name)}
	if t.Subject != "" {
		parts[0] += fmt.Sprintf(" (%s)", t.Subject)
	}
	if t.DueDate != nil {
		due := "due " + t.DueDate.Format(dueLayout)
		if !t.Completed {
			due += ", " + task.DueLabel(*t.DueDate, now)
		}
		parts = append(parts, due)
	}
	if t.Priority != "" {
		parts = append(parts, string(t.Priority))
	}
	return strings.Join(parts, " | ") + "\n"
}

func (f *HumanFormatter) FormatStats(s store.Stats) string {
	filled := s.CompletionRatePercent * barWidth / 100
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total:      %d\n", s.Total)
	fmt.Fprintf(&sb, "Completed:  %d\n", s.Completed)
	fmt.Fprintf(&sb, "Progress:   [%s] %d%%\n", bar, s.CompletionRatePercent)
	return sb.String()
}

func (f *HumanFormatter) FormatSubjects(breakdown map[string]store.SubjectStats) string {
	if len(breakdown) == 0 {
		return "No subjects yet.\n"
	}
	labels := store.SubjectLabels(breakdown)
	width := 0
	for _, l := range labels {
		width = max(width, len(l))
	}

	var sb strings.Builder
	for _, l := range labels {
		s := breakdown[l]
		fmt.Fprintf(&sb, "%-*s  %d/%d (%d%%)\n", width, l, s.Completed, s.Total, s.Percent())
	}
	return sb.String()
}

// FormatCalendar draws the month grid. Today is marked with '*', days with
// tasks with '+'. Days outside the month are left blank.
func (f *HumanFormatter) FormatCalendar(g calendar.Grid) string {
	var sb strings.Builder
	sb.WriteString(g.Title + "\n")
	sb.WriteString(strings.Join(calendar.Weekdays, " ") + "\n")

	var busy []calendar.Cell
	for _, week := range g.Weeks() {
		var row strings.Builder
		for _, c := range week {
			if !c.InMonth {
				row.WriteString("    ")
				continue
			}
			mark := ' '
			switch {
			case c.Today:
				mark = '*'
			case len(c.Tasks) > 0:
				mark = '+'
			}
			fmt.Fprintf(&row, "%3d%c", c.Day, mark)
			if len(c.Tasks) > 0 {
				busy = append(busy, c)
			}
		}
		sb.WriteString(strings.TrimRight(row.String(), " ") + "\n")
	}

	if len(busy) > 0 {
		sb.WriteString("\n")
	}
	for _, c := range busy {
		names := make([]string, len(c.Tasks))
		for i, t := range c.Tasks {
			names[i] = t.Name
		}
		line := c.Date.Format("Jan 2") + ": " + strings.Join(names, ", ")
		if c.More > 0 {
			line += fmt.Sprintf(" (+%d more)", c.More)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
