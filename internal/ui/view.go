package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"studyplan/internal/calendar"
	"studyplan/internal/config"
	"studyplan/internal/store"
	"studyplan/internal/task"
)

const (
	calendarCellWidth  = 14
	calendarCellHeight = 5
	dueDisplayLayout   = "Jan 2, 2006 3:04 PM"
	progressBarWidth   = 30
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	if m.alert != "" {
		b.WriteString(m.styles.alert.Render(m.alert))
		b.WriteString("\n\n")
	}

	switch m.tab {
	case tabTasks:
		b.WriteString(m.renderTasksTab())
	case tabCalendar:
		b.WriteString(m.renderCalendarTab())
	case tabProgress:
		b.WriteString(m.renderProgressTab())
	}

	b.WriteString("\n---\n")
	if m.form != nil {
		b.WriteString(m.renderForm())
		b.WriteString("\n\n")
	}
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(renderHelp(m.cfg.Keys, m.tab)))

	return b.String()
}

func (m Model) renderHeader() string {
	tabs := []struct {
		key, label string
		t          tab
	}{
		{m.cfg.Keys.TabTasks, "Tasks", tabTasks},
		{m.cfg.Keys.TabCalendar, "Calendar", tabCalendar},
		{m.cfg.Keys.TabProgress, "Progress", tabProgress},
	}
	parts := []string{m.styles.title.Render("Study Planner")}
	for _, t := range tabs {
		label := t.key + " " + t.label
		if t.t == m.tab {
			parts = append(parts, m.styles.activeTab.Render(label))
		} else {
			parts = append(parts, m.styles.tab.Render(label))
		}
	}
	parts = append(parts, m.styles.muted.Render(" "+string(m.theme)))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderHelp(k config.Keymap, t tab) string {
	common := fmt.Sprintf("%s add • %s theme • %s/%s/%s tabs • %s quit",
		k.Add, k.Theme, k.TabTasks, k.TabCalendar, k.TabProgress, k.Quit)
	switch t {
	case tabTasks:
		return fmt.Sprintf("%s/%s move • space toggle • %s delete • %s edit • %s filter • ",
			k.Up, k.Down, k.Delete, k.Edit, k.Filter) + common
	case tabCalendar:
		return fmt.Sprintf("%s/%s month • ", k.PrevMonth, k.NextMonth) + common
	default:
		return common
	}
}

func (m Model) renderTasksTab() string {
	var b strings.Builder
	b.WriteString(m.styles.muted.Render("Filter: " + m.filter.String()))
	b.WriteString("\n\n")

	switch {
	case len(m.tasks) == 0 && m.filter.Priority == "":
		b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
		return b.String()
	case len(m.tasks) == 0:
		b.WriteString("No tasks match the filter.")
		return b.String()
	}

	b.WriteString(m.renderTaskList())
	b.WriteString("\n")
	b.WriteString(m.renderDetailPanel())
	return b.String()
}

func (m Model) renderTaskList() string {
	now := m.now()
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		name := t.Name
		if t.Completed {
			checkbox = "[x]"
			name = m.styles.done.Render(name)
		} else if m.cursor == i {
			name = m.styles.selected.Render(name)
		}

		line := fmt.Sprintf("%s %s %s", cursor, checkbox, name)
		if t.Subject != "" {
			line += m.styles.muted.Render(" · " + t.Subject)
		}
		if t.Priority != "" {
			line += " " + m.styles.priority[t.Priority].Render(string(t.Priority))
		}
		if t.DueDate != nil && !t.Completed {
			u := m.store.DueSoonOrOverdue(t, now)
			line += " " + m.styles.urgencyStyle(u).Render(task.DueLabel(*t.DueDate, now))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDetailPanel() string {
	t := m.tasks[clampCursor(m.cursor, len(m.tasks))]
	now := m.now()
	loc := m.store.Location()

	due := "(none)"
	if t.DueDate != nil {
		due = t.DueDate.In(loc).Format(dueDisplayLayout)
	}
	finished := "pending"
	if t.CompletedAt != nil {
		finished = humanize.RelTime(*t.CompletedAt, now, "ago", "from now")
	}

	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(fmt.Sprintf("Name      : %s\n", t.Name))
	b.WriteString(fmt.Sprintf("Subject   : %s\n", emptyPlaceholder(t.Subject)))
	b.WriteString(fmt.Sprintf("Priority  : %s\n", emptyPlaceholder(string(t.Priority))))
	b.WriteString(fmt.Sprintf("Due       : %s\n", due))
	b.WriteString(fmt.Sprintf("Added     : %s\n", humanize.RelTime(t.CreatedAt, now, "ago", "from now")))
	b.WriteString(fmt.Sprintf("Completed : %s\n", finished))
	return b.String()
}

func (m Model) grid() calendar.Grid {
	return calendar.Month(m.year, m.month, m.store.Location(), m.now(), m.store)
}

func (m Model) renderCalendarTab() string {
	g := m.grid()

	var b strings.Builder
	b.WriteString(m.styles.title.Render(g.Title))
	b.WriteString("\n")

	header := make([]string, len(calendar.Weekdays))
	for i, d := range calendar.Weekdays {
		header[i] = m.styles.muted.Width(calendarCellWidth).Render(d)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for _, week := range g.Weeks() {
		row := make([]string, len(week))
		for i, c := range week {
			row[i] = m.renderCell(c)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCell(c calendar.Cell) string {
	style := m.styles.cell
	switch {
	case c.Today:
		style = m.styles.todayCell
	case !c.InMonth:
		style = m.styles.outCell
	}

	lines := []string{fmt.Sprintf("%2d", c.Day)}
	for _, t := range c.Tasks {
		name := truncate(t.Name, calendarCellWidth-2)
		if ps, ok := m.styles.priority[t.Priority]; ok {
			name = ps.Render(name)
		}
		lines = append(lines, name)
	}
	if c.More > 0 {
		lines = append(lines, m.styles.muted.Render(fmt.Sprintf("+%d more", c.More)))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderProgressTab() string {
	stats := m.store.Stats()
	breakdown := m.store.SubjectBreakdown()

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Progress"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Total tasks     : %d\n", stats.Total))
	b.WriteString(fmt.Sprintf("Completed       : %d\n", stats.Completed))
	b.WriteString(fmt.Sprintf("Completion rate : %d%%\n", stats.CompletionRatePercent))
	b.WriteString(m.styles.bar(stats.CompletionRatePercent, progressBarWidth))
	b.WriteString(fmt.Sprintf(" %d%%\n\n", stats.CompletionRatePercent))

	b.WriteString(m.styles.title.Render("By subject"))
	b.WriteString("\n")
	if len(breakdown) == 0 {
		b.WriteString("No subjects yet\n")
		b.WriteString(m.styles.muted.Render("Add tasks to see subject breakdown"))
		return b.String()
	}

	labels := store.SubjectLabels(breakdown)
	width := 0
	for _, l := range labels {
		width = max(width, lipgloss.Width(l)+2)
	}
	for _, l := range labels {
		b.WriteString(m.styles.subjectLine(l, breakdown[l], width))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
