package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"studyplan/internal/store"
	"studyplan/internal/task"
)

type theme string

const (
	themeLight theme = "light"
	themeDark  theme = "dark"
)

func parseTheme(v string) theme {
	if strings.TrimSpace(strings.ToLower(v)) == string(themeDark) {
		return themeDark
	}
	return themeLight
}

func (t theme) other() theme {
	if t == themeDark {
		return themeLight
	}
	return themeDark
}

type styles struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	muted     lipgloss.Style
	selected  lipgloss.Style
	done      lipgloss.Style
	dueSoon   lipgloss.Style
	overdue   lipgloss.Style
	alert     lipgloss.Style
	warn      lipgloss.Style
	barFill   lipgloss.Style
	barEmpty  lipgloss.Style
	cell      lipgloss.Style
	todayCell lipgloss.Style
	outCell   lipgloss.Style
	priority  map[task.Priority]lipgloss.Style
}

func newStyles(t theme) styles {
	accent, text, muted, surface := lipgloss.Color("62"), lipgloss.Color("235"), lipgloss.Color("245"), lipgloss.Color("254")
	if t == themeDark {
		accent, text, muted, surface = lipgloss.Color("141"), lipgloss.Color("252"), lipgloss.Color("243"), lipgloss.Color("236")
	}
	warnColor, dangerColor, okColor := lipgloss.Color("214"), lipgloss.Color("203"), lipgloss.Color("78")

	cell := lipgloss.NewStyle().Width(calendarCellWidth).Height(calendarCellHeight).Foreground(text)
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
		activeTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(surface).Background(accent),
		muted:     lipgloss.NewStyle().Foreground(muted),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		done:      lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
		dueSoon:   lipgloss.NewStyle().Foreground(warnColor),
		overdue:   lipgloss.NewStyle().Bold(true).Foreground(dangerColor),
		alert:     lipgloss.NewStyle().Bold(true).Foreground(surface).Background(warnColor).Padding(0, 1),
		warn:      lipgloss.NewStyle().Foreground(dangerColor),
		barFill:   lipgloss.NewStyle().Foreground(okColor),
		barEmpty:  lipgloss.NewStyle().Foreground(muted),
		cell:      cell,
		todayCell: cell.Bold(true).Foreground(accent),
		outCell:   cell.Foreground(muted).Faint(true),
		priority: map[task.Priority]lipgloss.Style{
			"high":   lipgloss.NewStyle().Foreground(dangerColor),
			"medium": lipgloss.NewStyle().Foreground(warnColor),
			"low":    lipgloss.NewStyle().Foreground(okColor),
		},
	}
}

// urgencyStyle picks the due label style for a classified task.
func (s styles) urgencyStyle(u task.Urgency) lipgloss.Style {
	switch u {
	case task.Overdue:
		return s.overdue
	case task.DueSoon:
		return s.dueSoon
	default:
		return s.muted
	}
}

func (s styles) bar(percent, width int) string {
	filled := percent * width / 100
	return s.barFill.Render(strings.Repeat("█", filled)) + s.barEmpty.Render(strings.Repeat("░", width-filled))
}

func (s styles) subjectLine(label string, st store.SubjectStats, width int) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(width).Render(label),
		s.bar(st.Percent(), 10),
		s.muted.Render(fmt.Sprintf(" %d/%d completed ", st.Completed, st.Total)),
		s.selected.Render(fmt.Sprintf("%d%%", st.Percent())),
	)
}
