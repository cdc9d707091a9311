package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"studyplan/internal/task"
)

// formState backs the add and edit form. taskID is empty when adding.
type formState struct {
	taskID   string
	name     string
	subject  string
	due      string
	priority string
	index    int
}

func formFields() []string {
	return []string{"name", "subject", "due (YYYY-MM-DD HH:MM)", "priority (low/medium/high)"}
}

func newAddForm() *formState {
	return &formState{priority: string(task.PriorityMedium)}
}

func newEditForm(t task.Task, loc *time.Location) *formState {
	fs := &formState{
		taskID:   t.ID,
		name:     t.Name,
		subject:  t.Subject,
		priority: string(t.Priority),
	}
	if t.DueDate != nil {
		fs.due = t.DueDate.In(loc).Format(task.DueInputLayout)
	}
	return fs
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) values() []string {
	return []string{fs.name, fs.subject, fs.due, fs.priority}
}

func (fs formState) currentValue() string {
	return fs.values()[fs.index]
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case 0:
		fs.name = v
	case 1:
		fs.subject = v
	case 2:
		fs.due = v
	case 3:
		fs.priority = v
	}
}

func (m Model) startForm(fs *formState) (tea.Model, tea.Cmd) {
	m.form = fs
	m.tab = tabTasks
	m.mode = modeForm
	m.showField()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		return m.moveFormField(1), nil
	case "shift+tab", "up":
		return m.moveFormField(-1), nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		return m.moveFormField(1), nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) moveFormField(by int) Model {
	m.form.setCurrentValue(m.input.Value())
	m.form.index = wrapIndex(m.form.index+by, len(formFields()))
	m.showField()
	return m
}

// showField loads the current form field into the input with the cursor at the end.
func (m *Model) showField() {
	m.input.SetValue(m.form.currentValue())
	m.input.CursorEnd()
	m.input.Placeholder = m.form.currentLabel()
	m.status = m.formPrompt()
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	fs := m.form
	due, err := task.ParseDue(fs.due, m.store.Location())
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	priority, err := task.ParsePriority(fs.priority)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	var saved task.Task
	if fs.taskID == "" {
		saved, err = m.store.Add(task.Fields{Name: fs.name, Subject: fs.subject, DueDate: due, Priority: priority})
	} else {
		patch := task.Patch{Name: &fs.name, Subject: &fs.subject, Priority: &priority}
		if due != nil {
			patch.DueDate = due
		} else {
			patch.ClearDueDate = true
		}
		saved, err = m.store.Update(fs.taskID, patch)
	}
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	if fs.taskID == "" {
		m.status = "Task added successfully!"
	} else {
		m.status = "Task updated successfully!"
	}
	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
	m.reload()
	m.selectID(saved.ID)
	return m, nil
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	verb := "Adding task"
	if m.form.taskID != "" {
		verb = "Editing task"
	}
	return fmt.Sprintf("%s: %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		verb, m.form.currentLabel(), m.form.index+1, len(formFields()))
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	values := m.form.values()
	values[m.form.index] = m.input.Value()

	var b strings.Builder
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		fmt.Fprintf(&b, "%s %-26s : %s\n", prefix, name, emptyPlaceholder(values[i]))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}
