package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"studyplan/internal/calendar"
	"studyplan/internal/deadline"
	"studyplan/internal/output"
	"studyplan/internal/store"
	"studyplan/internal/task"
)

func (a *app) print(cmd *cobra.Command, s string) {
	cmd.OutOrStdout().Write([]byte(s)) //nolint:errcheck,gosec // stdout write errors are unrecoverable
}

// addCmd implements 'studyplan add'.
func (a *app) addCmd() *cobra.Command {
	var subject, due, priority string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueAt, err := task.ParseDue(due, a.loc)
			if err != nil {
				return err
			}
			p, err := task.ParsePriority(priority)
			if err != nil {
				return err
			}
			t, err := a.store.Add(task.Fields{Name: args[0], Subject: subject, DueDate: dueAt, Priority: p})
			if err != nil {
				return err
			}
			a.warnPersist()
			a.print(cmd, a.formatter.FormatTask(t))
			return nil
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Subject the task belongs to")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD HH:MM or YYYY-MM-DD)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority (low, medium, high); medium when a due date is set")
	return cmd
}

// listCmd implements 'studyplan list'.
func (a *app) listCmd() *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("priority") {
				priority = a.cfg.DefaultFilter
			}
			filter, err := store.ParseFilter(priority)
			if err != nil {
				return err
			}
			a.print(cmd, a.formatter.FormatTaskList(a.store.List(filter)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "all", "Only show tasks with this priority (all, low, medium, high)")
	return cmd
}

// showCmd implements 'studyplan show'.
func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.store.Get(args[0])
			if err != nil {
				return err
			}
			a.print(cmd, a.formatter.FormatTask(t))
			return nil
		},
	}
}

// toggleCmd implements 'studyplan toggle'.
func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between completed and incomplete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.store.ToggleComplete(args[0])
			if err != nil {
				return err
			}
			a.warnPersist()
			a.print(cmd, a.formatter.FormatTask(t))
			return nil
		},
	}
}

// editCmd implements 'studyplan edit'.
func (a *app) editCmd() *cobra.Command {
	var name, subject, due, priority string
	var clearDue bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's name, subject, due date or priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch task.Patch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("subject") {
				patch.Subject = &subject
			}
			if flags.Changed("due") {
				dueAt, err := task.ParseDue(due, a.loc)
				if err != nil {
					return err
				}
				patch.DueDate = dueAt
				patch.ClearDueDate = dueAt == nil
			}
			if clearDue {
				patch.ClearDueDate = true
			}
			if flags.Changed("priority") {
				p, err := task.ParsePriority(priority)
				if err != nil {
					return err
				}
				patch.Priority = &p
			}
			if patch.IsEmpty() {
				return NothingToEditError{}
			}

			t, err := a.store.Update(args[0], patch)
			if err != nil {
				return err
			}
			a.warnPersist()
			a.print(cmd, a.formatter.FormatTask(t))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "New subject (empty clears it)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "New due date (YYYY-MM-DD HH:MM or YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority (low, medium, high)")
	return cmd
}

// rmCmd implements 'studyplan rm'.
func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.store.Get(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Remove(t.ID); err != nil {
				return err
			}
			a.warnPersist()
			a.print(cmd, a.formatter.FormatMessage(fmt.Sprintf("Deleted %s (%s)", t.ID, t.Name)))
			return nil
		},
	}
}

// statsCmd implements 'studyplan stats'.
func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.print(cmd, a.formatter.FormatStats(a.store.Stats()))
			return nil
		},
	}
}

// subjectsCmd implements 'studyplan subjects'.
func (a *app) subjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "Show progress per subject",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.print(cmd, a.formatter.FormatSubjects(a.store.SubjectBreakdown()))
			return nil
		},
	}
}

// dayCmd implements 'studyplan day'.
func (a *app) dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "List tasks due on a calendar day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := a.now().In(a.loc)
			if len(args) == 1 {
				d, err := time.ParseInLocation(task.DateLayout, args[0], a.loc)
				if err != nil {
					return InvalidDateError{Value: args[0]}
				}
				date = d
			}
			a.print(cmd, a.formatter.FormatTaskList(a.store.TasksOnDate(date)))
			return nil
		},
	}
}

// calendarCmd implements 'studyplan calendar'.
func (a *app) calendarCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month grid with the tasks due on each day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := a.now().In(a.loc)
			year, mon := now.Year(), now.Month()
			if month != "" {
				m, err := time.ParseInLocation("2006-01", month, a.loc)
				if err != nil {
					return InvalidMonthError{Value: month}
				}
				year, mon = m.Year(), m.Month()
			}
			g := calendar.Month(year, mon, a.loc, now, a.store)
			a.print(cmd, a.formatter.FormatCalendar(g))
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to show (YYYY-MM, default current)")
	return cmd
}

// exportCmd implements 'studyplan export'.
func (a *app) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task in insertion order as JSON or YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == output.FormatHuman {
				return InvalidFormatError{Value: format}
			}
			f, err := output.ForFormat(format, a.now)
			if err != nil {
				return InvalidFormatError{Value: format}
			}
			a.print(cmd, f.FormatTaskList(a.store.Snapshot()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", output.FormatJSON, "Export format (json, yaml)")
	return cmd
}

// watchCmd implements 'studyplan watch'.
func (a *app) watchCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print deadline alerts for tasks due soon until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := a.scanner(func(al deadline.Alert) {
				a.print(cmd, a.formatter.FormatMessage(al.Message))
			})
			if err != nil {
				return err
			}
			if once {
				sc.Scan(a.now())
				return nil
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := sc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Scan a single time and exit")
	return cmd
}
