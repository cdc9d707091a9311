package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"studyplan/internal/deadline"
	"studyplan/internal/output"
	"studyplan/internal/ui"
)

func main() {
	a := newApp()
	root := a.rootCmd()
	err := root.Execute()
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		if a.formatter == nil {
			a.formatter = output.NewHumanFormatter(nil)
		}
		os.Stdout.WriteString(a.formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "A terminal study planner",
		Long:          "studyplan - plan study tasks with deadlines, a month calendar and progress tracking.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.jsonOutput {
				a.formatter = output.NewJSONFormatter()
			} else {
				a.formatter = output.NewHumanFormatter(a.now)
			}
			return a.open(!cmd.HasParent())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config.toml (default $STUDYPLAN_CONFIG or the user config dir)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.showCmd(),
		a.toggleCmd(),
		a.editCmd(),
		a.rmCmd(),
		a.statsCmd(),
		a.subjectsCmd(),
		a.dayCmd(),
		a.calendarCmd(),
		a.exportCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) scanner(notify deadline.Notifier) (*deadline.Scanner, error) {
	interval, err := a.cfg.Interval()
	if err != nil {
		return nil, err
	}
	window, err := a.cfg.DueSoon()
	if err != nil {
		return nil, err
	}
	return deadline.New(a.store, notify,
		deadline.WithInterval(interval),
		deadline.WithWindow(window),
		deadline.WithClock(a.now),
		deadline.WithLogger(a.logger),
	), nil
}

func (a *app) runTUI(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	alerts := make(chan deadline.Alert, 16)
	sc, err := a.scanner(func(al deadline.Alert) {
		select {
		case alerts <- al:
		default:
			a.logger.Warn("dropping deadline alert", "task_id", al.TaskID)
		}
	})
	if err != nil {
		return err
	}
	go sc.Run(ctx) //nolint:errcheck // returns ctx.Err on shutdown

	a.logger.Info("starting tui")
	err = ui.Run(ctx, ui.Options{
		Store:     a.store,
		ThemeSlot: a.themeSlot,
		Config:    a.cfg,
		Alerts:    alerts,
		Now:       a.now,
		Logger:    a.logger,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
