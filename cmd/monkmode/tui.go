package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/monkmode/monkmode/client"
	"github.com/monkmode/monkmode/tui"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	flags := &clientFlags{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal client",
		Long: `Open the terminal client: Today's checklist, the daily Log with rules,
and Progress charts. Edits are saved immediately; journal text is saved
after you pause typing. Logs go to log_file when configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(rootOpts, *flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func runTUI(opts *RootOptions, flags clientFlags) error {
	cfg := opts.Config

	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, cleanup, err := newEngine(context.Background(), cfg, flags, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	p := tea.NewProgram(tui.New(engine, cfg.Debounce))

	watcher := client.NewRolloverWatcher(engine)
	watcher.CheckInterval = cfg.RolloverInterval
	watcher.OnRollover = func() { p.Send(tui.RolloverMsg{}) }

	// Checks before the model's Init has loaded the engine are no-ops.
	watcher.Start()
	defer watcher.Stop()

	_, err = p.Run()
	return err
}
