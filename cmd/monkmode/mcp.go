package main

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/monkmode/monkmode/client"
	"github.com/monkmode/monkmode/mcptools"
)

// NewMCPCommand creates the mcp command.
func NewMCPCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &clientFlags{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve habit tools over MCP on stdio",
		Long: `Serve the habit tools (habit_today, habit_toggle, habit_add_routine,
habit_write_log, habit_add_rule, habit_progress) to an MCP client over
stdin/stdout. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd.Context(), rootOpts, *flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func runMCP(ctx context.Context, opts *RootOptions, flags clientFlags) error {
	cfg := opts.Config
	logger := stderrLogger(cfg)

	engine, cleanup, err := newEngine(ctx, cfg, flags, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	engine.Load(loadCtx)
	cancel()

	watcher := client.NewRolloverWatcher(engine)
	watcher.CheckInterval = cfg.RolloverInterval
	watcher.Start()
	defer watcher.Stop()

	return server.ServeStdio(mcptools.NewServer(engine, Version))
}
