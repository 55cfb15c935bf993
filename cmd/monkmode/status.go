package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/monkmode/monkmode/client"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &clientFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print today's checklist and streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			logger := stderrLogger(cfg)

			engine, cleanup, err := newEngine(cmd.Context(), cfg, *flags, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			engine.Inspect(ctx)

			printStatus(cmd.OutOrStdout(), engine)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func printStatus(w io.Writer, e *client.Engine) {
	routines := e.Routines()
	fmt.Fprintf(w, "%s  🔥 %d days\n", e.Today(), e.Streak())
	fmt.Fprintf(w, "%d / %d completed - %d%%\n\n", e.CompletedCount(), len(routines), e.Percent())
	for _, r := range routines {
		box := "[ ]"
		if r.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "  %s %s\n", box, r.Name)
	}
	if e.Offline() {
		fmt.Fprintln(w, "\n(offline: showing defaults)")
	}
}
