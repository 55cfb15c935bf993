package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/monkmode/monkmode/client"
	"github.com/monkmode/monkmode/config"
	"github.com/monkmode/monkmode/habit"
	"github.com/monkmode/monkmode/habit/store"
	"github.com/monkmode/monkmode/store/mongo"
	"github.com/monkmode/monkmode/store/sqlite"
)

// RootOptions holds global flags and the config they resolve to.
type RootOptions struct {
	ConfigPath string
	LogLevel   string

	Config config.Config
}

// NewRootCommand creates the root command for the MonkMode CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "monkmode",
		Short:         "MonkMode - personal discipline tracker",
		Long:          "Track a daily routine checklist, keep a journal and collect your own rules.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = opts.LogLevel
			}
			opts.Config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewMCPCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// openStore opens the configured document store.
func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (habit.DocumentStore, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using the in-memory store; data is lost on exit")
		return store.NewMemory(), nil
	case config.StoreSQLite:
		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("sqlite store ready", "path", cfg.DBPath)
		return s, nil
	case config.StoreMongo:
		s, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// clientFlags selects where a client command reads and writes the document.
type clientFlags struct {
	APIURL string
	Local  bool
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.APIURL, "api", "", "sync API base URL (default from config)")
	cmd.Flags().BoolVar(&f.Local, "local", false, "use the configured store directly instead of the sync API")
}

// newEngine builds a client engine and returns a cleanup func that is
// always safe to call.
func newEngine(ctx context.Context, cfg config.Config, f clientFlags, logger *log.Logger) (*client.Engine, func(), error) {
	if f.Local {
		s, err := openStore(ctx, cfg, logger)
		if err != nil {
			return nil, func() {}, err
		}
		return client.NewEngine(client.NewLocal(s), logger), func() { _ = s.Close() }, nil
	}

	url := cfg.APIURL
	if f.APIURL != "" {
		url = f.APIURL
	}
	logger.Debug("using sync API", "url", url)
	return client.NewEngine(client.NewHTTPClient(url), logger), func() {}, nil
}

// stderrLogger is the logger for commands that own stdout.
func stderrLogger(cfg config.Config) *log.Logger {
	return cfg.NewLogger(os.Stderr, "monkmode")
}

// fileLogger writes to cfg.LogFile, or nowhere when it is empty.
func fileLogger(cfg config.Config) (*log.Logger, func(), error) {
	if cfg.LogFile == "" {
		return cfg.NewLogger(io.Discard, "monkmode"), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open log file: %w", err)
	}
	return cfg.NewLogger(f, "monkmode"), func() { _ = f.Close() }, nil
}

// NewVersionCommand prints the build version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading: version must work with a broken config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "monkmode %s\n", Version)
		},
	}
}
