package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/monkmode/monkmode/api"
)

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 30 * time.Second

type serveFlags struct {
	Addr  string
	Store string
	DB    string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP sync API",
		Long: `Run the HTTP sync API over the configured document store.

Routes: GET /, GET /data, POST /save, POST /save-log, POST /add-rule.
Stops on SIGINT/SIGTERM after in-flight requests finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if cmd.Flags().Changed("addr") {
				cfg.Addr = flags.Addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Store = flags.Store
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = flags.DB
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			rootOpts.Config = cfg
			return runServe(cmd.Context(), rootOpts)
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", "", "listen address (default from config, :5000)")
	cmd.Flags().StringVar(&flags.Store, "store", "", "document store: memory | sqlite | mongo")
	cmd.Flags().StringVar(&flags.DB, "db", "", "SQLite database path; \":memory:\" for a throwaway database")

	return cmd
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg := opts.Config
	logger := stderrLogger(cfg)

	s, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	handler := api.NewHandler(s, logger)
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("🚀 server starting", "addr", cfg.Addr, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		return err
	case <-quit:
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
