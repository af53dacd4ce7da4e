package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkpeek/internal/config"
	"github.com/nao1215/linkpeek/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the URL analysis API over HTTP",
		Long: `Serve starts an HTTP server with the following routes:

  POST /api/expand   body {"url": "..."}; returns risk and metadata
  GET  /healthz      liveness probe
  GET  /metrics      Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.

Examples:
  # Listen on the default address (:8080)
  linkpeek serve

  # Listen on localhost only and log JSON
  linkpeek serve --listen 127.0.0.1:9000 --log-format json`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addFetchFlags(cmd)

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddress,
		"Address to listen on")
	cmd.Flags().Duration("shutdown-timeout", config.DefaultShutdownTimeout,
		"How long to wait for in-flight requests on shutdown")
	cmd.Flags().String("log-format", config.DefaultLogFormat,
		"Log format: text or json")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServe(ctx, cfg, logger)
}

// runServe builds the analyzer and serves until ctx is done.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	analyzer, err := newAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg.ListenAddress, analyzer,
		server.WithLogger(logger),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
	)

	return srv.Run(ctx)
}
