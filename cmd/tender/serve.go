package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cloudx-io/opentender/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the evaluation server",
	Long: `Run the evaluation server.

The server accepts one JSON request per connection over TCP or vsock and
answers with one JSON response. Request types:
  ping                 - health check, answered with pong
  sme_request          - SME preference evaluation
  national_request     - national product preference evaluation
  high_value_request   - high-value project evaluation

When metrics are enabled an HTTP listener serves /metrics and /healthz.
The server stops gracefully on SIGINT or SIGTERM.

Examples:
  tender serve --config config.yaml
  TENDER_SERVER_TRANSPORT=vsock tender serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := server.NewLogger(cfg.Log)
	if err != nil {
		return invalid("%w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("tender evaluation server starting",
		zap.String("version", Version),
		zap.String("config", cfgFile))

	var opts []server.Option
	var metrics *server.Metrics
	if cfg.Metrics.Enabled {
		metrics = server.NewMetrics()
		opts = append(opts, server.WithMetrics(metrics))
	}

	srv, err := server.New(cfg, logger, opts...)
	if err != nil {
		return invalid("%w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	if metrics != nil {
		g.Go(func() error {
			return server.ServeMetrics(ctx, cfg.Metrics.ListenAddress, metrics, logger)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped with error", zap.Error(err))
		return invalid("%w", err)
	}
	return nil
}
