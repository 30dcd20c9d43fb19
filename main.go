package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tournevent/easytrans/internal/server"
	"github.com/tournevent/easytrans/internal/telemetry"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "easytrans",
	Short:   "EasyTrans TMS client - imports, REST queries and webhook receiver",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook receiver",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().Bool("mock", false, "use the in-memory backend instead of EasyTrans")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer func() { _ = tracerShutdown(context.Background()) }()
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	api, err := newClient(cfg, logger, tracer, metrics)
	if err != nil {
		return err
	}
	defer api.Close()

	logger.Info("Starting EasyTrans webhook receiver",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Bool("fetch_order", cfg.WebhookFetchOrder),
		zap.Bool("mock", cfg.UseMock),
	)
	if cfg.WebhookAPIKey == "" {
		logger.Warn("WEBHOOK_API_KEY is not set, accepting unauthenticated webhooks")
	}

	// Start HTTP server
	srv := server.New(server.Config{
		Port:          cfg.Port,
		WebhookAPIKey: cfg.WebhookAPIKey,
		FetchOrder:    cfg.WebhookFetchOrder,
	}, api, logger, metrics)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
