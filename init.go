package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"

	"github.com/tournevent/easytrans/internal/config"
	"github.com/tournevent/easytrans/internal/telemetry"
	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/client"
	"github.com/tournevent/easytrans/pkg/easytrans/mock"
)

// loadConfig reads the environment and applies the global flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if useMock, _ := cmd.Flags().GetBool("mock"); useMock {
		cfg.UseMock = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
}

// newClient builds the EasyTrans client. In mock mode both endpoints are
// served by one in-memory backend, so imported orders can be read back.
func newClient(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer, metrics easytrans.Recorder) (*client.Client, error) {
	ccfg := cfg.ClientConfig(metrics)
	if cfg.UseMock {
		b := mock.NewBackend()
		ccfg.UseMock = false
		return client.NewWithAPIClients(ccfg, b, b, logger, tracer), nil
	}
	return client.New(ccfg, logger, tracer)
}
