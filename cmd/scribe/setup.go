package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"mercator-hq/scribe/pkg/cli"
	"mercator-hq/scribe/pkg/config"
	"mercator-hq/scribe/pkg/orchestrator"
	"mercator-hq/scribe/pkg/telemetry/logging"
)

// loadConfig reads --config with SCRIBE_* overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// setupLogging installs the configured logger, writing to w.
func setupLogging(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	lc := logging.FromConfig(cfg.Telemetry.Logging)
	lc.Writer = w
	logger, err := logging.Setup(lc)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}

// openService loads configuration and builds the orchestrator for a
// one-shot command. The caller must Close the service.
func openService(ctx context.Context, stderr io.Writer, opts ...orchestrator.Option) (*config.Config, *orchestrator.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := setupLogging(cfg, stderr)
	if err != nil {
		return nil, nil, err
	}

	svc, err := orchestrator.NewFromConfig(ctx, cfg, append([]orchestrator.Option{orchestrator.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return cfg, svc, nil
}
