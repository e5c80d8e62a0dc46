package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/scribe/pkg/cli"
	"mercator-hq/scribe/pkg/config"
	"mercator-hq/scribe/pkg/orchestrator"
	"mercator-hq/scribe/pkg/scoring"
	"mercator-hq/scribe/pkg/server"
	"mercator-hq/scribe/pkg/telemetry/health"
	"mercator-hq/scribe/pkg/telemetry/metrics"
	"mercator-hq/scribe/pkg/telemetry/tracing"
	"mercator-hq/scribe/pkg/usage"

	"github.com/spf13/cobra"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API with the specified configuration.

Besides the API, serve runs the usage retention scheduler, exports traces
when telemetry.tracing is enabled, and reloads scoring weights when
scoring.watch is set and the config file changes.

Examples:
  # Start with a config file
  scribe serve --config /etc/scribe/scribe.yaml

  # Override listen address
  scribe serve --listen 0.0.0.0:8080

  # Validate config and probe providers without starting the server
  scribe serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "build everything and run preflight, then exit")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}

	logger, err := setupLogging(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer shutdownTracer(tracer, logger)

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	svc, err := orchestrator.NewFromConfig(ctx, cfg,
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(collector),
		orchestrator.WithTracer(tracer),
	)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer svc.Close()

	// Seeds eligibility from real probes before traffic arrives. A blocked
	// result is logged, not fatal: requests still get fallback articles.
	report := svc.Preflight(ctx)
	logger.Info("startup preflight",
		"state", report.State,
		"eligible", report.EligibleProviders,
		"duration_ms", report.Duration.Milliseconds(),
	)
	if serveFlags.dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration valid, preflight %s\n", report.State)
		return nil
	}

	checker := health.New(cfg.Telemetry.Health.CheckTimeout, Version)
	svc.RegisterHealthChecks(checker)

	retention := usage.NewRetentionScheduler(svc.Store, usage.RetentionFromConfig(cfg.Usage))
	if err := retention.Start(ctx); err != nil {
		logger.Warn("failed to start usage retention scheduler", "error", err)
	}
	defer retention.Stop()

	if cfg.Scoring.Watch {
		if err := watchScoring(ctx, svc.Scorer(), logger); err != nil {
			logger.Warn("scoring weights will not hot reload", "error", err)
		}
	}

	srv := server.NewServer(cfg, svc,
		server.WithHealth(checker),
		server.WithMetrics(collector),
		server.WithTracer(tracer),
		server.WithLogger(logger),
	)

	fmt.Fprintf(cmd.ErrOrStderr(), "Scribe %s listening on %s\n", Version, cfg.Server.ListenAddress)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// watchScoring reloads scorer weights whenever the config file changes.
// The watcher stops with ctx.
func watchScoring(ctx context.Context, scorer *scoring.Scorer, logger *slog.Logger) error {
	if cfgFile == "" {
		return fmt.Errorf("scoring.watch needs --config")
	}
	w, err := config.NewWatcher(cfgFile, logger)
	if err != nil {
		return err
	}

	go func() {
		defer func() { _ = w.Stop() }()
		err := w.Watch(ctx, func(c *config.Config) {
			weights := scoring.WeightsFromConfig(c.Scoring)
			if err := scorer.SetWeights(weights); err != nil {
				logger.Warn("rejected scoring weights from reload", "error", err)
				return
			}
			logger.Info("scoring weights reloaded",
				"length", weights.Length,
				"keyword", weights.Keyword,
				"structure", weights.Structure,
				"links", weights.Links,
				"readability", weights.Readability,
			)
		})
		if err != nil {
			logger.Error("config watcher failed", "error", err)
		}
	}()
	return nil
}

func shutdownTracer(t *tracing.Tracer, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.Shutdown(ctx); err != nil {
		logger.Warn("failed to flush traces", "error", err)
	}
}
