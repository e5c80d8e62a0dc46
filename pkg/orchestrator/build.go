package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/scribe/pkg/config"
	"mercator-hq/scribe/pkg/costs"
	"mercator-hq/scribe/pkg/moderation"
	"mercator-hq/scribe/pkg/providerfactory"
	"mercator-hq/scribe/pkg/scoring"
	"mercator-hq/scribe/pkg/selection"
	"mercator-hq/scribe/pkg/usage"
)

// ConfigFromGeneration returns the orchestrator timing of cfg.
func ConfigFromGeneration(cfg config.GenerationConfig) Config {
	return Config{
		ProviderTimeout:         cfg.ProviderTimeout,
		RequestTimeout:          cfg.RequestTimeout,
		PreflightBeforeGenerate: cfg.PreflightBeforeGenerate,
		PreflightTimeout:        cfg.PreflightTimeout,
	}
}

// Service is an Orchestrator together with the resources it owns.
type Service struct {
	*Orchestrator
	Store usage.Store
}

// Close releases the usage store and provider connections.
func (s *Service) Close() error {
	var errs []error
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close usage store: %w", err))
		}
	}
	if err := providerfactory.Close(s.registry.All()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewFromConfig builds the full pipeline described by cfg: provider
// adapters, the ledger seeded from the usage store, and the moderation
// gate. The caller must Close the returned service.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	registry, err := providerfactory.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	store, err := usage.OpenStore(ctx, cfg.Usage)
	if err != nil {
		_ = providerfactory.Close(registry.All())
		return nil, fmt.Errorf("failed to open usage store: %w", err)
	}

	ledger := usage.NewLedgerForAdapters(registry.All(),
		usage.WithFailureThreshold(cfg.Usage.FailureThreshold),
	)

	o, err := New(Components{
		Registry: registry,
		Ledger:   ledger,
		Store:    store,
		Costs:    costs.NewCalculator(cfg.Costs.Pricing),
		Scorer:   scoring.NewScorer(scoring.WeightsFromConfig(cfg.Scoring)),
		Selector: selection.NewSelector(selection.Config{
			MinQuality:      cfg.Selection.MinQuality,
			MaxLatencyBonus: cfg.Selection.MaxLatencyBonus,
		}),
		Gate: moderation.New(&cfg.Moderation),
	}, ConfigFromGeneration(cfg.Generation), opts...)
	if err != nil {
		_ = store.Close()
		_ = providerfactory.Close(registry.All())
		return nil, err
	}

	svc := &Service{Orchestrator: o, Store: store}
	if err := o.LoadUsage(ctx); err != nil {
		// Counters start from zero; generation still works.
		o.logger.Warn("failed to restore usage", "error", err)
	}
	return svc, nil
}
