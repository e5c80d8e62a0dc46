package dispatch

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/scribe/pkg/content"
	"mercator-hq/scribe/pkg/costs"
	"mercator-hq/scribe/pkg/providers"
	"mercator-hq/scribe/pkg/telemetry/metrics"
	"mercator-hq/scribe/pkg/telemetry/tracing"
	"mercator-hq/scribe/pkg/usage"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Config bounds the fan-out.
type Config struct {
	// ProviderTimeout bounds each provider call.
	// Default: providers.DefaultTimeout
	ProviderTimeout time.Duration

	// Deadline bounds the whole batch. Calls still running when it fires
	// are recorded as timeouts. Zero means no batch deadline beyond the
	// caller's context.
	Deadline time.Duration
}

// Dispatcher fans one request out to every eligible provider.
type Dispatcher struct {
	registry *providers.Registry
	ledger   *usage.Ledger
	costs    *costs.Calculator
	config   Config
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics records provider calls on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithTracer starts dispatch.batch and provider.generate spans on t.
func WithTracer(t *tracing.Tracer) Option {
	return func(d *Dispatcher) { d.tracer = t }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// New creates a Dispatcher. A nil calculator prices calls from the
// descriptors alone.
func New(registry *providers.Registry, ledger *usage.Ledger, calc *costs.Calculator, cfg Config, opts ...Option) *Dispatcher {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = providers.DefaultTimeout
	}
	if calc == nil {
		calc = costs.NewCalculator(nil)
	}
	d := &Dispatcher{
		registry: registry,
		ledger:   ledger,
		costs:    calc,
		config:   cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "dispatch")
	return d
}

// Eligible returns the adapters the ledger allows right now, in name
// order.
func (d *Dispatcher) Eligible() []providers.Adapter {
	var out []providers.Adapter
	for _, a := range d.registry.All() {
		if d.ledger.IsEligible(a.Name()) {
			out = append(out, a)
		}
	}
	return out
}

// Dispatch calls every eligible provider concurrently and waits for all
// of them. Provider i receives prompts[i % len(prompts)].
//
// The returned outcomes are in provider name order regardless of which
// call finished first. The ledger is updated for every dispatched
// provider after the join. When nothing is eligible, or every call
// failed, the error is an *AllProvidersFailedError; in the second case
// the failed outcomes are returned alongside it.
func (d *Dispatcher) Dispatch(ctx context.Context, req content.Request, prompts []providers.Prompt) ([]providers.Outcome, error) {
	ctx, span := d.tracer.Start(ctx, "dispatch.batch")
	defer span.End()

	eligible := d.Eligible()
	names := make([]string, len(eligible))
	for i, a := range eligible {
		names[i] = a.Name()
	}
	span.SetAttributes(
		attribute.StringSlice(tracing.AttrProviders, names),
		attribute.String(tracing.AttrKeyword, req.Keyword),
	)

	if len(eligible) == 0 {
		err := &AllProvidersFailedError{}
		d.logger.Warn("no eligible providers", "keyword", req.Keyword)
		tracing.SetStatus(span, err)
		return nil, err
	}
	if len(prompts) == 0 {
		prompts = []providers.Prompt{{}}
	}

	batchCtx := ctx
	if d.config.Deadline > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, d.config.Deadline)
		defer cancel()
	}

	outcomes := make([]providers.Outcome, len(eligible))

	// Calls never return errors to the group: a failed provider must not
	// cancel its siblings.
	var g errgroup.Group
	for i, a := range eligible {
		prompt := prompts[i%len(prompts)]
		g.Go(func() error {
			outcomes[i] = d.call(batchCtx, a, prompt)
			return nil
		})
	}
	_ = g.Wait()

	d.record(outcomes)

	var lastErr error
	succeeded := 0
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		} else {
			lastErr = o.Err
		}
	}

	d.logger.Info("dispatch complete",
		"keyword", req.Keyword,
		"dispatched", len(outcomes),
		"succeeded", succeeded,
	)

	if succeeded == 0 {
		err := &AllProvidersFailedError{AttemptedProviders: names, LastError: lastErr}
		tracing.SetStatus(span, err)
		return outcomes, err
	}
	tracing.SetStatus(span, nil)
	return outcomes, nil
}

func (d *Dispatcher) call(ctx context.Context, a providers.Adapter, prompt providers.Prompt) providers.Outcome {
	ctx, span := d.tracer.Start(ctx, "provider.generate", trace.WithAttributes(
		attribute.String(tracing.AttrProvider, a.Name()),
	))
	defer span.End()

	o := providers.Generate(ctx, a, prompt, providers.Options{}, d.config.ProviderTimeout)
	if o.Success {
		o.Cost = d.costs.Cost(a.Descriptor(), o.Tokens)
	}

	tracing.SetOutcomeAttributes(span, o.Provider, o.Success, string(o.ErrorClass), o.Tokens, o.Cost)
	tracing.SetStatus(span, o.Err)
	return o
}

// record applies the batch to the ledger and metrics. It runs after the
// join so no ledger write happens during the fan-out.
func (d *Dispatcher) record(outcomes []providers.Outcome) {
	for _, o := range outcomes {
		if o.Success {
			d.ledger.RecordSuccess(o.Provider, o.Tokens, o.Cost)
		} else {
			d.ledger.RecordFailure(o.Provider, o.ErrorClass)
			d.logger.Warn("provider call failed",
				"provider", o.Provider,
				"class", o.ErrorClass,
				"latency", o.Latency,
				"error", o.Err,
			)
		}
		d.metrics.RecordProviderCall(o.Provider, string(o.ErrorClass), o.Latency, o.Tokens, o.Cost)
		d.metrics.UpdateProviderEligible(o.Provider, d.ledger.IsEligible(o.Provider))
	}
}
