package preflight

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/scribe/pkg/providers"
	"mercator-hq/scribe/pkg/telemetry/metrics"
	"mercator-hq/scribe/pkg/telemetry/tracing"
	"mercator-hq/scribe/pkg/usage"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// DefaultProbeTimeout bounds each provider probe.
const DefaultProbeTimeout = 10 * time.Second

// Probe is the result of checking one provider.
type Probe struct {
	Provider  string        `json:"provider"`
	Connected bool          `json:"connected"`
	HasQuota  bool          `json:"has_quota"`
	Eligible  bool          `json:"eligible"`
	Latency   time.Duration `json:"latency_ns"`
	Error     string        `json:"error,omitempty"`
}

// Report is the outcome of one preflight run.
type Report struct {
	State             State         `json:"state"`
	Ready             bool          `json:"ready"`
	EligibleProviders []string      `json:"eligible_providers"`
	Probes            []Probe       `json:"probes"`
	History           []Transition  `json:"history"`
	Duration          time.Duration `json:"duration_ns"`
}

// Checker runs the preflight workflow against a registry and ledger.
type Checker struct {
	registry *providers.Registry
	ledger   *usage.Ledger
	timeout  time.Duration
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Checker.
type Option func(*Checker)

// WithMetrics records probes and run results on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Checker) { c.metrics = m }
}

// WithTracer wraps each run in a preflight.run span.
func WithTracer(t *tracing.Tracer) Option {
	return func(c *Checker) { c.tracer = t }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// WithClock sets the clock used for transition timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

// New creates a Checker. A zero timeout uses DefaultProbeTimeout.
func New(registry *providers.Registry, ledger *usage.Ledger, timeout time.Duration, opts ...Option) *Checker {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	c := &Checker{
		registry: registry,
		ledger:   ledger,
		timeout:  timeout,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "preflight")
	return c
}

// Run probes every configured provider concurrently and reports whether
// generation can reach at least one of them. Each run starts from Init
// and ends in Ready or Blocked once the whole probe batch has settled.
func (c *Checker) Run(ctx context.Context) Report {
	ctx, span := c.tracer.Start(ctx, "preflight.run")
	defer span.End()

	start := time.Now()
	m := newMachine(c.now)
	c.must(m.to(StateCheckingProviders))

	adapters := c.registry.Configured()
	probes := make([]Probe, len(adapters))

	var g errgroup.Group
	for i, a := range adapters {
		g.Go(func() error {
			probes[i] = c.probe(ctx, a)
			return nil
		})
	}
	_ = g.Wait()

	// Ledger writes happen after the join, as in dispatch.
	for i := range probes {
		p := &probes[i]
		c.ledger.MarkTested(p.Provider)
		p.HasQuota = c.ledger.HasQuota(p.Provider)
		p.Eligible = p.Connected && p.HasQuota && c.ledger.IsEligible(p.Provider)
		c.metrics.RecordProbe(p.Provider, p.Connected)
		c.metrics.UpdateProviderEligible(p.Provider, p.Eligible)
	}
	c.must(m.to(StateScored))

	var eligible []string
	for _, p := range probes {
		if p.Eligible {
			eligible = append(eligible, p.Provider)
		}
	}

	final := StateBlocked
	if len(eligible) > 0 {
		final = StateReady
	}
	c.must(m.to(final))

	report := Report{
		State:             m.state,
		Ready:             m.state == StateReady,
		EligibleProviders: eligible,
		Probes:            probes,
		History:           m.history,
		Duration:          time.Since(start),
	}

	span.SetAttributes(
		attribute.String(tracing.AttrState, string(report.State)),
		attribute.StringSlice(tracing.AttrProviders, eligible),
	)
	c.metrics.RecordPreflight(string(report.State))

	if report.Ready {
		c.logger.Info("preflight ready",
			"eligible", eligible,
			"probed", len(probes),
			"duration", report.Duration,
		)
	} else {
		c.logger.Warn("preflight blocked: no provider is reachable with quota",
			"probed", len(probes),
			"duration", report.Duration,
		)
	}
	return report
}

func (c *Checker) probe(ctx context.Context, a providers.Adapter) Probe {
	start := time.Now()
	err := providers.TestConnection(ctx, a, c.timeout)
	p := Probe{
		Provider:  a.Name(),
		Connected: err == nil,
		Latency:   time.Since(start),
	}
	if err != nil {
		p.Error = err.Error()
		c.logger.Warn("provider probe failed",
			"provider", a.Name(),
			"class", providers.Classify(err),
			"error", err,
		)
	}
	return p
}

// must panics on an invalid transition. Run only issues transitions the
// state table allows.
func (c *Checker) must(err error) {
	if err != nil {
		panic(err)
	}
}
