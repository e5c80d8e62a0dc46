package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"mercator-hq/scribe/pkg/content"
	"mercator-hq/scribe/pkg/costs"
	"mercator-hq/scribe/pkg/dispatch"
	"mercator-hq/scribe/pkg/enhance"
	"mercator-hq/scribe/pkg/fallback"
	"mercator-hq/scribe/pkg/moderation"
	"mercator-hq/scribe/pkg/preflight"
	"mercator-hq/scribe/pkg/prompts"
	"mercator-hq/scribe/pkg/providers"
	"mercator-hq/scribe/pkg/scoring"
	"mercator-hq/scribe/pkg/selection"
	"mercator-hq/scribe/pkg/telemetry/logging"
	"mercator-hq/scribe/pkg/telemetry/metrics"
	"mercator-hq/scribe/pkg/telemetry/tracing"
	"mercator-hq/scribe/pkg/usage"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// persistTimeout bounds write-through of usage to the store.
const persistTimeout = 2 * time.Second

// metadataKeywords is how many frequent content words are added to the
// result keywords after the primary keyword and hints.
const metadataKeywords = 5

// Config holds the generation timing knobs.
type Config struct {
	// ProviderTimeout bounds each provider call.
	ProviderTimeout time.Duration

	// RequestTimeout bounds the whole dispatch phase. Zero leaves only
	// the per-provider timeout.
	RequestTimeout time.Duration

	// PreflightBeforeGenerate runs a preflight before each generation and
	// goes straight to the fallback article when it is blocked.
	PreflightBeforeGenerate bool

	// PreflightTimeout bounds each provider probe.
	PreflightTimeout time.Duration
}

// Components are the collaborators of an Orchestrator. Registry and
// Ledger are required; the rest default when nil.
type Components struct {
	Registry *providers.Registry
	Ledger   *usage.Ledger
	Store    usage.Store
	Costs    *costs.Calculator
	Scorer   *scoring.Scorer
	Selector *selection.Selector
	Gate     moderation.Gate
	Renderer fallback.Renderer
}

// Orchestrator turns one content request into exactly one article.
type Orchestrator struct {
	registry   *providers.Registry
	ledger     *usage.Ledger
	store      usage.Store
	scorer     *scoring.Scorer
	selector   *selection.Selector
	gate       moderation.Gate
	renderer   fallback.Renderer
	dispatcher *dispatch.Dispatcher
	preflight  *preflight.Checker
	config     Config
	weights    map[string]float64

	metrics *metrics.Collector
	tracer  *tracing.Tracer
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics records generations, moderation decisions and provider
// calls on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithTracer records spans on t.
func WithTracer(t *tracing.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithClock sets the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDGenerator replaces the result ID generator. Defaults to random
// UUIDs.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) { o.newID = fn }
}

// New wires an Orchestrator from its components.
func New(c Components, cfg Config, opts ...Option) (*Orchestrator, error) {
	if c.Registry == nil {
		return nil, fmt.Errorf("orchestrator: registry is required")
	}
	if c.Ledger == nil {
		return nil, fmt.Errorf("orchestrator: ledger is required")
	}
	if c.Costs == nil {
		c.Costs = costs.NewCalculator(nil)
	}
	if c.Scorer == nil {
		c.Scorer = scoring.NewScorer(scoring.DefaultWeights())
	}
	if c.Selector == nil {
		c.Selector = selection.NewSelector(selection.DefaultConfig())
	}
	if c.Gate == nil {
		c.Gate = moderation.AllowAll{}
	}
	if c.Renderer == nil {
		c.Renderer = fallback.MarkdownRenderer{}
	}

	o := &Orchestrator{
		registry: c.Registry,
		ledger:   c.Ledger,
		store:    c.Store,
		scorer:   c.Scorer,
		selector: c.Selector,
		gate:     c.Gate,
		renderer: c.Renderer,
		config:   cfg,
		weights:  make(map[string]float64, c.Registry.Len()),
		logger:   slog.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "orchestrator")

	for _, a := range c.Registry.All() {
		o.weights[a.Name()] = a.Descriptor().Weight
	}

	o.dispatcher = dispatch.New(c.Registry, c.Ledger, c.Costs,
		dispatch.Config{ProviderTimeout: cfg.ProviderTimeout, Deadline: cfg.RequestTimeout},
		dispatch.WithMetrics(o.metrics),
		dispatch.WithTracer(o.tracer),
		dispatch.WithLogger(o.logger),
	)
	o.preflight = preflight.New(c.Registry, c.Ledger, cfg.PreflightTimeout,
		preflight.WithMetrics(o.metrics),
		preflight.WithTracer(o.tracer),
		preflight.WithLogger(o.logger),
	)
	return o, nil
}

// Scorer returns the quality scorer so callers can swap its weights.
func (o *Orchestrator) Scorer() *scoring.Scorer {
	return o.scorer
}

// Dispatcher returns the dispatcher, used by readiness checks.
func (o *Orchestrator) Dispatcher() *dispatch.Dispatcher {
	return o.dispatcher
}

// Generate produces exactly one article for req. Provider failures never
// surface as errors: when no draft qualifies the article is synthesized
// offline. The only errors are an invalid request, a moderation
// rejection and a failing moderation gate.
func (o *Orchestrator) Generate(ctx context.Context, req content.Request) (*content.Result, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator.generate")
	defer span.End()
	tracing.SetRequestAttributes(span, logging.GetRequestID(ctx), req.Keyword, req.WordCount)
	ctx = logging.WithKeyword(ctx, req.Keyword)

	verdict, err := o.gate.Moderate(ctx, moderationText(req))
	if err != nil {
		err = fmt.Errorf("moderation failed: %w", err)
		tracing.SetStatus(span, err)
		return nil, err
	}
	o.metrics.RecordModeration(verdict.Decision())
	if !verdict.Allowed {
		err := &ModerationRejectedError{Categories: verdict.Categories}
		o.logger.WarnContext(ctx, "request rejected by moderation", "categories", verdict.Categories)
		tracing.SetStatus(span, err)
		return nil, err
	}

	var (
		outcomes []providers.Outcome
		sel      *selection.Selection
	)
	blocked := false
	if o.config.PreflightBeforeGenerate {
		report := o.preflight.Run(ctx)
		blocked = !report.Ready
	}

	if blocked {
		o.logger.InfoContext(ctx, "preflight blocked, skipping dispatch")
	} else {
		ps := prompts.Build(req, len(o.dispatcher.Eligible()))
		var dispatchErr error
		outcomes, dispatchErr = o.dispatcher.Dispatch(ctx, req, ps)
		o.persist(ctx, outcomes)

		if dispatchErr == nil {
			sel, err = o.selector.Select(outcomes, o.qualityFunc(req), o.weightOf)
			if err != nil {
				o.logger.InfoContext(ctx, "no draft qualified", "error", err)
			}
		} else {
			o.logger.InfoContext(ctx, "dispatch produced no draft", "error", dispatchErr)
		}
	}

	result := &content.Result{
		ID:             o.newID(),
		RequiresReview: verdict.RequiresReview,
		CreatedAt:      o.now().UTC(),
	}
	if sel != nil {
		result.Content = enhance.Enhance(sel.Winner.Outcome.Text, req)
		result.Provider = sel.Winner.Outcome.Provider
		result.Source = content.SourceProvider
	} else {
		result.Content = o.renderer.Render(fallback.Synthesize(req))
		result.Provider = content.FallbackProviderName
		result.Source = content.SourceFallback
	}

	result.Metadata = o.metadata(result.Content, req)
	result.Providers = o.reports(outcomes, sel, req)
	for _, oc := range outcomes {
		result.TotalCost += oc.Cost
	}
	result.ProcessingTime = time.Since(start)

	span.SetAttributes(
		attribute.String(tracing.AttrSource, string(result.Source)),
		attribute.String(tracing.AttrProvider, result.Provider),
		attribute.Float64(tracing.AttrQuality, result.Metadata.SEOScore),
	)
	tracing.SetStatus(span, nil)
	o.metrics.RecordGeneration(string(result.Source), result.ProcessingTime, result.Metadata.SEOScore, result.Metadata.WordCount)

	o.logger.InfoContext(ctx, "generation complete",
		"id", result.ID,
		"provider", result.Provider,
		"source", result.Source,
		"words", result.Metadata.WordCount,
		"seo_score", result.Metadata.SEOScore,
		"cost", result.TotalCost,
		"duration", result.ProcessingTime,
	)
	return result, nil
}

// Preflight runs the preflight workflow now.
func (o *Orchestrator) Preflight(ctx context.Context) preflight.Report {
	return o.preflight.Run(ctx)
}

// UsageReport returns a copy of every provider's usage record.
func (o *Orchestrator) UsageReport() map[string]usage.Record {
	return o.ledger.Snapshot()
}

// LoadUsage seeds the ledger with today's counters from the store.
func (o *Orchestrator) LoadUsage(ctx context.Context) error {
	if o.store == nil {
		return nil
	}
	day := o.ledger.Day()
	daily, err := o.store.Load(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to load usage for %s: %w", day, err)
	}
	o.ledger.Seed(day, daily)
	o.logger.Info("usage restored", "day", day, "providers", len(daily))
	return nil
}

// persist writes successful usage through to the store. Failures are
// logged and never fail the request.
func (o *Orchestrator) persist(ctx context.Context, outcomes []providers.Outcome) {
	if o.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	day := o.ledger.Day()
	for _, oc := range outcomes {
		if !oc.Success || oc.Tokens <= 0 {
			continue
		}
		if err := o.store.Add(ctx, day, oc.Provider, int64(oc.Tokens), oc.Cost); err != nil {
			o.logger.WarnContext(ctx, "failed to persist usage",
				"provider", oc.Provider,
				"error", err,
			)
		}
	}
}

func (o *Orchestrator) qualityFunc(req content.Request) selection.QualityFunc {
	return func(text string) float64 {
		return o.scorer.Total(text, req)
	}
}

func (o *Orchestrator) weightOf(provider string) float64 {
	return o.weights[provider]
}

func (o *Orchestrator) metadata(text string, req content.Request) content.Metadata {
	words := content.CountWords(text)
	return content.Metadata{
		WordCount:       words,
		ReadingMinutes:  content.ReadingMinutes(words),
		SEOScore:        o.scorer.Total(text, req),
		Title:           content.ExtractTitle(text),
		MetaDescription: content.MetaDescription(text),
		Keywords:        content.Keywords(text, req.Keyword, hints(req), metadataKeywords),
	}
}

// reports lists ranked candidates first, then every other outcome in
// provider name order.
func (o *Orchestrator) reports(outcomes []providers.Outcome, sel *selection.Selection, req content.Request) []content.ProviderReport {
	if len(outcomes) == 0 {
		return nil
	}
	out := make([]content.ProviderReport, 0, len(outcomes))
	ranked := make(map[string]bool)

	if sel != nil {
		for i, c := range sel.Ranked {
			r := report(c.Outcome)
			r.Quality = c.Quality
			r.Composite = c.Composite
			r.Rank = i + 1
			r.Winner = i == 0
			out = append(out, r)
			ranked[c.Outcome.Provider] = true
		}
	}

	var rest []content.ProviderReport
	for _, oc := range outcomes {
		if ranked[oc.Provider] {
			continue
		}
		r := report(oc)
		if oc.Success {
			r.Quality = o.scorer.Total(oc.Text, req)
			r.Disqualified = true
		}
		rest = append(rest, r)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Provider < rest[j].Provider })
	return append(out, rest...)
}

func report(oc providers.Outcome) content.ProviderReport {
	r := content.ProviderReport{
		Provider:   oc.Provider,
		Success:    oc.Success,
		ErrorClass: string(oc.ErrorClass),
		Tokens:     oc.Tokens,
		Cost:       oc.Cost,
		Latency:    oc.Latency,
	}
	if oc.Err != nil {
		r.Error = oc.Err.Error()
	}
	return r
}

func hints(req content.Request) []string {
	var out []string
	for _, h := range []string{req.Industry, req.Audience} {
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

// moderationText is the raw request text the gate sees.
func moderationText(req content.Request) string {
	parts := []string{req.Keyword, req.AnchorText, req.Industry, req.Audience}
	return strings.Join(parts, "\n")
}
