package metrics

import (
	"time"

	"mercator-hq/scribe/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric Scribe exports and the private
// registry they live in.
//
// All methods are safe on a nil *Collector and on a collector whose
// configuration is disabled; they simply do nothing. Components therefore
// take a *Collector without checking whether metrics are on.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	providerMetrics   *ProviderMetrics
	generationMetrics *GenerationMetrics
	costMetrics       *CostMetrics
}

// NewCollector creates a collector registering into registry. A nil
// registry gets a fresh private one.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "scribe"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = append([]float64(nil), config.DefaultLatencyBuckets...)
	}

	return &Collector{
		config:            cfg,
		registry:          registry,
		providerMetrics:   NewProviderMetrics(cfg, registry),
		generationMetrics: NewGenerationMetrics(cfg, registry),
		costMetrics:       NewCostMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordProviderCall records one dispatched provider call.
//
// Parameters:
//   - provider: provider name (e.g., "openai")
//   - class: error class of the outcome, "" for success
//   - latency: wall time of the call
//   - tokens: tokens consumed (successful calls only)
//   - cost: cost in USD (successful calls only)
func (c *Collector) RecordProviderCall(provider, class string, latency time.Duration, tokens int, cost float64) {
	if !c.enabled() {
		return
	}

	status := "success"
	if class != "" {
		status = "error"
		c.providerMetrics.RecordError(provider, class)
	}
	c.providerMetrics.RecordRequest(provider, status)
	c.providerMetrics.RecordLatency(provider, latency.Seconds())
	if class == "" {
		c.costMetrics.RecordUsage(provider, tokens, cost)
	}
}

// UpdateProviderEligible sets the eligibility gauge of a provider.
func (c *Collector) UpdateProviderEligible(provider string, eligible bool) {
	if !c.enabled() {
		return
	}
	c.providerMetrics.UpdateEligible(provider, eligible)
}

// RecordProbe records a preflight connection probe.
func (c *Collector) RecordProbe(provider string, ok bool) {
	if !c.enabled() {
		return
	}
	c.providerMetrics.RecordProbe(provider, ok)
}

// RecordGeneration records a finished Generate call.
//
// Parameters:
//   - source: "provider" or "fallback"
//   - duration: end-to-end duration
//   - quality: SEO score of the final text, 0-100
//   - words: word count of the final text
func (c *Collector) RecordGeneration(source string, duration time.Duration, quality float64, words int) {
	if !c.enabled() {
		return
	}
	c.generationMetrics.RecordGeneration(source, duration, quality, words)
}

// RecordModeration records a moderation decision ("allowed", "review",
// "rejected").
func (c *Collector) RecordModeration(decision string) {
	if !c.enabled() {
		return
	}
	c.generationMetrics.RecordModeration(decision)
}

// RecordPreflight records the terminal state of a preflight run.
func (c *Collector) RecordPreflight(state string) {
	if !c.enabled() {
		return
	}
	c.generationMetrics.RecordPreflight(state)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
