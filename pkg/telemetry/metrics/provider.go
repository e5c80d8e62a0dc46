package metrics

import (
	"mercator-hq/scribe/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks per-provider call volume, failures and latency.
//
// Metrics:
//   - scribe_provider_requests_total: calls by provider and status
//   - scribe_provider_errors_total: failures by provider and error class
//   - scribe_provider_latency_seconds: call latency
//   - scribe_provider_eligible: 1 when the ledger allows dispatch, else 0
//   - scribe_provider_probes_total: preflight probes by provider and result
type ProviderMetrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	eligible *prometheus.GaugeVec
	probes   *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_requests_total",
				Help:      "Total number of provider calls by status",
			},
			[]string{"provider", "status"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of provider failures by error class",
			},
			[]string{"provider", "class"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_latency_seconds",
				Help:      "Provider call latency in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"provider"},
		),

		eligible: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_eligible",
				Help:      "Whether the provider is currently eligible for dispatch (1=yes, 0=no)",
			},
			[]string{"provider"},
		),

		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_probes_total",
				Help:      "Total number of preflight connection probes by result",
			},
			[]string{"provider", "result"},
		),
	}

	registry.MustRegister(
		pm.requests,
		pm.errors,
		pm.latency,
		pm.eligible,
		pm.probes,
	)

	return pm
}

// RecordRequest counts one call with status "success" or "error".
func (pm *ProviderMetrics) RecordRequest(provider, status string) {
	pm.requests.WithLabelValues(provider, status).Inc()
}

// RecordError counts one failure of the given error class
// (e.g., "timeout", "auth_failed", "quota_exhausted").
func (pm *ProviderMetrics) RecordError(provider, class string) {
	pm.errors.WithLabelValues(provider, class).Inc()
}

// RecordLatency observes the latency of one call.
func (pm *ProviderMetrics) RecordLatency(provider string, latencySeconds float64) {
	pm.latency.WithLabelValues(provider).Observe(latencySeconds)
}

// UpdateEligible sets the eligibility gauge.
func (pm *ProviderMetrics) UpdateEligible(provider string, eligible bool) {
	value := 0.0
	if eligible {
		value = 1.0
	}
	pm.eligible.WithLabelValues(provider).Set(value)
}

// RecordProbe counts one preflight probe.
func (pm *ProviderMetrics) RecordProbe(provider string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	pm.probes.WithLabelValues(provider, result).Inc()
}
