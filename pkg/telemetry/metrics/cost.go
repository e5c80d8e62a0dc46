package metrics

import (
	"mercator-hq/scribe/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CostMetrics tracks spend and token consumption per provider.
//
// Metrics:
//   - scribe_cost_usd_total: total cost in USD
//   - scribe_tokens_total: total tokens consumed
//   - scribe_cost_per_call_usd: cost distribution per successful call
type CostMetrics struct {
	costTotal   *prometheus.CounterVec
	tokensTotal *prometheus.CounterVec
	costPerCall *prometheus.HistogramVec
}

// NewCostMetrics creates and registers cost metrics with the provided registry.
func NewCostMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CostMetrics {
	cm := &CostMetrics{
		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cost_usd_total",
				Help:      "Total provider cost in USD",
			},
			[]string{"provider"},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "tokens_total",
				Help:      "Total tokens consumed by provider",
			},
			[]string{"provider"},
		),

		costPerCall: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "cost_per_call_usd",
				Help:      "Cost distribution per successful provider call in USD",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		cm.costTotal,
		cm.tokensTotal,
		cm.costPerCall,
	)

	return cm
}

// RecordUsage records the tokens and cost of one successful call.
// Negative values are ignored; counters only go up.
func (cm *CostMetrics) RecordUsage(provider string, tokens int, cost float64) {
	if tokens > 0 {
		cm.tokensTotal.WithLabelValues(provider).Add(float64(tokens))
	}
	if cost >= 0 {
		cm.costTotal.WithLabelValues(provider).Add(cost)
		cm.costPerCall.WithLabelValues(provider).Observe(cost)
	}
}
