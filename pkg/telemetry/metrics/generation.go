package metrics

import (
	"time"

	"mercator-hq/scribe/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GenerationMetrics tracks end-to-end Generate calls.
//
// Metrics:
//   - scribe_generations_total: finished generations by source
//   - scribe_generation_duration_seconds: end-to-end duration
//   - scribe_generation_quality_score: SEO score of delivered articles
//   - scribe_generation_words: word count of delivered articles
//   - scribe_moderation_decisions_total: moderation outcomes
//   - scribe_preflight_runs_total: preflight runs by terminal state
type GenerationMetrics struct {
	generations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	quality     *prometheus.HistogramVec
	words       prometheus.Histogram
	moderation  *prometheus.CounterVec
	preflight   *prometheus.CounterVec
}

// NewGenerationMetrics creates and registers generation metrics with the provided registry.
func NewGenerationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GenerationMetrics {
	gm := &GenerationMetrics{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "generations_total",
				Help:      "Total number of finished generations by content source",
			},
			[]string{"source"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "generation_duration_seconds",
				Help:      "End-to-end generation duration in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"source"},
		),

		quality: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "generation_quality_score",
				Help:      "SEO quality score (0-100) of delivered articles",
				Buckets:   prometheus.LinearBuckets(10, 10, 9),
			},
			[]string{"source"},
		),

		words: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "generation_words",
				Help:      "Word count of delivered articles",
				Buckets:   []float64{100, 300, 500, 800, 1200, 2000, 3000, 5000},
			},
		),

		moderation: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "moderation_decisions_total",
				Help:      "Total number of moderation decisions",
			},
			[]string{"decision"},
		),

		preflight: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "preflight_runs_total",
				Help:      "Total number of preflight runs by terminal state",
			},
			[]string{"state"},
		),
	}

	registry.MustRegister(
		gm.generations,
		gm.duration,
		gm.quality,
		gm.words,
		gm.moderation,
		gm.preflight,
	)

	return gm
}

// RecordGeneration records one finished generation.
func (gm *GenerationMetrics) RecordGeneration(source string, duration time.Duration, quality float64, words int) {
	gm.generations.WithLabelValues(source).Inc()
	gm.duration.WithLabelValues(source).Observe(duration.Seconds())
	gm.quality.WithLabelValues(source).Observe(quality)
	gm.words.Observe(float64(words))
}

// RecordModeration counts one moderation decision.
func (gm *GenerationMetrics) RecordModeration(decision string) {
	gm.moderation.WithLabelValues(decision).Inc()
}

// RecordPreflight counts one preflight run.
func (gm *GenerationMetrics) RecordPreflight(state string) {
	gm.preflight.WithLabelValues(state).Inc()
}
