// Package metrics provides Prometheus metrics collection for Scribe.
//
// # Metrics Categories
//
//   - Provider metrics: call counts, failures by error class, latency,
//     eligibility and preflight probes
//   - Generation metrics: generations by source (provider or fallback),
//     duration, quality score, article length, moderation and preflight
//   - Cost metrics: spend and tokens per provider
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordProviderCall("openai", "", 1200*time.Millisecond, 1500, 0.0009)
//	mux.Handle("/metrics", collector.Handler())
//
// A nil *Collector is valid and records nothing.
package metrics
