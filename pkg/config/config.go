package config

import (
	"sort"
	"time"
)

// Config is the root configuration structure for Scribe.
// It contains all configuration sections for the orchestrator.
type Config struct {
	// Server contains HTTP server configuration for `scribe serve`.
	Server ServerConfig `yaml:"server"`

	// Providers contains provider configurations keyed by provider name.
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Generation contains timeouts and preflight behavior for Generate.
	Generation GenerationConfig `yaml:"generation"`

	// Scoring contains quality scorer weights.
	Scoring ScoringConfig `yaml:"scoring"`

	// Selection contains winner selection tuning.
	Selection SelectionConfig `yaml:"selection"`

	// Usage contains usage ledger and persistence configuration.
	Usage UsageConfig `yaml:"usage"`

	// Costs contains per-model pricing overrides.
	Costs CostsConfig `yaml:"costs"`

	// Moderation contains the request moderation gate configuration.
	Moderation ModerationConfig `yaml:"moderation"`

	// Telemetry contains observability configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// ListenAddress is the address the server listens on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing the response. It must exceed
	// generation.request_timeout or long generations are cut off.
	// Default: 180s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header.
	// Default: 1MB
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes caps the size of a generate request body.
	// Default: 1MB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// ProviderConfig contains configuration for a single provider.
type ProviderConfig struct {
	// Type selects the adapter: "openai", "anthropic" or "generic".
	// When empty it is inferred from the provider name.
	Type string `yaml:"type"`

	// BaseURL overrides the vendor endpoint. Required for generic providers.
	BaseURL string `yaml:"base_url"`

	// APIKey is the credential. Usually supplied through
	// SCRIBE_PROVIDERS_<NAME>_API_KEY rather than the file.
	APIKey string `yaml:"api_key"`

	// Model is the backend model identifier.
	Model string `yaml:"model"`

	// Weight is the static selection preference in [0, 1].
	// Default: 0.5
	Weight float64 `yaml:"weight"`

	// CostPer1KTokens is the blended price per thousand tokens.
	CostPer1KTokens float64 `yaml:"cost_per_1k_tokens"`

	// DailyTokenQuota caps tokens per UTC day. Zero means unlimited.
	DailyTokenQuota int64 `yaml:"daily_token_quota"`

	// MaxTokens caps the completion length.
	// Default: 4096
	MaxTokens int `yaml:"max_tokens"`

	// Temperature is passed to the backend when non-zero.
	Temperature float64 `yaml:"temperature"`

	// Streaming is accepted for compatibility and not used.
	Streaming bool `yaml:"streaming"`

	// Timeout bounds a single HTTP exchange.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries on transient errors.
	// Default: 2
	MaxRetries int `yaml:"max_retries"`
}

// GenerationConfig controls the generate pipeline.
type GenerationConfig struct {
	// ProviderTimeout bounds each provider call during dispatch.
	// Default: 30s
	ProviderTimeout time.Duration `yaml:"provider_timeout"`

	// RequestTimeout bounds the whole dispatch phase. Zero means only
	// provider timeouts apply.
	// Default: 120s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// PreflightBeforeGenerate runs the preflight workflow first and goes
	// straight to the fallback when it reports Blocked.
	// Default: false
	PreflightBeforeGenerate bool `yaml:"preflight_before_generate"`

	// PreflightTimeout bounds each connection probe.
	// Default: 10s
	PreflightTimeout time.Duration `yaml:"preflight_timeout"`
}

// ScoringConfig holds the relative weights of the quality sub-scores.
// Only the ratios matter; the scorer normalizes them to sum to 100.
type ScoringConfig struct {
	Length      float64 `yaml:"length"`
	Keyword     float64 `yaml:"keyword"`
	Structure   float64 `yaml:"structure"`
	Links       float64 `yaml:"links"`
	Readability float64 `yaml:"readability"`

	// Watch reloads the weights when the configuration file changes.
	// Only honored by `scribe serve`.
	Watch bool `yaml:"watch"`
}

// SelectionConfig tunes winner selection.
type SelectionConfig struct {
	// MinQuality is the exclusive lower bound a draft's quality must exceed.
	// Default: 0
	MinQuality float64 `yaml:"min_quality"`

	// MaxLatencyBonus is the bonus awarded to a sub-second response.
	// Default: 5
	MaxLatencyBonus float64 `yaml:"max_latency_bonus"`
}

// UsageConfig configures the usage ledger and its persistence.
type UsageConfig struct {
	// FailureThreshold is the number of consecutive failures after which
	// a provider stops being eligible for the rest of the day.
	// Default: 3
	FailureThreshold int `yaml:"failure_threshold"`

	// Backend selects where daily counters are persisted.
	// Options: "memory", "sqlite", "redis"
	// Default: "memory"
	Backend string `yaml:"backend"`

	SQLite UsageSQLiteConfig `yaml:"sqlite"`
	Redis  UsageRedisConfig  `yaml:"redis"`

	// Retention prunes old daily counters from the store.
	Retention RetentionConfig `yaml:"retention"`
}

// UsageSQLiteConfig configures the SQLite usage store.
type UsageSQLiteConfig struct {
	// Path is the database file.
	// Default: "data/usage.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait on locks.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// UsageRedisConfig configures the Redis usage store.
type UsageRedisConfig struct {
	// Addr is the Redis host:port.
	// Default: "localhost:6379"
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`

	// KeyPrefix namespaces the usage hashes.
	// Default: "scribe:usage:"
	KeyPrefix string `yaml:"key_prefix"`

	// TTL is how long a day's counters live after the last write.
	// Default: 192h
	TTL time.Duration `yaml:"ttl"`

	// DialTimeout bounds the initial connection.
	// Default: 5s
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// RetentionConfig configures pruning of old usage days.
type RetentionConfig struct {
	// Schedule is a cron expression. Empty disables pruning.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`

	// Days is how many days of counters to keep.
	// Default: 30
	Days int `yaml:"days"`
}

// CostsConfig contains cost calculation configuration.
type CostsConfig struct {
	// Pricing maps a model name to its price per 1K tokens. It overrides
	// the provider's cost_per_1k_tokens for that model.
	Pricing map[string]float64 `yaml:"pricing"`
}

// ModerationConfig configures the request moderation gate.
type ModerationConfig struct {
	// Enabled turns the keyword gate on. When false every request passes.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// BlockCategories are categories that reject a request outright.
	// Default: ["hate_speech", "violence", "adult_content"]
	BlockCategories []string `yaml:"block_categories"`

	// ReviewCategories are categories that flag a request for review.
	// Default: ["profanity", "self_harm"]
	ReviewCategories []string `yaml:"review_categories"`

	// Terms adds terms to a category, creating it if needed.
	Terms map[string][]string `yaml:"terms"`

	// InjectionDetection flags prompt-injection phrasing in the request.
	// Default: true
	InjectionDetection bool `yaml:"injection_detection"`

	// PIIDetection flags personal data (emails, phone numbers, card
	// numbers) in the request.
	// Default: true
	PIIDetection bool `yaml:"pii_detection"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
	Health  HealthConfig  `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks API keys and similar values in log attributes.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "scribe"
	Namespace string `yaml:"namespace"`

	// LatencyBuckets defines histogram buckets for provider latency (seconds).
	// Default: [0.5, 1, 2.5, 5, 10, 20, 30, 60]
	LatencyBuckets []float64 `yaml:"latency_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "scribe"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout bounds a single export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// LivenessPath is the path for the liveness probe.
	// Default: "/health/live"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe.
	// Default: "/health/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout bounds each readiness check.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// ProviderNames returns the configured provider names in sorted order.
func (c *Config) ProviderNames() []string {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
