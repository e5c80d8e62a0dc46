package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 180 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
	DefaultMaxBodyBytes    = int64(1 << 20)

	// Provider defaults
	DefaultProviderWeight     = 0.5
	DefaultProviderMaxTokens  = 4096
	DefaultProviderTimeout    = 60 * time.Second
	DefaultProviderMaxRetries = 2

	// Generation defaults
	DefaultGenerationProviderTimeout = 30 * time.Second
	DefaultGenerationRequestTimeout  = 120 * time.Second
	DefaultPreflightTimeout          = 10 * time.Second

	// Scoring defaults (only the ratios matter)
	DefaultScoringLength      = 30.0
	DefaultScoringKeyword     = 20.0
	DefaultScoringStructure   = 25.0
	DefaultScoringLinks       = 15.0
	DefaultScoringReadability = 10.0

	// Selection defaults
	DefaultMinQuality      = 0.0
	DefaultMaxLatencyBonus = 5.0

	// Usage defaults
	DefaultFailureThreshold   = 3
	DefaultUsageBackend       = "memory"
	DefaultUsageSQLitePath    = "data/usage.db"
	DefaultUsageBusyTimeout   = 5 * time.Second
	DefaultUsageRedisAddr     = "localhost:6379"
	DefaultUsageRedisPrefix   = "scribe:usage:"
	DefaultUsageRedisTTL      = 8 * 24 * time.Hour
	DefaultUsageRedisDial     = 5 * time.Second
	DefaultRetentionSchedule  = "0 3 * * *"
	DefaultRetentionDays      = 30
	DefaultModerationEnabled  = true
	DefaultModerationInject   = true
	DefaultModerationPII      = true
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultLoggingRedact      = true
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "scribe"
	DefaultTracingEnabled     = false
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingService     = "scribe"
	DefaultTracingInsecure    = true
	DefaultTracingTimeout     = 10 * time.Second
	DefaultLivenessPath       = "/health/live"
	DefaultReadinessPath      = "/health/ready"
	DefaultHealthCheckTimeout = 5 * time.Second
)

// DefaultLatencyBuckets are the provider latency histogram buckets in seconds.
var DefaultLatencyBuckets = []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60}

// Default returns a configuration with every default applied, including
// boolean fields whose default is true. LoadConfig decodes YAML on top of
// it, so keys absent from the file keep these values.
func Default() *Config {
	cfg := &Config{
		Moderation: ModerationConfig{
			Enabled:            DefaultModerationEnabled,
			InjectionDetection: DefaultModerationInject,
			PIIDetection:       DefaultModerationPII,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactSecrets: DefaultLoggingRedact},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{
				Enabled:  DefaultTracingEnabled,
				Insecure: DefaultTracingInsecure,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Provider defaults - applied to each provider
	for name, provider := range cfg.Providers {
		if provider.Weight == 0 {
			provider.Weight = DefaultProviderWeight
		}
		if provider.MaxTokens == 0 {
			provider.MaxTokens = DefaultProviderMaxTokens
		}
		if provider.Timeout == 0 {
			provider.Timeout = DefaultProviderTimeout
		}
		if provider.MaxRetries == 0 {
			provider.MaxRetries = DefaultProviderMaxRetries
		}
		cfg.Providers[name] = provider
	}

	// Generation defaults
	if cfg.Generation.ProviderTimeout == 0 {
		cfg.Generation.ProviderTimeout = DefaultGenerationProviderTimeout
	}
	if cfg.Generation.RequestTimeout == 0 {
		cfg.Generation.RequestTimeout = DefaultGenerationRequestTimeout
	}
	if cfg.Generation.PreflightTimeout == 0 {
		cfg.Generation.PreflightTimeout = DefaultPreflightTimeout
	}

	// Scoring defaults: an all-zero block means "not configured"
	s := &cfg.Scoring
	if s.Length == 0 && s.Keyword == 0 && s.Structure == 0 && s.Links == 0 && s.Readability == 0 {
		s.Length = DefaultScoringLength
		s.Keyword = DefaultScoringKeyword
		s.Structure = DefaultScoringStructure
		s.Links = DefaultScoringLinks
		s.Readability = DefaultScoringReadability
	}

	// Selection defaults
	if cfg.Selection.MaxLatencyBonus == 0 {
		cfg.Selection.MaxLatencyBonus = DefaultMaxLatencyBonus
	}

	applyUsageDefaults(&cfg.Usage)
	applyModerationDefaults(&cfg.Moderation)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyUsageDefaults(u *UsageConfig) {
	if u.FailureThreshold == 0 {
		u.FailureThreshold = DefaultFailureThreshold
	}
	if u.Backend == "" {
		u.Backend = DefaultUsageBackend
	}
	if u.SQLite.Path == "" {
		u.SQLite.Path = DefaultUsageSQLitePath
	}
	if u.SQLite.BusyTimeout == 0 {
		u.SQLite.BusyTimeout = DefaultUsageBusyTimeout
	}
	if u.Redis.Addr == "" {
		u.Redis.Addr = DefaultUsageRedisAddr
	}
	if u.Redis.KeyPrefix == "" {
		u.Redis.KeyPrefix = DefaultUsageRedisPrefix
	}
	if u.Redis.TTL == 0 {
		u.Redis.TTL = DefaultUsageRedisTTL
	}
	if u.Redis.DialTimeout == 0 {
		u.Redis.DialTimeout = DefaultUsageRedisDial
	}
	if u.Retention.Days == 0 {
		u.Retention.Days = DefaultRetentionDays
	}
	// An empty schedule disables pruning, so it is defaulted only for
	// persistent backends.
	if u.Retention.Schedule == "" && u.Backend != "memory" {
		u.Retention.Schedule = DefaultRetentionSchedule
	}
}

func applyModerationDefaults(m *ModerationConfig) {
	if m.BlockCategories == nil {
		m.BlockCategories = []string{"hate_speech", "violence", "adult_content"}
	}
	if m.ReviewCategories == nil {
		m.ReviewCategories = []string{"profanity", "self_harm"}
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLoggingLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLoggingFormat
	}

	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultMetricsPath
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(t.Metrics.LatencyBuckets) == 0 {
		t.Metrics.LatencyBuckets = append([]float64(nil), DefaultLatencyBuckets...)
	}

	if t.Tracing.Sampler == "" {
		t.Tracing.Sampler = DefaultTracingSampler
	}
	if t.Tracing.SampleRatio == 0 && t.Tracing.Sampler == "ratio" {
		t.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if t.Tracing.ServiceName == "" {
		t.Tracing.ServiceName = DefaultTracingService
	}
	if t.Tracing.Timeout == 0 {
		t.Tracing.Timeout = DefaultTracingTimeout
	}

	if t.Health.LivenessPath == "" {
		t.Health.LivenessPath = DefaultLivenessPath
	}
	if t.Health.ReadinessPath == "" {
		t.Health.ReadinessPath = DefaultReadinessPath
	}
	if t.Health.CheckTimeout == 0 {
		t.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
