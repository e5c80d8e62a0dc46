package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCRIBE_"

// LoadConfig loads configuration from a YAML file at the specified path.
// Keys absent from the file keep their defaults. The result is validated;
// environment variables are not consulted. Use LoadConfigWithEnvOverrides
// for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML on top of the defaults and applies the remaining
// zero-value defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SCRIBE_SECTION_FIELD (e.g., SCRIBE_SERVER_LISTEN_ADDRESS) and
// always take precedence over the file.
//
// An empty path skips the file and starts from the defaults, so a process
// can be configured from the environment alone.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	applyEnvOverrides(cfg, os.LookupEnv)
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

type lookupFunc func(string) (string, bool)

// envReader applies typed overrides, ignoring malformed values the same
// way for every field.
type envReader struct {
	lookup lookupFunc
}

func (r envReader) get(key string) (string, bool) {
	v, ok := r.lookup(EnvPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r envReader) str(key string, dst *string) bool {
	if v, ok := r.get(key); ok {
		*dst = v
		return true
	}
	return false
}

func (r envReader) duration(key string, dst *time.Duration) bool {
	if v, ok := r.get(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
			return true
		}
	}
	return false
}

func (r envReader) integer(key string, dst *int) bool {
	if v, ok := r.get(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
			return true
		}
	}
	return false
}

func (r envReader) int64(key string, dst *int64) bool {
	if v, ok := r.get(key); ok {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = i
			return true
		}
	}
	return false
}

func (r envReader) float(key string, dst *float64) bool {
	if v, ok := r.get(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
			return true
		}
	}
	return false
}

func (r envReader) boolean(key string, dst *bool) bool {
	if v, ok := r.get(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
			return true
		}
	}
	return false
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config, lookup lookupFunc) {
	env := envReader{lookup: lookup}

	// Server overrides
	env.str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	env.duration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	env.duration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	env.duration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	env.duration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	env.integer("SERVER_MAX_HEADER_BYTES", &cfg.Server.MaxHeaderBytes)
	env.int64("SERVER_MAX_BODY_BYTES", &cfg.Server.MaxBodyBytes)

	// Providers: every provider named in the file, plus the well-known
	// vendors so a key alone in the environment enables them.
	names := map[string]bool{"openai": true, "anthropic": true}
	for name := range cfg.Providers {
		names[name] = true
	}
	for name := range names {
		applyProviderEnvOverrides(cfg, name, env)
	}

	// Generation overrides
	env.duration("GENERATION_PROVIDER_TIMEOUT", &cfg.Generation.ProviderTimeout)
	env.duration("GENERATION_REQUEST_TIMEOUT", &cfg.Generation.RequestTimeout)
	env.boolean("GENERATION_PREFLIGHT_BEFORE_GENERATE", &cfg.Generation.PreflightBeforeGenerate)
	env.duration("GENERATION_PREFLIGHT_TIMEOUT", &cfg.Generation.PreflightTimeout)

	// Scoring overrides
	env.float("SCORING_LENGTH", &cfg.Scoring.Length)
	env.float("SCORING_KEYWORD", &cfg.Scoring.Keyword)
	env.float("SCORING_STRUCTURE", &cfg.Scoring.Structure)
	env.float("SCORING_LINKS", &cfg.Scoring.Links)
	env.float("SCORING_READABILITY", &cfg.Scoring.Readability)
	env.boolean("SCORING_WATCH", &cfg.Scoring.Watch)

	// Selection overrides
	env.float("SELECTION_MIN_QUALITY", &cfg.Selection.MinQuality)
	env.float("SELECTION_MAX_LATENCY_BONUS", &cfg.Selection.MaxLatencyBonus)

	// Usage overrides
	env.integer("USAGE_FAILURE_THRESHOLD", &cfg.Usage.FailureThreshold)
	env.str("USAGE_BACKEND", &cfg.Usage.Backend)
	env.str("USAGE_SQLITE_PATH", &cfg.Usage.SQLite.Path)
	env.duration("USAGE_SQLITE_BUSY_TIMEOUT", &cfg.Usage.SQLite.BusyTimeout)
	env.str("USAGE_REDIS_ADDR", &cfg.Usage.Redis.Addr)
	env.str("USAGE_REDIS_PASSWORD", &cfg.Usage.Redis.Password)
	env.integer("USAGE_REDIS_DB", &cfg.Usage.Redis.DB)
	env.str("USAGE_REDIS_KEY_PREFIX", &cfg.Usage.Redis.KeyPrefix)
	env.duration("USAGE_REDIS_TTL", &cfg.Usage.Redis.TTL)
	env.str("USAGE_RETENTION_SCHEDULE", &cfg.Usage.Retention.Schedule)
	env.integer("USAGE_RETENTION_DAYS", &cfg.Usage.Retention.Days)

	// Moderation overrides
	env.boolean("MODERATION_ENABLED", &cfg.Moderation.Enabled)
	env.boolean("MODERATION_INJECTION_DETECTION", &cfg.Moderation.InjectionDetection)
	env.boolean("MODERATION_PII_DETECTION", &cfg.Moderation.PIIDetection)

	// Telemetry overrides
	env.str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	env.str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	env.boolean("TELEMETRY_LOGGING_REDACT_SECRETS", &cfg.Telemetry.Logging.RedactSecrets)
	env.boolean("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	env.str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	env.boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	env.str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	env.str("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	env.float("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
	env.boolean("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
}

// applyProviderEnvOverrides applies overrides for one provider. Variables
// follow SCRIBE_PROVIDERS_<NAME>_<FIELD>, where NAME is the upper-cased
// provider name with '-' and '.' replaced by '_'.
//
// A provider absent from the file is added only when at least one of its
// variables is set.
func applyProviderEnvOverrides(cfg *Config, providerName string, env envReader) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	provider, exists := cfg.Providers[providerName]
	prefix := "PROVIDERS_" + EnvName(providerName) + "_"

	modified := false
	modified = env.str(prefix+"TYPE", &provider.Type) || modified
	modified = env.str(prefix+"BASE_URL", &provider.BaseURL) || modified
	modified = env.str(prefix+"API_KEY", &provider.APIKey) || modified
	modified = env.str(prefix+"MODEL", &provider.Model) || modified
	modified = env.float(prefix+"WEIGHT", &provider.Weight) || modified
	modified = env.float(prefix+"COST_PER_1K_TOKENS", &provider.CostPer1KTokens) || modified
	modified = env.int64(prefix+"DAILY_TOKEN_QUOTA", &provider.DailyTokenQuota) || modified
	modified = env.integer(prefix+"MAX_TOKENS", &provider.MaxTokens) || modified
	modified = env.duration(prefix+"TIMEOUT", &provider.Timeout) || modified
	modified = env.integer(prefix+"MAX_RETRIES", &provider.MaxRetries) || modified

	if modified || exists {
		cfg.Providers[providerName] = provider
	}
}

// EnvName converts a provider name to its environment variable segment.
func EnvName(providerName string) string {
	r := strings.NewReplacer("-", "_", ".", "_", " ", "_")
	return strings.ToUpper(r.Replace(providerName))
}
