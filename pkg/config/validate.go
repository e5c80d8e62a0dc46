package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
//
// A provider without an API key is valid: it is simply unconfigured and
// never dispatched to.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateGeneration(&cfg.Generation)...)
	errs = append(errs, validateScoring(&cfg.Scoring)...)
	errs = append(errs, validateSelection(&cfg.Selection)...)
	errs = append(errs, validateUsage(&cfg.Usage)...)
	errs = append(errs, validateCosts(&cfg.Costs)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	durations := []struct {
		field string
		d     time.Duration
	}{
		{"server.read_timeout", cfg.ReadTimeout},
		{"server.write_timeout", cfg.WriteTimeout},
		{"server.idle_timeout", cfg.IdleTimeout},
		{"server.shutdown_timeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.d < 0 {
			errs = append(errs, FieldError{Field: d.field, Message: "timeout must be positive"})
		}
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}

	return errs
}

var validProviderTypes = map[string]bool{"": true, "openai": true, "anthropic": true, "generic": true}

func validateProviders(providers map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	if len(providers) == 0 {
		errs = append(errs, FieldError{
			Field:   "providers",
			Message: "at least one provider must be configured",
		})
		return errs
	}

	for name, provider := range providers {
		prefix := fmt.Sprintf("providers.%s", name)

		if strings.TrimSpace(name) == "" {
			errs = append(errs, FieldError{Field: "providers", Message: "provider name must not be empty"})
		}

		if !validProviderTypes[provider.Type] {
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Message: fmt.Sprintf("invalid provider type %q: must be 'openai', 'anthropic' or 'generic'", provider.Type),
			})
		}

		if provider.Type == "generic" && provider.BaseURL == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".base_url",
				Message: "base URL is required for generic providers",
			})
		}
		if provider.BaseURL != "" {
			if u, err := url.Parse(provider.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: fmt.Sprintf("invalid URL %q", provider.BaseURL),
				})
			}
		}

		if provider.Weight < 0 || provider.Weight > 1 {
			errs = append(errs, FieldError{
				Field:   prefix + ".weight",
				Message: "weight must be between 0.0 and 1.0",
			})
		}
		if provider.CostPer1KTokens < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".cost_per_1k_tokens",
				Message: "cost must be non-negative",
			})
		}
		if provider.DailyTokenQuota < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".daily_token_quota",
				Message: "daily token quota must be non-negative (0 = unlimited)",
			})
		}
		if provider.MaxTokens < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_tokens",
				Message: "max tokens must be non-negative",
			})
		}
		if provider.Temperature < 0 || provider.Temperature > 2 {
			errs = append(errs, FieldError{
				Field:   prefix + ".temperature",
				Message: "temperature must be between 0.0 and 2.0",
			})
		}
		if provider.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".timeout",
				Message: "timeout must be positive",
			})
		}
		if provider.MaxRetries < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_retries",
				Message: "max retries must be non-negative",
			})
		}
		if provider.MaxRetries > 10 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_retries",
				Message: "max retries exceeds reasonable limit (10)",
			})
		}
	}

	return errs
}

func validateGeneration(cfg *GenerationConfig) []FieldError {
	var errs []FieldError

	if cfg.ProviderTimeout < 0 {
		errs = append(errs, FieldError{Field: "generation.provider_timeout", Message: "timeout must be positive"})
	}
	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{Field: "generation.request_timeout", Message: "timeout must be non-negative"})
	}
	if cfg.PreflightTimeout < 0 {
		errs = append(errs, FieldError{Field: "generation.preflight_timeout", Message: "timeout must be positive"})
	}
	if cfg.RequestTimeout > 0 && cfg.RequestTimeout < cfg.ProviderTimeout {
		errs = append(errs, FieldError{
			Field:   "generation.request_timeout",
			Message: "request timeout must not be shorter than provider timeout",
		})
	}

	return errs
}

func validateScoring(cfg *ScoringConfig) []FieldError {
	var errs []FieldError

	weights := []struct {
		field string
		v     float64
	}{
		{"scoring.length", cfg.Length},
		{"scoring.keyword", cfg.Keyword},
		{"scoring.structure", cfg.Structure},
		{"scoring.links", cfg.Links},
		{"scoring.readability", cfg.Readability},
	}
	sum := 0.0
	for _, w := range weights {
		if w.v < 0 || math.IsNaN(w.v) || math.IsInf(w.v, 0) {
			errs = append(errs, FieldError{Field: w.field, Message: "weight must be finite and non-negative"})
			continue
		}
		sum += w.v
	}
	if len(errs) == 0 && sum == 0 {
		errs = append(errs, FieldError{Field: "scoring", Message: "weights must not all be zero"})
	}

	return errs
}

func validateSelection(cfg *SelectionConfig) []FieldError {
	var errs []FieldError

	if cfg.MinQuality < 0 || cfg.MinQuality >= 100 {
		errs = append(errs, FieldError{
			Field:   "selection.min_quality",
			Message: "min quality must be in [0, 100)",
		})
	}
	if cfg.MaxLatencyBonus < 0 {
		errs = append(errs, FieldError{
			Field:   "selection.max_latency_bonus",
			Message: "max latency bonus must be non-negative",
		})
	}

	return errs
}

func validateUsage(cfg *UsageConfig) []FieldError {
	var errs []FieldError

	if cfg.FailureThreshold < 1 {
		errs = append(errs, FieldError{
			Field:   "usage.failure_threshold",
			Message: "failure threshold must be at least 1",
		})
	}

	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{Field: "usage.sqlite.path", Message: "path is required for the sqlite backend"})
		}
	case "redis":
		if cfg.Redis.Addr == "" {
			errs = append(errs, FieldError{Field: "usage.redis.addr", Message: "address is required for the redis backend"})
		}
		if cfg.Redis.DB < 0 {
			errs = append(errs, FieldError{Field: "usage.redis.db", Message: "db must be non-negative"})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "usage.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory', 'sqlite' or 'redis'", cfg.Backend),
		})
	}

	if cfg.Retention.Days < 1 {
		errs = append(errs, FieldError{Field: "usage.retention.days", Message: "retention days must be at least 1"})
	}
	if cfg.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "usage.retention.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateCosts(cfg *CostsConfig) []FieldError {
	var errs []FieldError
	for model, price := range cfg.Pricing {
		if price < 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("costs.pricing.%s", model),
				Message: "price must be non-negative",
			})
		}
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never' or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	for field, path := range map[string]string{
		"telemetry.health.liveness_path":  cfg.Health.LivenessPath,
		"telemetry.health.readiness_path": cfg.Health.ReadinessPath,
	} {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, FieldError{Field: field, Message: "path must start with /"})
		}
	}
	if cfg.Health.CheckTimeout < 0 || cfg.Health.CheckTimeout > 60*time.Second {
		errs = append(errs, FieldError{
			Field:   "telemetry.health.check_timeout",
			Message: "check timeout must be between 0 and 60s",
		})
	}

	return errs
}
