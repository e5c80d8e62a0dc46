package config

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Providers = map[string]ProviderConfig{
		"openai": {Model: "gpt-4o-mini", Weight: 0.8},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:      "empty listen address",
			mutate:    func(c *Config) { c.Server.ListenAddress = "" },
			wantField: "server.listen_address",
		},
		{
			name:      "no providers",
			mutate:    func(c *Config) { c.Providers = nil },
			wantField: "providers",
		},
		{
			name: "unknown provider type",
			mutate: func(c *Config) {
				c.Providers["x"] = ProviderConfig{Type: "cohere", Weight: 0.5}
			},
			wantField: "providers.x.type",
		},
		{
			name: "generic without base url",
			mutate: func(c *Config) {
				c.Providers["local"] = ProviderConfig{Type: "generic", Weight: 0.5}
			},
			wantField: "providers.local.base_url",
		},
		{
			name: "relative base url",
			mutate: func(c *Config) {
				c.Providers["local"] = ProviderConfig{Type: "generic", BaseURL: "localhost/v1", Weight: 0.5}
			},
			wantField: "providers.local.base_url",
		},
		{
			name: "weight above one",
			mutate: func(c *Config) {
				p := c.Providers["openai"]
				p.Weight = 1.5
				c.Providers["openai"] = p
			},
			wantField: "providers.openai.weight",
		},
		{
			name: "negative quota",
			mutate: func(c *Config) {
				p := c.Providers["openai"]
				p.DailyTokenQuota = -1
				c.Providers["openai"] = p
			},
			wantField: "providers.openai.daily_token_quota",
		},
		{
			name: "too many retries",
			mutate: func(c *Config) {
				p := c.Providers["openai"]
				p.MaxRetries = 11
				c.Providers["openai"] = p
			},
			wantField: "providers.openai.max_retries",
		},
		{
			name: "request shorter than provider timeout",
			mutate: func(c *Config) {
				c.Generation.RequestTimeout = c.Generation.ProviderTimeout / 2
			},
			wantField: "generation.request_timeout",
		},
		{
			name:      "negative scoring weight",
			mutate:    func(c *Config) { c.Scoring.Keyword = -1 },
			wantField: "scoring.keyword",
		},
		{
			name:      "nan scoring weight",
			mutate:    func(c *Config) { c.Scoring.Links = math.NaN() },
			wantField: "scoring.links",
		},
		{
			name: "all-zero scoring weights",
			mutate: func(c *Config) {
				c.Scoring = ScoringConfig{}
			},
			wantField: "scoring",
		},
		{
			name:      "min quality out of range",
			mutate:    func(c *Config) { c.Selection.MinQuality = 100 },
			wantField: "selection.min_quality",
		},
		{
			name:      "zero failure threshold",
			mutate:    func(c *Config) { c.Usage.FailureThreshold = 0 },
			wantField: "usage.failure_threshold",
		},
		{
			name:      "unknown backend",
			mutate:    func(c *Config) { c.Usage.Backend = "postgres" },
			wantField: "usage.backend",
		},
		{
			name:      "bad cron",
			mutate:    func(c *Config) { c.Usage.Retention.Schedule = "every day" },
			wantField: "usage.retention.schedule",
		},
		{
			name:      "negative price",
			mutate:    func(c *Config) { c.Costs.Pricing = map[string]float64{"gpt-4o": -0.1} },
			wantField: "costs.pricing.gpt-4o",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "trace" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "tracing without endpoint",
			mutate:    func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			wantField: "telemetry.tracing.endpoint",
		},
		{
			name:      "bad sampler",
			mutate:    func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" },
			wantField: "telemetry.tracing.sampler",
		},
		{
			name:      "relative health path",
			mutate:    func(c *Config) { c.Telemetry.Health.ReadinessPath = "ready" },
			wantField: "telemetry.health.readiness_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					return
				}
			}
			t.Errorf("Validate() errors = %v, want one for field %q", verr.Errors, tt.wantField)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	one := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := one.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("Error() = %q", got)
	}

	many := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}}
	got := many.Error()
	if !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("Error() = %q", got)
	}

	if (ValidationError{}).Error() != "configuration validation failed" {
		t.Error("empty ValidationError message changed")
	}
}

func TestValidate_MissingAPIKeyIsAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Providers["anthropic"] = ProviderConfig{Type: "anthropic", Weight: 0.7}
	if err := Validate(cfg); err != nil {
		t.Errorf("a provider without a key must validate (it is just unconfigured): %v", err)
	}
}
