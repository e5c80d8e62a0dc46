package anthropic

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"mercator-hq/scribe/pkg/providers"
)

const (
	// DefaultAnthropicVersion is the API version to use
	DefaultAnthropicVersion = "2023-06-01"

	// DefaultBaseURL is the public Anthropic endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultModel is used when the descriptor names no model.
	DefaultModel = "claude-3-5-haiku-latest"
)

// Provider is the Anthropic adapter for the Messages API.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new Anthropic adapter. A missing API key is not an
// error; the adapter reports itself as unconfigured instead.
func NewProvider(desc providers.Descriptor) (*Provider, error) {
	if desc.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "anthropic",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	desc.BaseURL = strings.TrimRight(desc.BaseURL, "/")
	if desc.BaseURL == "" {
		desc.BaseURL = DefaultBaseURL
	}
	if desc.Model == "" {
		desc.Model = DefaultModel
	}
	if desc.MaxRetries == 0 {
		desc.MaxRetries = 2
	}
	if desc.MaxIdleConns == 0 {
		desc.MaxIdleConns = 100
	}
	if desc.MaxIdleConnsPerHost == 0 {
		desc.MaxIdleConnsPerHost = 10
	}

	p := &Provider{HTTPProvider: providers.NewHTTPProvider(desc)}

	slog.Info("Anthropic provider initialized",
		"provider", desc.Name,
		"base_url", desc.BaseURL,
		"configured", p.Configured(),
	)

	return p, nil
}

// Configured reports whether an API key is present.
func (p *Provider) Configured() bool {
	return p.Descriptor().APIKey != ""
}

func (p *Provider) headers() map[string]string {
	return map[string]string{
		"x-api-key":         p.Descriptor().APIKey,
		"anthropic-version": DefaultAnthropicVersion,
		"Content-Type":      "application/json",
	}
}

// Complete sends a single prompt to the Messages API.
func (p *Provider) Complete(ctx context.Context, prompt providers.Prompt, opts providers.Options) (*providers.Completion, error) {
	desc := p.Descriptor()
	url := desc.BaseURL + "/v1/messages"

	var resp messagesResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, url, buildRequest(desc, prompt, opts), &resp, p.headers()); err != nil {
		return nil, err
	}

	c, err := parseResponse(&resp)
	if err != nil {
		return nil, &providers.ParseError{Provider: p.Name(), Cause: err}
	}

	slog.Debug("completion request succeeded",
		"provider", p.Name(),
		"model", c.Model,
		"tokens", c.Usage.TotalTokens,
	)
	return c, nil
}

// TestConnection lists models, which needs a valid key but costs no tokens.
func (p *Provider) TestConnection(ctx context.Context) error {
	url := p.Descriptor().BaseURL + "/v1/models?limit=1"
	return p.DoJSONRequest(ctx, http.MethodGet, url, nil, nil, p.headers())
}
