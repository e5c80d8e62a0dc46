package generic

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"mercator-hq/scribe/pkg/providers"
)

// Provider is a generic OpenAI-compatible adapter for self-hosted or
// third-party endpoints such as Ollama, LM Studio or vLLM.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new generic adapter. The endpoint is the
// credential for this type: without a base URL the adapter is unconfigured.
func NewProvider(desc providers.Descriptor) (*Provider, error) {
	if desc.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "generic",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	desc.BaseURL = strings.TrimRight(desc.BaseURL, "/")

	// Local providers typically don't need retries
	if desc.MaxRetries == 0 {
		desc.MaxRetries = 1
	}
	if desc.MaxIdleConns == 0 {
		desc.MaxIdleConns = 10
	}
	if desc.MaxIdleConnsPerHost == 0 {
		desc.MaxIdleConnsPerHost = 5
	}

	p := &Provider{HTTPProvider: providers.NewHTTPProvider(desc)}

	slog.Info("Generic OpenAI-compatible provider initialized",
		"provider", desc.Name,
		"base_url", desc.BaseURL,
		"configured", p.Configured(),
	)

	return p, nil
}

// Configured reports whether an endpoint is set.
func (p *Provider) Configured() bool {
	return p.Descriptor().BaseURL != ""
}

func (p *Provider) headers() map[string]string {
	h := map[string]string{"Content-Type": "application/json"}
	if key := p.Descriptor().APIKey; key != "" {
		h["Authorization"] = "Bearer " + key
	}
	return h
}

// Complete sends a single prompt to the chat completions endpoint.
func (p *Provider) Complete(ctx context.Context, prompt providers.Prompt, opts providers.Options) (*providers.Completion, error) {
	desc := p.Descriptor()

	var resp chatResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, desc.BaseURL+"/chat/completions",
		buildRequest(desc, prompt, opts), &resp, p.headers()); err != nil {
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

// TestConnection lists the models served by the endpoint.
func (p *Provider) TestConnection(ctx context.Context) error {
	return p.DoJSONRequest(ctx, http.MethodGet, p.Descriptor().BaseURL+"/models", nil, nil, p.headers())
}
