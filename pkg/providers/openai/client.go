package openai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"mercator-hq/scribe/pkg/providers"
)

const (
	// DefaultBaseURL is the public OpenAI endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when the descriptor names no model.
	DefaultModel = "gpt-4o-mini"
)

// Provider is the OpenAI adapter. It talks to the chat completions API
// through the official SDK.
type Provider struct {
	desc   providers.Descriptor
	client sdk.Client
	http   *http.Client
}

// NewProvider creates a new OpenAI adapter. A missing API key is not an
// error; the adapter reports itself as unconfigured instead.
func NewProvider(desc providers.Descriptor) (*Provider, error) {
	if desc.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "openai",
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

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        desc.MaxIdleConns,
			MaxIdleConnsPerHost: desc.MaxIdleConnsPerHost,
			IdleConnTimeout:     desc.IdleConnTimeout,
			ForceAttemptHTTP2:   true,
		},
		Timeout: desc.Timeout,
	}

	retries := desc.MaxRetries
	if retries < 0 {
		retries = 0
	}

	p := &Provider{
		desc: desc,
		http: httpClient,
		client: sdk.NewClient(
			option.WithAPIKey(desc.APIKey),
			option.WithBaseURL(desc.BaseURL+"/"),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(retries),
		),
	}

	slog.Info("OpenAI provider initialized",
		"provider", desc.Name,
		"base_url", desc.BaseURL,
		"model", desc.Model,
		"configured", p.Configured(),
	)

	return p, nil
}

// Name implements providers.Adapter.
func (p *Provider) Name() string {
	return p.desc.Name
}

// Descriptor implements providers.Adapter.
func (p *Provider) Descriptor() providers.Descriptor {
	return p.desc
}

// Configured reports whether an API key is present.
func (p *Provider) Configured() bool {
	return p.desc.APIKey != ""
}

// Complete sends a single prompt to the chat completions API.
func (p *Provider) Complete(ctx context.Context, prompt providers.Prompt, opts providers.Options) (*providers.Completion, error) {
	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, buildParams(p.desc, prompt, opts))
	if err != nil {
		return nil, mapError(p.desc, err)
	}

	c, err := parseCompletion(resp)
	if err != nil {
		return nil, &providers.ParseError{Provider: p.desc.Name, Cause: err}
	}

	slog.Debug("completion request succeeded",
		"provider", p.desc.Name,
		"model", c.Model,
		"tokens", c.Usage.TotalTokens,
		"duration", time.Since(start),
	)
	return c, nil
}

// TestConnection lists models, which needs a valid key but costs no tokens.
func (p *Provider) TestConnection(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return mapError(p.desc, err)
	}
	return nil
}

// Close releases idle connections.
func (p *Provider) Close() error {
	p.http.CloseIdleConnections()
	return nil
}
