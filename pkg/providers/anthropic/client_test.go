package anthropic

import (
	"context"
	"errors"
	"testing"
	"time"

	"mercator-hq/scribe/internal/providertest"
	"mercator-hq/scribe/pkg/providers"
)

func testDescriptor(url string) providers.Descriptor {
	return providers.Descriptor{
		Name:       "anthropic",
		Type:       providers.TypeAnthropic,
		BaseURL:    url,
		APIKey:     "test-key",
		Model:      "claude-test",
		Timeout:    5 * time.Second,
		MaxRetries: 1,
	}
}

func TestProvider_Complete(t *testing.T) {
	mock := providertest.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/messages", providertest.MockResponse{
		StatusCode: 200,
		Body:       providertest.AnthropicResponse("Hello, world!", "claude-test"),
	})

	p, err := NewProvider(testDescriptor(mock.URL()))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer p.Close()

	c, err := p.Complete(context.Background(), providers.Prompt{System: "sys", User: "Hello"}, providers.Options{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if c.Text != "Hello, world!" {
		t.Errorf("Text = %q, want %q", c.Text, "Hello, world!")
	}
	if c.Usage.TotalTokens != 30 {
		t.Errorf("TotalTokens = %d, want 30", c.Usage.TotalTokens)
	}
	if c.FinishReason != providers.FinishReasonStop {
		t.Errorf("FinishReason = %q, want %q", c.FinishReason, providers.FinishReasonStop)
	}

	h := mock.LastHeaders()
	if h.Get("x-api-key") != "test-key" {
		t.Errorf("x-api-key header = %q", h.Get("x-api-key"))
	}
	if h.Get("anthropic-version") != DefaultAnthropicVersion {
		t.Errorf("anthropic-version header = %q", h.Get("anthropic-version"))
	}
}

func TestProvider_ErrorClasses(t *testing.T) {
	tests := []struct {
		name     string
		response providertest.MockResponse
		want     providers.ErrorClass
	}{
		{"auth", providertest.AuthError(), providers.ClassAuthFailed},
		{"rate limit", providertest.RateLimitError(1), providers.ClassRateLimited},
		{"quota", providertest.QuotaError(), providers.ClassQuotaExhausted},
		{"server", providertest.ServerError(), providers.ClassServerError},
		{"bad json", providertest.MockResponse{StatusCode: 200, Body: "not json"}, providers.ClassInvalidResponse},
		{
			"no text blocks",
			providertest.MockResponse{StatusCode: 200, Body: map[string]any{"id": "x", "content": []any{}}},
			providers.ClassInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := providertest.NewMockServer()
			defer mock.Close()
			mock.SetResponse("/v1/messages", tt.response)

			p, err := NewProvider(testDescriptor(mock.URL()))
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			p.SetRetryBackoff(time.Millisecond)

			_, err = p.Complete(context.Background(), providers.Prompt{User: "hi"}, providers.Options{})
			if got := providers.Classify(err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", err, got, tt.want)
			}
		})
	}
}

func TestProvider_RetriesServerErrors(t *testing.T) {
	mock := providertest.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/v1/messages", providertest.ServerError())

	p, _ := NewProvider(testDescriptor(mock.URL()))
	p.SetRetryBackoff(time.Millisecond)

	_, err := p.Complete(context.Background(), providers.Prompt{User: "hi"}, providers.Options{})
	var provErr *providers.ProviderError
	if !errors.As(err, &provErr) || provErr.StatusCode != 500 {
		t.Fatalf("Complete() error = %v, want 500 ProviderError", err)
	}
	if got := mock.RequestCount("/v1/messages"); got != 2 {
		t.Errorf("request count = %d, want 2 (1 + 1 retry)", got)
	}
}

func TestProvider_Configured(t *testing.T) {
	desc := testDescriptor("")
	desc.APIKey = ""
	p, err := NewProvider(desc)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Configured() {
		t.Error("Configured() = true without API key")
	}
	if p.Descriptor().BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", p.Descriptor().BaseURL)
	}

	if _, err := NewProvider(providers.Descriptor{}); err == nil {
		t.Error("NewProvider() with empty name should fail")
	}
}

func TestProvider_TestConnection(t *testing.T) {
	mock := providertest.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/v1/models", providertest.MockResponse{StatusCode: 200, Body: map[string]any{"data": []any{}}})

	p, _ := NewProvider(testDescriptor(mock.URL()))
	if err := p.TestConnection(context.Background()); err != nil {
		t.Errorf("TestConnection() error = %v", err)
	}

	mock.SetResponse("/v1/models", providertest.AuthError())
	var authErr *providers.AuthError
	if err := p.TestConnection(context.Background()); !errors.As(err, &authErr) {
		t.Errorf("TestConnection() error = %v, want AuthError", err)
	}
}
