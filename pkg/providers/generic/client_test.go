package generic

import (
	"context"
	"testing"
	"time"

	"mercator-hq/scribe/internal/providertest"
	"mercator-hq/scribe/pkg/providers"
)

func TestProvider_Complete(t *testing.T) {
	mock := providertest.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/v1/chat/completions", providertest.MockResponse{
		StatusCode: 200,
		Body:       providertest.OpenAIResponse("Hello from Ollama!", "llama3"),
	})

	p, err := NewProvider(providers.Descriptor{
		Name:    "ollama",
		Type:    providers.TypeGeneric,
		BaseURL: mock.URL() + "/v1/",
		Model:   "llama3",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer p.Close()

	c, err := p.Complete(context.Background(), providers.Prompt{User: "Hello"}, providers.Options{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if c.Text != "Hello from Ollama!" {
		t.Errorf("Text = %q", c.Text)
	}
	if got := mock.LastHeaders().Get("Authorization"); got != "" {
		t.Errorf("Authorization header sent without key: %q", got)
	}
}

func TestProvider_MissingUsage(t *testing.T) {
	mock := providertest.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/v1/chat/completions", providertest.MockResponse{
		StatusCode: 200,
		Body: map[string]any{
			"model":   "llama3",
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": "some text here"}}},
		},
	})

	p, _ := NewProvider(providers.Descriptor{Name: "ollama", BaseURL: mock.URL() + "/v1", Timeout: 5 * time.Second})

	out := providers.Generate(context.Background(), p, providers.Prompt{User: "Hello"}, providers.Options{}, time.Second)
	if !out.Success {
		t.Fatalf("Generate() failed: %v", out.Err)
	}
	if out.Tokens <= 0 {
		t.Errorf("Tokens = %d, want estimated positive value", out.Tokens)
	}
}

func TestProvider_Configured(t *testing.T) {
	p, err := NewProvider(providers.Descriptor{Name: "local"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Configured() {
		t.Error("Configured() = true without base URL")
	}

	out := providers.Generate(context.Background(), p, providers.Prompt{User: "x"}, providers.Options{}, time.Second)
	if out.ErrorClass != providers.ClassUnconfigured {
		t.Errorf("ErrorClass = %q, want %q", out.ErrorClass, providers.ClassUnconfigured)
	}
}
