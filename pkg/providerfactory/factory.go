package providerfactory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"mercator-hq/scribe/pkg/providers"
	"mercator-hq/scribe/pkg/providers/anthropic"
	"mercator-hq/scribe/pkg/providers/generic"
	"mercator-hq/scribe/pkg/providers/openai"
)

// NewAdapter creates the adapter for a descriptor.
//
// Supported types:
//   - "openai": OpenAI chat completions (official SDK)
//   - "anthropic": Anthropic Messages API
//   - "generic": OpenAI-compatible APIs (Ollama, LM Studio, vLLM, etc.)
//
// When Type is empty it is inferred from the name.
func NewAdapter(desc providers.Descriptor) (providers.Adapter, error) {
	if desc.Type == "" {
		desc.Type = inferType(desc.Name)
	}

	slog.Debug("creating provider",
		"name", desc.Name,
		"type", desc.Type,
		"base_url", desc.BaseURL,
	)

	var (
		adapter providers.Adapter
		err     error
	)
	switch desc.Type {
	case providers.TypeOpenAI:
		adapter, err = openai.NewProvider(desc)
	case providers.TypeAnthropic:
		adapter, err = anthropic.NewProvider(desc)
	case providers.TypeGeneric:
		adapter, err = generic.NewProvider(desc)
	default:
		return nil, &providers.ConfigError{
			Provider: desc.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type: %q (supported: openai, anthropic, generic)", desc.Type),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", desc.Name, err)
	}
	return adapter, nil
}

// NewRegistry builds adapters for every descriptor and returns them as a
// registry. Construction stops at the first invalid descriptor.
func NewRegistry(descs []providers.Descriptor) (*providers.Registry, error) {
	adapters := make([]providers.Adapter, 0, len(descs))
	for _, d := range descs {
		a, err := NewAdapter(d)
		if err != nil {
			Close(adapters)
			return nil, err
		}
		adapters = append(adapters, a)
	}

	reg, err := providers.NewRegistry(adapters...)
	if err != nil {
		Close(adapters)
		return nil, err
	}

	slog.Info("provider registry created",
		"providers", reg.Names(),
		"configured", len(reg.Configured()),
	)
	return reg, nil
}

// Close releases resources held by adapters that support it.
func Close(adapters []providers.Adapter) error {
	var errs []error
	for _, a := range adapters {
		if c, ok := a.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", a.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// inferType infers the adapter type from the provider name.
func inferType(name string) providers.Type {
	switch name {
	case "openai":
		return providers.TypeOpenAI
	case "anthropic", "claude":
		return providers.TypeAnthropic
	default:
		return providers.TypeGeneric
	}
}
