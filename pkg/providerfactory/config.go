package providerfactory

import (
	"mercator-hq/scribe/pkg/config"
	"mercator-hq/scribe/pkg/providers"
)

// Descriptors converts the providers section of cfg into descriptors,
// ordered by name.
func Descriptors(cfg *config.Config) []providers.Descriptor {
	names := cfg.ProviderNames()
	descs := make([]providers.Descriptor, 0, len(names))
	for _, name := range names {
		p := cfg.Providers[name]
		descs = append(descs, providers.Descriptor{
			Name:            name,
			Type:            providers.Type(p.Type),
			Model:           p.Model,
			BaseURL:         p.BaseURL,
			APIKey:          p.APIKey,
			Weight:          p.Weight,
			CostPer1KTokens: p.CostPer1KTokens,
			DailyTokenQuota: p.DailyTokenQuota,
			MaxTokens:       p.MaxTokens,
			Temperature:     p.Temperature,
			Streaming:       p.Streaming,
			Timeout:         p.Timeout,
			MaxRetries:      p.MaxRetries,
		})
	}
	return descs
}

// FromConfig builds the provider registry for cfg.
func FromConfig(cfg *config.Config) (*providers.Registry, error) {
	return NewRegistry(Descriptors(cfg))
}
