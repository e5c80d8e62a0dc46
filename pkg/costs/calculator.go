// Package costs converts token usage into monetary cost.
package costs

import (
	"math"
	"sync"

	"mercator-hq/scribe/pkg/providers"
)

// Calculator prices token usage. It is safe for concurrent use and its
// model overrides can be replaced at runtime.
type Calculator struct {
	// modelPricing overrides the descriptor rate for specific models,
	// in cost per 1K tokens.
	modelPricing map[string]float64

	mu sync.RWMutex
}

// NewCalculator creates a calculator with optional per-model overrides.
func NewCalculator(modelPricing map[string]float64) *Calculator {
	c := &Calculator{}
	c.SetModelPricing(modelPricing)
	return c
}

// SetModelPricing replaces the per-model overrides.
func (c *Calculator) SetModelPricing(modelPricing map[string]float64) {
	m := make(map[string]float64, len(modelPricing))
	for k, v := range modelPricing {
		m[k] = v
	}
	c.mu.Lock()
	c.modelPricing = m
	c.mu.Unlock()
}

// Rate returns the cost per 1K tokens applied to desc.
func (c *Calculator) Rate(desc providers.Descriptor) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if rate, ok := c.modelPricing[desc.Model]; ok {
		return rate
	}
	return desc.CostPer1KTokens
}

// Cost returns the cost of tokens for desc, rounded to 6 decimal places.
func (c *Calculator) Cost(desc providers.Descriptor, tokens int) float64 {
	return calculateTokenCost(tokens, c.Rate(desc))
}

// calculateTokenCost calculates cost for a given number of tokens and price per 1K tokens.
func calculateTokenCost(tokens int, pricePer1K float64) float64 {
	if tokens <= 0 || pricePer1K <= 0 {
		return 0
	}
	cost := (float64(tokens) / 1000.0) * pricePer1K
	return math.Round(cost*1e6) / 1e6
}
