package scoring

import (
	"fmt"
	"math"

	"mercator-hq/scribe/pkg/config"
)

// Weights sets the relative importance of each sub-score.
// Only ratios matter; Normalized rescales them to sum to 100.
type Weights struct {
	Length      float64 `yaml:"length" json:"length"`
	Keyword     float64 `yaml:"keyword" json:"keyword"`
	Structure   float64 `yaml:"structure" json:"structure"`
	Links       float64 `yaml:"links" json:"links"`
	Readability float64 `yaml:"readability" json:"readability"`
}

// DefaultWeights returns the default 30/20/25/15/10 split.
func DefaultWeights() Weights {
	return Weights{
		Length:      30,
		Keyword:     20,
		Structure:   25,
		Links:       15,
		Readability: 10,
	}
}

func (w Weights) values() []float64 {
	return []float64{w.Length, w.Keyword, w.Structure, w.Links, w.Readability}
}

func (w Weights) sum() float64 {
	total := 0.0
	for _, v := range w.values() {
		total += v
	}
	return total
}

// Validate rejects negative, non-finite or all-zero weights.
func (w Weights) Validate() error {
	for _, v := range w.values() {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("scoring weights must be finite and non-negative, got %+v", w)
		}
	}
	if w.sum() <= 0 {
		return fmt.Errorf("scoring weights must not all be zero")
	}
	return nil
}

// Normalized returns w rescaled to sum to 100. Invalid weights normalize
// to the defaults.
func (w Weights) Normalized() Weights {
	if w.Validate() != nil {
		w = DefaultWeights()
	}
	f := 100 / w.sum()
	return Weights{
		Length:      w.Length * f,
		Keyword:     w.Keyword * f,
		Structure:   w.Structure * f,
		Links:       w.Links * f,
		Readability: w.Readability * f,
	}
}

// WeightsFromConfig returns the weights of the scoring section.
func WeightsFromConfig(c config.ScoringConfig) Weights {
	return Weights{
		Length:      c.Length,
		Keyword:     c.Keyword,
		Structure:   c.Structure,
		Links:       c.Links,
		Readability: c.Readability,
	}
}
