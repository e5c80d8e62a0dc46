// Package selection picks the winning draft among provider outcomes.
//
// Only successful outcomes with a quality score above the minimum are
// candidates. Candidates are ranked by a composite of quality, provider
// weight and a small latency bonus; ties fall back to weight and then to
// provider name, so the ranking is a total order and never depends on the
// order outcomes arrived in.
package selection

import (
	"errors"
	"math"
	"sort"

	"mercator-hq/scribe/pkg/providers"
)

const (
	// DefaultMaxLatencyBonus is the bonus for a response in under a second.
	DefaultMaxLatencyBonus = 5.0

	// DefaultMinQuality is the quality a draft must exceed to be considered.
	DefaultMinQuality = 0.0
)

// ErrNoWinner is returned when no outcome qualifies.
var ErrNoWinner = errors.New("no successful outcome qualifies for selection")

// Candidate is a successful outcome with its scores.
type Candidate struct {
	Outcome   providers.Outcome
	Weight    float64
	Quality   float64
	Composite float64
}

// Selection is the ranked result. Winner is Ranked[0].
type Selection struct {
	Winner Candidate
	Ranked []Candidate
}

// QualityFunc scores an outcome's text.
type QualityFunc func(text string) float64

// WeightFunc returns the configured weight of a provider.
type WeightFunc func(provider string) float64

// Config tunes the selector.
type Config struct {
	MinQuality      float64
	MaxLatencyBonus float64
}

// DefaultConfig returns the default selector configuration.
func DefaultConfig() Config {
	return Config{
		MinQuality:      DefaultMinQuality,
		MaxLatencyBonus: DefaultMaxLatencyBonus,
	}
}

// Selector ranks outcomes.
type Selector struct {
	config Config
}

// NewSelector creates a selector.
func NewSelector(cfg Config) *Selector {
	if cfg.MaxLatencyBonus < 0 {
		cfg.MaxLatencyBonus = 0
	}
	return &Selector{config: cfg}
}

// LatencyBonus returns max/(1+whole seconds of latency).
func (s *Selector) LatencyBonus(o providers.Outcome) float64 {
	secs := math.Floor(o.Latency.Seconds())
	if secs < 0 {
		secs = 0
	}
	return s.config.MaxLatencyBonus / (1 + secs)
}

// Select ranks the qualifying outcomes. Failed outcomes are never
// candidates. It returns ErrNoWinner when nothing qualifies.
func (s *Selector) Select(outcomes []providers.Outcome, quality QualityFunc, weight WeightFunc) (*Selection, error) {
	var ranked []Candidate
	for _, o := range outcomes {
		if !o.Success {
			continue
		}
		q := quality(o.Text)
		if math.IsNaN(q) || q <= s.config.MinQuality {
			continue
		}
		w := weight(o.Provider)
		ranked = append(ranked, Candidate{
			Outcome:   o,
			Weight:    w,
			Quality:   q,
			Composite: q + w*100 + s.LatencyBonus(o),
		})
	}
	if len(ranked) == 0 {
		return nil, ErrNoWinner
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Composite != b.Composite {
			return a.Composite > b.Composite
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		return a.Outcome.Provider < b.Outcome.Provider
	})

	return &Selection{Winner: ranked[0], Ranked: ranked}, nil
}
