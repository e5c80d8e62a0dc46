package selection

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"mercator-hq/scribe/pkg/providers"
)

func ok(name, text string, latency time.Duration) providers.Outcome {
	return providers.Outcome{Provider: name, Success: true, Text: text, Latency: latency}
}

func fixedQuality(scores map[string]float64) QualityFunc {
	return func(text string) float64 { return scores[text] }
}

func fixedWeight(weights map[string]float64) WeightFunc {
	return func(name string) float64 { return weights[name] }
}

func TestLatencyBonus(t *testing.T) {
	s := NewSelector(DefaultConfig())
	tests := []struct {
		latency time.Duration
		want    float64
	}{
		{0, 5},
		{999 * time.Millisecond, 5},
		{time.Second, 2.5},
		{1900 * time.Millisecond, 2.5},
		{4 * time.Second, 1},
		{-time.Second, 5},
	}
	for _, tt := range tests {
		if got := s.LatencyBonus(providers.Outcome{Latency: tt.latency}); got != tt.want {
			t.Errorf("LatencyBonus(%v) = %v, want %v", tt.latency, got, tt.want)
		}
	}
}

func TestSelect_Ranking(t *testing.T) {
	s := NewSelector(DefaultConfig())
	outcomes := []providers.Outcome{
		ok("a", "text-a", 0),
		ok("b", "text-b", 0),
		ok("c", "text-c", 3*time.Second),
		{Provider: "d", ErrorClass: providers.ClassTimeout},
	}
	quality := fixedQuality(map[string]float64{"text-a": 70, "text-b": 60, "text-c": 90})
	weight := fixedWeight(map[string]float64{"a": 0.5, "b": 0.8, "c": 0.1})

	sel, err := s.Select(outcomes, quality, weight)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	// a: 70+50+5 = 125, b: 60+80+5 = 145, c: 90+10+1.25 = 101.25
	var names []string
	for _, c := range sel.Ranked {
		names = append(names, c.Outcome.Provider)
	}
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(names, want) {
		t.Errorf("ranking = %v, want %v", names, want)
	}
	if sel.Winner.Outcome.Provider != "b" || sel.Winner.Composite != 145 {
		t.Errorf("winner = %s (%.2f), want b (145)", sel.Winner.Outcome.Provider, sel.Winner.Composite)
	}
}

func TestSelect_TieBreaks(t *testing.T) {
	s := NewSelector(DefaultConfig())

	// Equal composite, different weight: 80+50+5 vs 100+30+5.
	sel, err := s.Select(
		[]providers.Outcome{ok("low", "x", 0), ok("high", "y", 0)},
		fixedQuality(map[string]float64{"x": 100, "y": 80}),
		fixedWeight(map[string]float64{"low": 0.3, "high": 0.5}),
	)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Winner.Outcome.Provider != "high" {
		t.Errorf("winner = %s, want high (greater weight)", sel.Winner.Outcome.Provider)
	}

	// Equal everything: name ascending.
	sel, err = s.Select(
		[]providers.Outcome{ok("zeta", "x", 0), ok("alpha", "x", 0)},
		fixedQuality(map[string]float64{"x": 50}),
		fixedWeight(map[string]float64{"zeta": 0.5, "alpha": 0.5}),
	)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Winner.Outcome.Provider != "alpha" {
		t.Errorf("winner = %s, want alpha", sel.Winner.Outcome.Provider)
	}
}

func TestSelect_OrderIndependent(t *testing.T) {
	s := NewSelector(DefaultConfig())
	quality := fixedQuality(map[string]float64{"x": 50, "y": 50, "z": 60})
	weight := fixedWeight(map[string]float64{"p": 0.5, "q": 0.5, "r": 0.4})

	a := []providers.Outcome{ok("p", "x", 0), ok("q", "y", 0), ok("r", "z", 0)}
	b := []providers.Outcome{a[2], a[0], a[1]}

	selA, _ := s.Select(a, quality, weight)
	selB, _ := s.Select(b, quality, weight)
	if !reflect.DeepEqual(selA, selB) {
		t.Error("ranking depends on input order")
	}
}

func TestSelect_NoWinner(t *testing.T) {
	s := NewSelector(Config{MinQuality: 10, MaxLatencyBonus: 5})
	quality := fixedQuality(map[string]float64{"weak": 10, "zero": 0})
	weight := fixedWeight(nil)

	tests := []struct {
		name     string
		outcomes []providers.Outcome
	}{
		{"empty", nil},
		{"all failed", []providers.Outcome{{Provider: "a", Text: "weak"}, {Provider: "b"}}},
		{"at minimum quality", []providers.Outcome{ok("a", "weak", 0), ok("b", "zero", 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Select(tt.outcomes, quality, weight); !errors.Is(err, ErrNoWinner) {
				t.Errorf("Select() error = %v, want ErrNoWinner", err)
			}
		})
	}
}

func TestSelect_NeverReturnsFailure(t *testing.T) {
	s := NewSelector(DefaultConfig())
	outcomes := []providers.Outcome{
		{Provider: "failed", Text: "great", Success: false},
		ok("ok", "fine", 0),
	}
	sel, err := s.Select(outcomes,
		fixedQuality(map[string]float64{"great": 100, "fine": 1}),
		fixedWeight(map[string]float64{"failed": 1}),
	)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	for _, c := range sel.Ranked {
		if !c.Outcome.Success {
			t.Fatalf("failed outcome %s was ranked", c.Outcome.Provider)
		}
	}
}
