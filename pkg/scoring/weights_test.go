package scoring

import (
	"math"
	"testing"
)

func TestWeights_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   Weights
		want Weights
	}{
		{
			name: "defaults already sum to 100",
			in:   DefaultWeights(),
			want: DefaultWeights(),
		},
		{
			name: "ratios are kept",
			in:   Weights{Length: 1, Keyword: 1, Structure: 1, Links: 1, Readability: 0},
			want: Weights{Length: 25, Keyword: 25, Structure: 25, Links: 25},
		},
		{
			name: "all zero falls back to defaults",
			in:   Weights{},
			want: DefaultWeights(),
		},
		{
			name: "negative falls back to defaults",
			in:   Weights{Length: -5, Keyword: 10},
			want: DefaultWeights(),
		},
		{
			name: "NaN falls back to defaults",
			in:   Weights{Length: math.NaN(), Keyword: 10},
			want: DefaultWeights(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			for i, v := range got.values() {
				if math.Abs(v-tt.want.values()[i]) > 1e-9 {
					t.Errorf("Normalized() = %+v, want %+v", got, tt.want)
					break
				}
			}
			if math.Abs(got.sum()-100) > 1e-9 {
				t.Errorf("sum = %v, want 100", got.sum())
			}
		})
	}
}

func TestLengthFit(t *testing.T) {
	tests := []struct {
		words, target int
		want          float64
	}{
		{0, 800, 0},
		{400, 800, 0.5},
		{800, 800, 1},
		{960, 800, 800.0 / 960},
		{1600, 800, 0.5},
		{2000, 800, 0.4},
		{800, 0, 1},
	}
	for _, tt := range tests {
		if got := lengthFit(tt.words, tt.target); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("lengthFit(%d, %d) = %v, want %v", tt.words, tt.target, got, tt.want)
		}
	}
}

func TestLengthFit_CloserScoresHigher(t *testing.T) {
	const target = 800
	prevBelow, prevAbove := -1.0, -1.0
	for d := 790; d >= 0; d -= 10 {
		below := lengthFit(target-d, target)
		above := lengthFit(target+d, target)
		if below <= prevBelow || above <= prevAbove {
			t.Fatalf("distance %d: below %.4f (prev %.4f), above %.4f (prev %.4f); fit must rise toward the target",
				d, below, prevBelow, above, prevAbove)
		}
		prevBelow, prevAbove = below, above
	}
	if prevBelow != 1 || prevAbove != 1 {
		t.Errorf("fit at target = %v/%v, want 1", prevBelow, prevAbove)
	}
}
