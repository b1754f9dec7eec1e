package wheel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threePrizeTable() []Prize {
	return []Prize{
		{ID: 1, Position: 0, Type: PrizeJP, Label: "50 JP", Value: 50, Probability: 0.5},
		{ID: 2, Position: 1, Type: PrizeJP, Label: "200 JP", Value: 200, Probability: 0.3},
		{ID: 3, Position: 2, Type: PrizeItem, Label: "Sticker pack", Probability: 0.2},
	}
}

func TestValidateProbabilities(t *testing.T) {
	tests := []struct {
		name        string
		probs       []float64
		expectError bool
	}{
		{"sums to one", []float64{0.5, 0.5}, false},
		{"sums under one", []float64{0.5, 0.4}, true},
		{"sums over one", []float64{0.7, 0.6}, true},
		{"within epsilon", []float64{0.5, 0.497}, false},
		{"single certain prize", []float64{1.0}, false},
		{"negative probability", []float64{1.5, -0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prizes := make([]Prize, 0, len(tt.probs))
			for i, p := range tt.probs {
				prizes = append(prizes, Prize{Position: i, Type: PrizeJP, Probability: p})
			}

			err := ValidateProbabilities(prizes)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidProbabilityTable)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateProbabilities_Empty(t *testing.T) {
	assert.ErrorIs(t, ValidateProbabilities(nil), ErrNoPrizes)
}

func TestDraw_DeterministicSequence(t *testing.T) {
	prizes := threePrizeTable()

	tests := []struct {
		r        float64
		expected string
	}{
		{0.0, "50 JP"},
		{0.49, "50 JP"},
		{0.5, "200 JP"},
		{0.79, "200 JP"},
		{0.8, "Sticker pack"},
		{0.999, "Sticker pack"},
	}

	for _, tt := range tests {
		got, err := Draw(prizes, func() float64 { return tt.r })
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got.Label, "r=%v", tt.r)
	}
}

func TestDraw_FallbackOnFloatDrift(t *testing.T) {
	// Probabilities that sum to slightly under 1.0 after float
	// accumulation; a draw just under 1.0 must still land on the
	// last prize rather than fail.
	prizes := []Prize{
		{Label: "a", Probability: 0.1},
		{Label: "b", Probability: 0.2},
		{Label: "c", Probability: 0.7},
	}

	got, err := Draw(prizes, func() float64 { return math.Nextafter(1, 0) })
	require.NoError(t, err)
	assert.Equal(t, "c", got.Label)
}

func TestDraw_Empty(t *testing.T) {
	_, err := Draw(nil, func() float64 { return 0.5 })
	assert.ErrorIs(t, err, ErrNoPrizes)
}

func TestDraw_ConvergesToConfiguredProbabilities(t *testing.T) {
	prizes := threePrizeTable()
	rng := rand.New(rand.NewSource(1))

	const draws = 100_000
	counts := make(map[string]int, 3)
	for i := 0; i < draws; i++ {
		p, err := Draw(prizes, rng.Float64)
		require.NoError(t, err)
		counts[p.Label]++
	}

	for _, p := range prizes {
		observed := float64(counts[p.Label]) / draws
		assert.InDelta(t, p.Probability, observed, 0.01, "prize %s", p.Label)
	}
}
