package wheel

import (
	"errors"
	"fmt"
	"math"
)

// probabilityEpsilon absorbs admin-entered rounding; anything further
// from 1.0 than this blocks the save.
const probabilityEpsilon = 0.005

var (
	ErrInvalidProbabilityTable = errors.New("probabilities must sum to 1.00")
	ErrNoPrizes                = errors.New("prize table has no prizes")
)

// RNG yields a value in [0, 1). Injectable so draws are deterministic
// in tests.
type RNG func() float64

// ValidateProbabilities gates a table before it can go live.
func ValidateProbabilities(prizes []Prize) error {
	if len(prizes) == 0 {
		return ErrNoPrizes
	}

	var sum float64
	for _, p := range prizes {
		if p.Probability < 0 || p.Probability > 1 {
			return fmt.Errorf("%w: prize %q probability %.4f out of range", ErrInvalidProbabilityTable, p.Label, p.Probability)
		}
		sum += p.Probability
	}

	if math.Abs(sum-1.0) > probabilityEpsilon {
		return fmt.Errorf("%w (got %.4f)", ErrInvalidProbabilityTable, sum)
	}

	return nil
}

// Draw picks a prize by walking the cumulative distribution in table
// order. Float drift can leave the final cumulative value slightly
// under 1.0, so the last prize is the fallback and a draw never fails
// on a validated table.
func Draw(prizes []Prize, rng RNG) (*Prize, error) {
	if len(prizes) == 0 {
		return nil, ErrNoPrizes
	}

	r := rng()
	var cumulative float64
	for i := range prizes {
		cumulative += prizes[i].Probability
		if r < cumulative {
			return &prizes[i], nil
		}
	}

	return &prizes[len(prizes)-1], nil
}
