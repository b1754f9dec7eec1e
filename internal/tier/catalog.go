package tier

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCatalog = errors.New("tier catalog is empty")
)

// TierFor returns the highest tier with MinXP <= xp. The catalog must
// be ordered by MinXP ascending (as Validate enforces). An empty
// catalog is a configuration error.
func TierFor(tiers []Tier, xp int64) (*Tier, error) {
	if len(tiers) == 0 {
		return nil, ErrEmptyCatalog
	}

	current := &tiers[0]
	for i := range tiers {
		if tiers[i].MinXP <= xp {
			current = &tiers[i]
		} else {
			break
		}
	}
	return current, nil
}

// NextTier returns the lowest tier with MinXP > xp, or nil when the
// user is already at the top.
func NextTier(tiers []Tier, xp int64) *Tier {
	for i := range tiers {
		if tiers[i].MinXP > xp {
			return &tiers[i]
		}
	}
	return nil
}

// Validate rejects catalogs that would corrupt tier derivation:
// duplicate names, non-increasing MinXP, multipliers below 1.0, or a
// first tier that does not start at zero XP.
func Validate(tiers []Tier) error {
	if len(tiers) == 0 {
		return ErrEmptyCatalog
	}

	if tiers[0].MinXP != 0 {
		return fmt.Errorf("first tier %q must have min_xp = 0", tiers[0].Name)
	}

	seen := make(map[string]bool, len(tiers))
	for i, t := range tiers {
		if t.Name == "" {
			return fmt.Errorf("tier at position %d has no name", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate tier name %q", t.Name)
		}
		seen[t.Name] = true

		if t.Multiplier < 1.0 {
			return fmt.Errorf("tier %q multiplier must be >= 1.0", t.Name)
		}
		if t.UnlockPrice < 0 {
			return fmt.Errorf("tier %q unlock price must be >= 0", t.Name)
		}
		if i > 0 && t.MinXP <= tiers[i-1].MinXP {
			return fmt.Errorf("tier %q min_xp must be greater than %q", t.Name, tiers[i-1].Name)
		}
	}

	return nil
}
