package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []Tier {
	return []Tier{
		{Name: "Newbie", MinXP: 0, Multiplier: 1.0, UnlockPrice: 0},
		{Name: "Player", MinXP: 500, Multiplier: 1.2, UnlockPrice: 2000},
		{Name: "Strategist", MinXP: 2000, Multiplier: 1.5, UnlockPrice: 5000},
	}
}

func TestTierFor(t *testing.T) {
	tiers := testCatalog()

	tests := []struct {
		name     string
		xp       int64
		expected string
	}{
		{"zero xp lands on first tier", 0, "Newbie"},
		{"just below threshold", 499, "Newbie"},
		{"exactly at threshold", 500, "Player"},
		{"between tiers", 1999, "Player"},
		{"top threshold", 2000, "Strategist"},
		{"far past the top", 100000, "Strategist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TierFor(tiers, tt.xp)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Name)
		})
	}
}

func TestTierFor_EmptyCatalog(t *testing.T) {
	_, err := TierFor(nil, 100)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestNextTier(t *testing.T) {
	tiers := testCatalog()

	next := NextTier(tiers, 0)
	require.NotNil(t, next)
	assert.Equal(t, "Player", next.Name)

	next = NextTier(tiers, 500)
	require.NotNil(t, next)
	assert.Equal(t, "Strategist", next.Name)

	assert.Nil(t, NextTier(tiers, 2000))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		tiers       []Tier
		expectError bool
		errorMsg    string
	}{
		{
			name:  "valid catalog",
			tiers: testCatalog(),
		},
		{
			name:        "empty catalog",
			tiers:       nil,
			expectError: true,
		},
		{
			name: "first tier not at zero",
			tiers: []Tier{
				{Name: "Player", MinXP: 500, Multiplier: 1.2},
			},
			expectError: true,
			errorMsg:    "min_xp = 0",
		},
		{
			name: "duplicate names",
			tiers: []Tier{
				{Name: "Newbie", MinXP: 0, Multiplier: 1.0},
				{Name: "Newbie", MinXP: 500, Multiplier: 1.2},
			},
			expectError: true,
			errorMsg:    "duplicate tier name",
		},
		{
			name: "non-increasing min_xp",
			tiers: []Tier{
				{Name: "Newbie", MinXP: 0, Multiplier: 1.0},
				{Name: "Player", MinXP: 500, Multiplier: 1.2},
				{Name: "Strategist", MinXP: 500, Multiplier: 1.5},
			},
			expectError: true,
			errorMsg:    "must be greater than",
		},
		{
			name: "multiplier below one",
			tiers: []Tier{
				{Name: "Newbie", MinXP: 0, Multiplier: 0.5},
			},
			expectError: true,
			errorMsg:    "multiplier must be >= 1.0",
		},
		{
			name: "negative unlock price",
			tiers: []Tier{
				{Name: "Newbie", MinXP: 0, Multiplier: 1.0, UnlockPrice: -10},
			},
			expectError: true,
			errorMsg:    "unlock price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tiers)
			if tt.expectError {
				require.Error(t, err)
				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
