package tier

import "time"

// Tier is an admin-defined rank band. The list is ordered by MinXP
// ascending; a user's tier is always derived from xp, never stored.
type Tier struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	MinXP       int64     `db:"min_xp" json:"min_xp"`
	Multiplier  float64   `db:"multiplier" json:"multiplier"`
	UnlockPrice int64     `db:"unlock_price" json:"unlock_price"`
	Perk        string    `db:"perk" json:"perk"`
	Badge       string    `db:"badge" json:"badge"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
