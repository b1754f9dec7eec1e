package ledger

import "time"

type EntryType string

const (
	EntryEarn  EntryType = "EARN"
	EntrySpend EntryType = "SPEND"
)

type Currency string

const (
	CurrencyXP Currency = "XP"
	CurrencyJP Currency = "JP"
)

// Entry is an immutable ledger record. Entries are inserted, never
// updated or deleted; balances are a cache derived from them.
type Entry struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	Type        EntryType `db:"type" json:"type"`
	Currency    Currency  `db:"currency" json:"currency"`
	Amount      int64     `db:"amount" json:"amount"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Account is the per-user economy row holding the running totals.
type Account struct {
	UserID           int        `db:"user_id" json:"user_id"`
	XP               int64      `db:"xp" json:"xp"`
	JPBalance        int64      `db:"jp_balance" json:"jp_balance"`
	StreakCount      int        `db:"streak_count" json:"streak_count"`
	LastActivityDate *time.Time `db:"last_activity_date" json:"last_activity_date"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type Balances struct {
	XP int64 `json:"xp"`
	JP int64 `json:"jp"`
}

func Earn(currency Currency, amount int64, description string) Entry {
	return Entry{Type: EntryEarn, Currency: currency, Amount: amount, Description: description}
}

func Spend(currency Currency, amount int64, description string) Entry {
	return Entry{Type: EntrySpend, Currency: currency, Amount: amount, Description: description}
}
