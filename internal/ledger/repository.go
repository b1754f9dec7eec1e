package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientFunds = errors.New("insufficient JP balance")
	ErrEmptyBatch        = errors.New("ledger batch is empty")
	ErrInvalidEntry      = errors.New("invalid ledger entry")
	ErrXPAboveFloor      = errors.New("xp already at or above the target floor")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func validateEntries(entries []Entry) error {
	if len(entries) == 0 {
		return ErrEmptyBatch
	}
	for _, e := range entries {
		// Zero-amount entries are legal: they mark non-currency wheel
		// prizes in the ledger without moving a balance.
		if e.Amount < 0 {
			return fmt.Errorf("%w: amount cannot be negative", ErrInvalidEntry)
		}
		if e.Type != EntryEarn && e.Type != EntrySpend {
			return fmt.Errorf("%w: unknown type %q", ErrInvalidEntry, e.Type)
		}
		if e.Currency != CurrencyXP && e.Currency != CurrencyJP {
			return fmt.Errorf("%w: unknown currency %q", ErrInvalidEntry, e.Currency)
		}
		// XP is a rank metric and only ever goes up.
		if e.Type == EntrySpend && e.Currency == CurrencyXP {
			return fmt.Errorf("%w: XP cannot be spent", ErrInvalidEntry)
		}
	}
	return nil
}

func (r *repository) GetAccount(ctx context.Context, userID int) (*Account, error) {
	a := &Account{}
	err := r.db.GetContext(ctx, a,
		`SELECT user_id, xp, jp_balance, streak_count, last_activity_date, created_at, updated_at
		 FROM user_economy
		 WHERE user_id = $1`,
		userID,
	)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO user_economy (user_id)
		 VALUES ($1)
		 RETURNING user_id, xp, jp_balance, streak_count, last_activity_date, created_at, updated_at`,
		userID,
	).StructScan(a)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Post applies the whole batch atomically against one user. Entries
// apply in batch order; a SPEND that would take the JP balance below
// zero at any point rejects the entire batch, so a later EARN in the
// same batch cannot fund an earlier SPEND.
func (r *repository) Post(ctx context.Context, userID int, entries []Entry) (*Balances, error) {
	if err := validateEntries(entries); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var a Account
	err = tx.QueryRowxContext(ctx,
		`SELECT user_id, xp, jp_balance, streak_count, last_activity_date, created_at, updated_at
		 FROM user_economy
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.QueryRowxContext(ctx,
				`INSERT INTO user_economy (user_id)
				 VALUES ($1)
				 RETURNING user_id, xp, jp_balance, streak_count, last_activity_date, created_at, updated_at`,
				userID,
			).StructScan(&a)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	newXP, newJP := a.XP, a.JPBalance
	for _, e := range entries {
		delta := e.Amount
		if e.Type == EntrySpend {
			delta = -delta
		}
		switch e.Currency {
		case CurrencyXP:
			newXP += delta
		case CurrencyJP:
			newJP += delta
			if newJP < 0 {
				return nil, ErrInsufficientFunds
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE user_economy
		 SET xp = $1, jp_balance = $2, updated_at = NOW()
		 WHERE user_id = $3`,
		newXP, newJP, userID,
	)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ledger_entries (user_id, type, currency, amount, description)
			 VALUES ($1, $2, $3, $4, $5)`,
			userID, e.Type, e.Currency, e.Amount, e.Description,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Balances{XP: newXP, JP: newJP}, nil
}

// PostTierUnlock debits the unlock price and floor-sets XP to the
// target in one transaction. The XP delta is computed under the row
// lock, so two concurrent purchases cannot both floor-set: the second
// sees XP already at the floor and is rejected before any debit.
func (r *repository) PostTierUnlock(ctx context.Context, userID int, unlockPrice, targetMinXP int64, description string) (*Balances, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var a Account
	err = tx.QueryRowxContext(ctx,
		`SELECT user_id, xp, jp_balance, streak_count, last_activity_date, created_at, updated_at
		 FROM user_economy
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.QueryRowxContext(ctx,
				`INSERT INTO user_economy (user_id)
				 VALUES ($1)
				 RETURNING user_id, xp, jp_balance, streak_count, last_activity_date, created_at, updated_at`,
				userID,
			).StructScan(&a)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	if a.XP >= targetMinXP {
		return nil, ErrXPAboveFloor
	}

	newJP := a.JPBalance - unlockPrice
	if newJP < 0 {
		return nil, ErrInsufficientFunds
	}
	xpDelta := targetMinXP - a.XP

	_, err = tx.ExecContext(ctx,
		`UPDATE user_economy
		 SET xp = $1, jp_balance = $2, updated_at = NOW()
		 WHERE user_id = $3`,
		targetMinXP, newJP, userID,
	)
	if err != nil {
		return nil, err
	}

	if unlockPrice > 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ledger_entries (user_id, type, currency, amount, description)
			 VALUES ($1, $2, $3, $4, $5)`,
			userID, EntrySpend, CurrencyJP, unlockPrice, description,
		)
		if err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (user_id, type, currency, amount, description)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, EntryEarn, CurrencyXP, xpDelta, description,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Balances{XP: targetMinXP, JP: newJP}, nil
}

func (r *repository) GetBalance(ctx context.Context, userID int) (*Balances, error) {
	a, err := r.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Balances{XP: a.XP, JP: a.JPBalance}, nil
}

// Replay recomputes balances from the entry log. Used for
// reconciliation against the cached totals.
func (r *repository) Replay(ctx context.Context, userID int) (*Balances, error) {
	var b Balances
	err := r.db.GetContext(ctx, &b.XP,
		`SELECT COALESCE(SUM(CASE WHEN type = 'EARN' THEN amount ELSE -amount END), 0)
		 FROM ledger_entries
		 WHERE user_id = $1 AND currency = 'XP'`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &b.JP,
		`SELECT COALESCE(SUM(CASE WHEN type = 'EARN' THEN amount ELSE -amount END), 0)
		 FROM ledger_entries
		 WHERE user_id = $1 AND currency = 'JP'`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetEntries(ctx context.Context, userID int, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []Entry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT id, user_id, type, currency, amount, description, created_at
		 FROM ledger_entries
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// TouchActivity bumps the activity streak: consecutive days increment
// it, a gap resets it to 1, repeat touches on the same day are no-ops.
func (r *repository) TouchActivity(ctx context.Context, userID int, today time.Time) (int, error) {
	today = today.Truncate(24 * time.Hour)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var a Account
	err = tx.QueryRowxContext(ctx,
		`SELECT user_id, xp, jp_balance, streak_count, last_activity_date, created_at, updated_at
		 FROM user_economy
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.QueryRowxContext(ctx,
				`INSERT INTO user_economy (user_id)
				 VALUES ($1)
				 RETURNING user_id, xp, jp_balance, streak_count, last_activity_date, created_at, updated_at`,
				userID,
			).StructScan(&a)
			if err != nil {
				return 0, err
			}
		} else {
			return 0, err
		}
	}

	newStreak := 1
	if a.LastActivityDate != nil {
		last := a.LastActivityDate.Truncate(24 * time.Hour)
		switch {
		case last.Equal(today):
			return a.StreakCount, tx.Commit()
		case today.Sub(last) == 24*time.Hour:
			newStreak = a.StreakCount + 1
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE user_economy
		 SET streak_count = $1, last_activity_date = $2, updated_at = NOW()
		 WHERE user_id = $3`,
		newStreak, today, userID,
	)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return newStreak, nil
}
