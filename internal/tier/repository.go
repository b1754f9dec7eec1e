package tier

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTierNotFound = errors.New("tier not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Tier, error) {
	var tiers []Tier
	err := r.db.SelectContext(ctx, &tiers,
		`SELECT id, name, min_xp, multiplier, unlock_price, perk, badge, created_at
		 FROM tiers
		 ORDER BY min_xp ASC`,
	)
	if err != nil {
		return nil, err
	}

	return tiers, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Tier, error) {
	var t Tier
	err := r.db.GetContext(ctx, &t,
		`SELECT id, name, min_xp, multiplier, unlock_price, perk, badge, created_at
		 FROM tiers
		 WHERE name = $1`,
		name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTierNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// ReplaceAll swaps the catalog in one transaction. Callers are
// expected to run Validate first; this is re-checked here so a bad
// catalog can never land regardless of the calling path.
func (r *repository) ReplaceAll(ctx context.Context, tiers []Tier) error {
	if err := Validate(tiers); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tiers`); err != nil {
		return err
	}

	for _, t := range tiers {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tiers (name, min_xp, multiplier, unlock_price, perk, badge)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			t.Name, t.MinXP, t.Multiplier, t.UnlockPrice, t.Perk, t.Badge,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
