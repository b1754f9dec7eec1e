package wheel

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrTableNotFound = errors.New("prize table not found")
	ErrNoLiveTable   = errors.New("no live prize table configured")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// SaveTable stores a validated table. New tables are never live; they
// are promoted explicitly through SetLive.
func (r *repository) SaveTable(ctx context.Context, name string, prizes []Prize) (*PrizeTable, error) {
	if err := ValidateProbabilities(prizes); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	table := &PrizeTable{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO prize_tables (name, live)
		 VALUES ($1, FALSE)
		 RETURNING id, name, live, created_at`,
		name,
	).StructScan(table)
	if err != nil {
		return nil, err
	}

	for i, p := range prizes {
		var saved Prize
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO prizes (table_id, position, type, label, value, probability)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, table_id, position, type, label, value, probability`,
			table.ID, i, p.Type, p.Label, p.Value, p.Probability,
		).StructScan(&saved)
		if err != nil {
			return nil, err
		}
		table.Prizes = append(table.Prizes, saved)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return table, nil
}

func (r *repository) GetTable(ctx context.Context, id int) (*PrizeTable, error) {
	table := &PrizeTable{}
	err := r.db.GetContext(ctx, table,
		`SELECT id, name, live, created_at FROM prize_tables WHERE id = $1`,
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}

	if err := r.loadPrizes(ctx, table); err != nil {
		return nil, err
	}

	return table, nil
}

func (r *repository) GetLiveTable(ctx context.Context) (*PrizeTable, error) {
	table := &PrizeTable{}
	err := r.db.GetContext(ctx, table,
		`SELECT id, name, live, created_at FROM prize_tables WHERE live = TRUE`,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoLiveTable
		}
		return nil, err
	}

	if err := r.loadPrizes(ctx, table); err != nil {
		return nil, err
	}

	return table, nil
}

// SetLive promotes one table and demotes the rest in a single
// transaction, so at most one table is live at any time.
func (r *repository) SetLive(ctx context.Context, id int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE prize_tables SET live = FALSE WHERE live = TRUE`); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `UPDATE prize_tables SET live = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTableNotFound
	}

	return tx.Commit()
}

func (r *repository) ListTables(ctx context.Context) ([]PrizeTable, error) {
	var tables []PrizeTable
	err := r.db.SelectContext(ctx, &tables,
		`SELECT id, name, live, created_at FROM prize_tables ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}

	return tables, nil
}

func (r *repository) loadPrizes(ctx context.Context, table *PrizeTable) error {
	return r.db.SelectContext(ctx, &table.Prizes,
		`SELECT id, table_id, position, type, label, value, probability
		 FROM prizes
		 WHERE table_id = $1
		 ORDER BY position ASC`,
		table.ID,
	)
}
