package voucher

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrVoucherNotFound = errors.New("voucher not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, v Voucher) (*Voucher, error) {
	saved := &Voucher{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO vouchers (code, discount_type, value, min_order, max_discount, allowed_categories, uses_remaining)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, code, discount_type, value, min_order, max_discount, allowed_categories, uses_remaining, created_at`,
		v.Code, v.DiscountType, v.Value, v.MinOrder, v.MaxDiscount, v.AllowedCategories, v.UsesRemaining,
	).StructScan(saved)
	if err != nil {
		return nil, err
	}

	return saved, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Voucher, error) {
	v := &Voucher{}
	err := r.db.GetContext(ctx, v,
		`SELECT id, code, discount_type, value, min_order, max_discount, allowed_categories, uses_remaining, created_at
		 FROM vouchers
		 WHERE code = $1`,
		code,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVoucherNotFound
		}
		return nil, err
	}

	return v, nil
}

func (r *repository) List(ctx context.Context) ([]Voucher, error) {
	var vouchers []Voucher
	err := r.db.SelectContext(ctx, &vouchers,
		`SELECT id, code, discount_type, value, min_order, max_discount, allowed_categories, uses_remaining, created_at
		 FROM vouchers
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}

	return vouchers, nil
}

// Redeem consumes one use with a conditional decrement. With two
// concurrent redemptions of a last-use code exactly one UPDATE
// matches; the loser sees zero rows and gets ErrVoucherExhausted.
func (r *repository) Redeem(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE vouchers
		 SET uses_remaining = uses_remaining - 1
		 WHERE code = $1 AND uses_remaining > 0`,
		code,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		if _, err := r.GetByCode(ctx, code); err != nil {
			return err
		}
		return ErrVoucherExhausted
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vouchers WHERE code = $1`, code)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrVoucherNotFound
	}

	return nil
}
