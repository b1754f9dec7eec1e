package voucher

import (
	"time"

	"github.com/lib/pq"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFixed   DiscountType = "FIXED"
)

// Voucher is a limited-use discount code. UsesRemaining is only
// decremented on confirmed redemption, never during validation.
type Voucher struct {
	ID           int          `db:"id" json:"id"`
	Code         string       `db:"code" json:"code"`
	DiscountType DiscountType `db:"discount_type" json:"discount_type"`
	Value        int64        `db:"value" json:"value"`
	MinOrder     int64        `db:"min_order" json:"min_order"`
	// MaxDiscount caps the computed discount; 0 means uncapped.
	MaxDiscount       int64          `db:"max_discount" json:"max_discount"`
	AllowedCategories pq.StringArray `db:"allowed_categories" json:"allowed_categories"`
	UsesRemaining     int            `db:"uses_remaining" json:"uses_remaining"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
}
