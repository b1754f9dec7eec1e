package voucher

import "errors"

var (
	ErrVoucherExhausted  = errors.New("voucher has no uses remaining")
	ErrVoucherIneligible = errors.New("voucher does not apply to this category")
	ErrBelowMinOrder     = errors.New("order total is below the voucher minimum")
)

// Validate checks eligibility and computes the discount without
// consuming a use. The discount is capped by MaxDiscount and never
// exceeds the order total.
func Validate(v *Voucher, orderTotal int64, category string) (int64, error) {
	if v.UsesRemaining <= 0 {
		return 0, ErrVoucherExhausted
	}

	if len(v.AllowedCategories) > 0 {
		allowed := false
		for _, c := range v.AllowedCategories {
			if c == category {
				allowed = true
				break
			}
		}
		if !allowed {
			return 0, ErrVoucherIneligible
		}
	}

	if orderTotal < v.MinOrder {
		return 0, ErrBelowMinOrder
	}

	var discount int64
	switch v.DiscountType {
	case DiscountPercent:
		discount = orderTotal * v.Value / 100
	default:
		discount = v.Value
	}

	if v.MaxDiscount > 0 && discount > v.MaxDiscount {
		discount = v.MaxDiscount
	}
	if discount > orderTotal {
		discount = orderTotal
	}

	return discount, nil
}
