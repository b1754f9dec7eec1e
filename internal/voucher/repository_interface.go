package voucher

import "context"

type Repository interface {
	Create(ctx context.Context, v Voucher) (*Voucher, error)
	GetByCode(ctx context.Context, code string) (*Voucher, error)
	List(ctx context.Context) ([]Voucher, error)
	Redeem(ctx context.Context, code string) error
	Delete(ctx context.Context, code string) error
}
