package tier

import "context"

type Repository interface {
	List(ctx context.Context) ([]Tier, error)
	GetByName(ctx context.Context, name string) (*Tier, error)
	ReplaceAll(ctx context.Context, tiers []Tier) error
}
