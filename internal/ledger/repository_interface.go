package ledger

import (
	"context"
	"time"
)

type Repository interface {
	GetAccount(ctx context.Context, userID int) (*Account, error)
	Post(ctx context.Context, userID int, entries []Entry) (*Balances, error)
	PostTierUnlock(ctx context.Context, userID int, unlockPrice, targetMinXP int64, description string) (*Balances, error)
	GetBalance(ctx context.Context, userID int) (*Balances, error)
	Replay(ctx context.Context, userID int) (*Balances, error)
	GetEntries(ctx context.Context, userID int, limit, offset int) ([]Entry, error)
	TouchActivity(ctx context.Context, userID int, today time.Time) (int, error)
}
