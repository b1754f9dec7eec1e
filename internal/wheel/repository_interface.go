package wheel

import "context"

type Repository interface {
	SaveTable(ctx context.Context, name string, prizes []Prize) (*PrizeTable, error)
	GetTable(ctx context.Context, id int) (*PrizeTable, error)
	GetLiveTable(ctx context.Context) (*PrizeTable, error)
	SetLive(ctx context.Context, id int) error
	ListTables(ctx context.Context) ([]PrizeTable, error)
}
