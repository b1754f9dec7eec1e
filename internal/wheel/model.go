package wheel

import "time"

type PrizeType string

const (
	PrizeJP     PrizeType = "JP"
	PrizeXP     PrizeType = "XP"
	PrizeItem   PrizeType = "ITEM"
	PrizeCoupon PrizeType = "COUPON"
)

// Prize is one slot on the wheel. Position fixes the table order the
// cumulative draw walks through.
type Prize struct {
	ID          int       `db:"id" json:"id"`
	TableID     int       `db:"table_id" json:"table_id"`
	Position    int       `db:"position" json:"position"`
	Type        PrizeType `db:"type" json:"type"`
	Label       string    `db:"label" json:"label"`
	Value       int64     `db:"value" json:"value"`
	Probability float64   `db:"probability" json:"probability"`
}

type PrizeTable struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Live      bool      `db:"live" json:"live"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Prizes []Prize `json:"prizes"`
}
