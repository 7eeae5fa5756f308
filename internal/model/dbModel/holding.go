package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Holding struct {
	HoldingID    int64           `db:"holding_id"`
	UserID       int64           `db:"user_id"`
	Symbol       string          `db:"symbol"`
	Quantity     decimal.Decimal `db:"quantity"`
	AveragePrice decimal.Decimal `db:"average_price"`
	AddedAt      time.Time       `db:"dt_create"`
	UpdatedAt    time.Time       `db:"dt_update"`
}
