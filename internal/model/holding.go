package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a user's position in one symbol. AveragePrice is the
// quantity-weighted cost basis across all merged purchase lots, never
// an arithmetic mean of lot prices.
type Holding struct {
	ID           int64
	UserID       int64
	Symbol       string
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
	AddedAt      time.Time
	UpdatedAt    time.Time
}

// ValuedHolding is a Holding enriched with a point-in-time quote.
// Recomputed on every portfolio fetch, never persisted.
type ValuedHolding struct {
	Holding
	CurrentPrice    decimal.Decimal
	CurrentValue    decimal.Decimal
	TotalInvestment decimal.Decimal
	GainLoss        decimal.Decimal
	GainLossPercent decimal.Decimal
}

type PortfolioTotals struct {
	TotalValue           decimal.Decimal
	TotalInvestment      decimal.Decimal
	TotalGainLoss        decimal.Decimal
	TotalGainLossPercent decimal.Decimal
}

type PortfolioWithQuotes struct {
	Holdings []ValuedHolding
	Totals   PortfolioTotals
}
