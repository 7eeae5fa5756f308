package portfolioService

import (
	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type StockMetrics struct {
	CurrentValue    decimal.Decimal
	TotalInvestment decimal.Decimal
	GainLoss        decimal.Decimal
	GainLossPercent decimal.Decimal
}

// CalculateStockMetrics values one holding against a point-in-time
// price. currentPrice = 0 is a defined fallback for an unavailable
// quote, not an error: the position then shows zero value and a loss
// equal to the full investment.
func CalculateStockMetrics(quantity, averagePrice, currentPrice decimal.Decimal) StockMetrics {
	currentValue := currentPrice.Mul(quantity)
	totalInvestment := averagePrice.Mul(quantity)
	gainLoss := currentValue.Sub(totalInvestment)

	gainLossPercent := decimal.Zero
	if totalInvestment.IsPositive() {
		gainLossPercent = gainLoss.Div(totalInvestment).Mul(hundred)
	}

	return StockMetrics{
		CurrentValue:    currentValue,
		TotalInvestment: totalInvestment,
		GainLoss:        gainLoss,
		GainLossPercent: gainLossPercent,
	}
}

// CalculatePortfolioTotals folds valued holdings into portfolio-wide
// sums. The percent is computed once from the summed values, with the
// same zero-investment guard as per-holding metrics.
func CalculatePortfolioTotals(holdings []model.ValuedHolding) model.PortfolioTotals {
	totals := model.PortfolioTotals{}

	for _, h := range holdings {
		totals.TotalValue = totals.TotalValue.Add(h.CurrentValue)
		totals.TotalInvestment = totals.TotalInvestment.Add(h.TotalInvestment)
		totals.TotalGainLoss = totals.TotalGainLoss.Add(h.GainLoss)
	}

	if totals.TotalInvestment.IsPositive() {
		totals.TotalGainLossPercent = totals.TotalGainLoss.Div(totals.TotalInvestment).Mul(hundred)
	}

	return totals
}

// CalculateAveragePrice merges a new purchase lot into an existing
// position: combined quantity plus the quantity-weighted average
// price. Both quantities being zero is a precondition violation, the
// caller must reject that before invoking the merge.
func CalculateAveragePrice(existingQuantity, existingAveragePrice, newQuantity, newAveragePrice decimal.Decimal) (combinedQuantity, weightedAveragePrice decimal.Decimal) {
	combinedQuantity = existingQuantity.Add(newQuantity)

	weightedAveragePrice = existingAveragePrice.Mul(existingQuantity).
		Add(newAveragePrice.Mul(newQuantity)).
		Div(combinedQuantity)

	return combinedQuantity, weightedAveragePrice
}
