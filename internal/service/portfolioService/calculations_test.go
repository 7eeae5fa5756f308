package portfolioService

import (
	"testing"

	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateStockMetrics(t *testing.T) {
	tests := []struct {
		name                string
		quantity            string
		averagePrice        string
		currentPrice        string
		wantCurrentValue    string
		wantTotalInvestment string
		wantGainLoss        string
		wantGainLossPercent string
	}{
		{
			name:                "gain",
			quantity:            "10",
			averagePrice:        "100",
			currentPrice:        "120",
			wantCurrentValue:    "1200",
			wantTotalInvestment: "1000",
			wantGainLoss:        "200",
			wantGainLossPercent: "20",
		},
		{
			name:                "loss",
			quantity:            "5",
			averagePrice:        "200",
			currentPrice:        "150",
			wantCurrentValue:    "750",
			wantTotalInvestment: "1000",
			wantGainLoss:        "-250",
			wantGainLossPercent: "-25",
		},
		{
			name:                "fractional quantity",
			quantity:            "2.5",
			averagePrice:        "40",
			currentPrice:        "44",
			wantCurrentValue:    "110",
			wantTotalInvestment: "100",
			wantGainLoss:        "10",
			wantGainLossPercent: "10",
		},
		{
			name:                "zero investment guards percent",
			quantity:            "10",
			averagePrice:        "0",
			currentPrice:        "50",
			wantCurrentValue:    "500",
			wantTotalInvestment: "0",
			wantGainLoss:        "500",
			wantGainLossPercent: "0",
		},
		{
			name:                "unavailable quote values to zero",
			quantity:            "10",
			averagePrice:        "100",
			currentPrice:        "0",
			wantCurrentValue:    "0",
			wantTotalInvestment: "1000",
			wantGainLoss:        "-1000",
			wantGainLossPercent: "-100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStockMetrics(d(tt.quantity), d(tt.averagePrice), d(tt.currentPrice))

			assert.True(t, got.CurrentValue.Equal(d(tt.wantCurrentValue)), "CurrentValue = %s", got.CurrentValue)
			assert.True(t, got.TotalInvestment.Equal(d(tt.wantTotalInvestment)), "TotalInvestment = %s", got.TotalInvestment)
			assert.True(t, got.GainLoss.Equal(d(tt.wantGainLoss)), "GainLoss = %s", got.GainLoss)
			assert.True(t, got.GainLossPercent.Equal(d(tt.wantGainLossPercent)), "GainLossPercent = %s", got.GainLossPercent)
		})
	}
}

func TestCalculateStockMetricsGainLossConsistency(t *testing.T) {
	got := CalculateStockMetrics(d("7"), d("13.37"), d("42.01"))
	assert.True(t, got.GainLoss.Equal(got.CurrentValue.Sub(got.TotalInvestment)))
}

func TestCalculatePortfolioTotals(t *testing.T) {
	valued := func(quantity, averagePrice, currentPrice string) model.ValuedHolding {
		m := CalculateStockMetrics(d(quantity), d(averagePrice), d(currentPrice))
		return model.ValuedHolding{
			CurrentValue:    m.CurrentValue,
			TotalInvestment: m.TotalInvestment,
			GainLoss:        m.GainLoss,
			GainLossPercent: m.GainLossPercent,
		}
	}

	t.Run("sums per-holding values", func(t *testing.T) {
		totals := CalculatePortfolioTotals([]model.ValuedHolding{
			valued("10", "100", "120"), // value 1200, invested 1000
			valued("5", "200", "150"),  // value 750, invested 1000
		})

		assert.True(t, totals.TotalValue.Equal(d("1950")), "TotalValue = %s", totals.TotalValue)
		assert.True(t, totals.TotalInvestment.Equal(d("2000")), "TotalInvestment = %s", totals.TotalInvestment)
		assert.True(t, totals.TotalGainLoss.Equal(d("-50")), "TotalGainLoss = %s", totals.TotalGainLoss)
		assert.True(t, totals.TotalGainLossPercent.Equal(d("-2.5")), "TotalGainLossPercent = %s", totals.TotalGainLossPercent)
	})

	t.Run("empty portfolio is all zeros", func(t *testing.T) {
		totals := CalculatePortfolioTotals(nil)

		assert.True(t, totals.TotalValue.IsZero())
		assert.True(t, totals.TotalInvestment.IsZero())
		assert.True(t, totals.TotalGainLoss.IsZero())
		assert.True(t, totals.TotalGainLossPercent.IsZero())
	})

	t.Run("order of holdings does not matter", func(t *testing.T) {
		holdings := []model.ValuedHolding{
			valued("10", "100", "120"),
			valued("5", "200", "150"),
			valued("2.5", "40", "44"),
		}
		permuted := []model.ValuedHolding{holdings[2], holdings[0], holdings[1]}

		a := CalculatePortfolioTotals(holdings)
		b := CalculatePortfolioTotals(permuted)

		assert.True(t, a.TotalValue.Equal(b.TotalValue))
		assert.True(t, a.TotalInvestment.Equal(b.TotalInvestment))
		assert.True(t, a.TotalGainLoss.Equal(b.TotalGainLoss))
		assert.True(t, a.TotalGainLossPercent.Equal(b.TotalGainLossPercent))
	})

	t.Run("zero total investment guards percent", func(t *testing.T) {
		totals := CalculatePortfolioTotals([]model.ValuedHolding{
			valued("10", "0", "50"),
		})

		assert.True(t, totals.TotalGainLossPercent.IsZero())
	})
}

func TestCalculateAveragePrice(t *testing.T) {
	tests := []struct {
		name             string
		existingQuantity string
		existingPrice    string
		newQuantity      string
		newPrice         string
		wantQuantity     string
		wantPrice        string
	}{
		{
			name:             "equal lots average the prices",
			existingQuantity: "10",
			existingPrice:    "100",
			newQuantity:      "10",
			newPrice:         "200",
			wantQuantity:     "20",
			wantPrice:        "150",
		},
		{
			name:             "weighted toward the bigger lot",
			existingQuantity: "30",
			existingPrice:    "10",
			newQuantity:      "10",
			newPrice:         "50",
			wantQuantity:     "40",
			wantPrice:        "20",
		},
		{
			name:             "first lot into empty position",
			existingQuantity: "0",
			existingPrice:    "0",
			newQuantity:      "5",
			newPrice:         "99.5",
			wantQuantity:     "5",
			wantPrice:        "99.5",
		},
		{
			name:             "zero new shares leave the average unchanged",
			existingQuantity: "100",
			existingPrice:    "10",
			newQuantity:      "0",
			newPrice:         "999",
			wantQuantity:     "100",
			wantPrice:        "10",
		},
		{
			name:             "fractional shares",
			existingQuantity: "1.5",
			existingPrice:    "8",
			newQuantity:      "0.5",
			newPrice:         "16",
			wantQuantity:     "2",
			wantPrice:        "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotQuantity, gotPrice := CalculateAveragePrice(d(tt.existingQuantity), d(tt.existingPrice), d(tt.newQuantity), d(tt.newPrice))

			assert.True(t, gotQuantity.Equal(d(tt.wantQuantity)), "quantity = %s", gotQuantity)
			assert.True(t, gotPrice.Equal(d(tt.wantPrice)), "price = %s", gotPrice)
		})
	}
}

func TestCalculateAveragePricePreservesTotalCost(t *testing.T) {
	existingQuantity, existingPrice := d("12.5"), d("37.4")
	newQuantity, newPrice := d("3.25"), d("101.1")

	combinedQuantity, weightedPrice := CalculateAveragePrice(existingQuantity, existingPrice, newQuantity, newPrice)

	costBefore := existingQuantity.Mul(existingPrice).Add(newQuantity.Mul(newPrice))
	costAfter := combinedQuantity.Mul(weightedPrice)

	// division rounds to decimal.DivisionPrecision digits
	diff := costAfter.Sub(costBefore).Abs()
	require.True(t, diff.LessThan(d("0.000000001")), "cost before merge %s, after %s", costBefore, costAfter)
}
