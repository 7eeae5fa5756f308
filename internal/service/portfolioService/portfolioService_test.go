package portfolioService

import (
	"context"
	"errors"
	"testing"

	"github.com/KotFed0t/stocks_portfolio_api/data/repository"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/dbModel"
	"github.com/KotFed0t/stocks_portfolio_api/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holdingKey struct {
	userID int64
	symbol string
}

type fakeRepo struct {
	nextID   int64
	holdings map[holdingKey]dbModel.Holding
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{holdings: make(map[holdingKey]dbModel.Holding)}
}

func (r *fakeRepo) GetHolding(_ context.Context, userID int64, symbol string) (dbModel.Holding, error) {
	holding, ok := r.holdings[holdingKey{userID, symbol}]
	if !ok {
		return dbModel.Holding{}, repository.ErrNotFound
	}
	return holding, nil
}

func (r *fakeRepo) GetHoldings(_ context.Context, userID int64) ([]dbModel.Holding, error) {
	res := make([]dbModel.Holding, 0)
	for key, holding := range r.holdings {
		if key.userID == userID {
			res = append(res, holding)
		}
	}
	return res, nil
}

func (r *fakeRepo) InsertHolding(_ context.Context, userID int64, symbol string, quantity, averagePrice decimal.Decimal) (dbModel.Holding, error) {
	key := holdingKey{userID, symbol}
	if _, ok := r.holdings[key]; ok {
		return dbModel.Holding{}, repository.ErrAlreadyExists
	}
	r.nextID++
	holding := dbModel.Holding{
		HoldingID:    r.nextID,
		UserID:       userID,
		Symbol:       symbol,
		Quantity:     quantity,
		AveragePrice: averagePrice,
	}
	r.holdings[key] = holding
	return holding, nil
}

func (r *fakeRepo) UpdateHolding(_ context.Context, userID int64, symbol string, quantity, averagePrice *decimal.Decimal) (dbModel.Holding, error) {
	key := holdingKey{userID, symbol}
	holding, ok := r.holdings[key]
	if !ok {
		return dbModel.Holding{}, repository.ErrNotFound
	}
	if quantity != nil {
		holding.Quantity = *quantity
	}
	if averagePrice != nil {
		holding.AveragePrice = *averagePrice
	}
	r.holdings[key] = holding
	return holding, nil
}

func (r *fakeRepo) DeleteHolding(_ context.Context, userID int64, symbol string) error {
	key := holdingKey{userID, symbol}
	if _, ok := r.holdings[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.holdings, key)
	return nil
}

func (r *fakeRepo) WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error {
	return tFunc(ctx)
}

type fakeQuotes struct {
	prices map[string]decimal.Decimal
	err    error
}

func (q *fakeQuotes) GetCurrentPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	if q.err != nil {
		return decimal.Zero, q.err
	}
	price, ok := q.prices[symbol]
	if !ok {
		return decimal.Zero, service.ErrNotFound
	}
	return price, nil
}

type fakeReportGenerator struct{}

func (g *fakeReportGenerator) Generate(_ context.Context, _ model.PortfolioWithQuotes) ([]byte, string, error) {
	return []byte("report"), ".xlsx", nil
}

func newTestService(quotes *fakeQuotes) (*PortfolioService, *fakeRepo) {
	repo := newFakeRepo()
	if quotes == nil {
		quotes = &fakeQuotes{}
	}
	return New(repo, quotes, &fakeReportGenerator{}), repo
}

func TestAddStockInsertsNewHolding(t *testing.T) {
	srv, repo := newTestService(nil)
	ctx := context.Background()

	holding, err := srv.AddStock(ctx, 1, " aapl ", d("10"), d("150"))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", holding.Symbol, "symbol is trimmed and uppercased")
	assert.True(t, holding.Quantity.Equal(d("10")))
	assert.True(t, holding.AveragePrice.Equal(d("150")))

	_, ok := repo.holdings[holdingKey{1, "AAPL"}]
	assert.True(t, ok)
}

func TestAddStockMergesExistingHolding(t *testing.T) {
	srv, _ := newTestService(nil)
	ctx := context.Background()

	_, err := srv.AddStock(ctx, 1, "AAPL", d("10"), d("100"))
	require.NoError(t, err)

	holding, err := srv.AddStock(ctx, 1, "AAPL", d("10"), d("200"))
	require.NoError(t, err)

	assert.True(t, holding.Quantity.Equal(d("20")), "quantity = %s", holding.Quantity)
	assert.True(t, holding.AveragePrice.Equal(d("150")), "averagePrice = %s", holding.AveragePrice)
}

func TestAddStockKeepsUsersSeparate(t *testing.T) {
	srv, _ := newTestService(nil)
	ctx := context.Background()

	_, err := srv.AddStock(ctx, 1, "AAPL", d("10"), d("100"))
	require.NoError(t, err)

	holding, err := srv.AddStock(ctx, 2, "AAPL", d("3"), d("50"))
	require.NoError(t, err)

	assert.True(t, holding.Quantity.Equal(d("3")), "no merge across users")
}

func TestAddStockValidation(t *testing.T) {
	srv, _ := newTestService(nil)
	ctx := context.Background()

	_, err := srv.AddStock(ctx, 1, "AAPL", d("0"), d("100"))
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)

	_, err = srv.AddStock(ctx, 1, "AAPL", d("10"), d("-1"))
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)

	_, err = srv.AddStock(ctx, 1, "not a symbol!", d("10"), d("100"))
	assert.ErrorIs(t, err, service.ErrInvalidSymbol)
}

func TestUpdateStockOverwritesWithoutMerge(t *testing.T) {
	srv, _ := newTestService(nil)
	ctx := context.Background()

	_, err := srv.AddStock(ctx, 1, "AAPL", d("10"), d("100"))
	require.NoError(t, err)

	quantity := d("42")
	holding, err := srv.UpdateStock(ctx, 1, "AAPL", &quantity, nil)
	require.NoError(t, err)

	assert.True(t, holding.Quantity.Equal(d("42")))
	assert.True(t, holding.AveragePrice.Equal(d("100")), "nil field stays unchanged")
}

func TestUpdateStockUnknownSymbol(t *testing.T) {
	srv, _ := newTestService(nil)
	ctx := context.Background()

	quantity := d("1")
	_, err := srv.UpdateStock(ctx, 1, "MSFT", &quantity, nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRemoveStock(t *testing.T) {
	srv, repo := newTestService(nil)
	ctx := context.Background()

	_, err := srv.AddStock(ctx, 1, "AAPL", d("10"), d("100"))
	require.NoError(t, err)

	require.NoError(t, srv.RemoveStock(ctx, 1, "AAPL"))
	assert.Empty(t, repo.holdings)

	assert.ErrorIs(t, srv.RemoveStock(ctx, 1, "AAPL"), service.ErrNotFound)
}

func TestGetPortfolioWithQuotes(t *testing.T) {
	quotes := &fakeQuotes{prices: map[string]decimal.Decimal{
		"AAPL": d("120"),
	}}
	srv, _ := newTestService(quotes)
	ctx := context.Background()

	_, err := srv.AddStock(ctx, 1, "AAPL", d("10"), d("100"))
	require.NoError(t, err)

	portfolio, err := srv.GetPortfolioWithQuotes(ctx, 1)
	require.NoError(t, err)

	require.Len(t, portfolio.Holdings, 1)
	h := portfolio.Holdings[0]
	assert.True(t, h.CurrentPrice.Equal(d("120")))
	assert.True(t, h.CurrentValue.Equal(d("1200")))
	assert.True(t, h.GainLoss.Equal(d("200")))
	assert.True(t, portfolio.Totals.TotalGainLossPercent.Equal(d("20")))
}

func TestGetPortfolioWithQuotesDegradesOnQuoteFailure(t *testing.T) {
	quotes := &fakeQuotes{err: errors.New("provider down")}
	srv, _ := newTestService(quotes)
	ctx := context.Background()

	_, err := srv.AddStock(ctx, 1, "AAPL", d("10"), d("100"))
	require.NoError(t, err)

	portfolio, err := srv.GetPortfolioWithQuotes(ctx, 1)
	require.NoError(t, err, "a failed quote is degraded data, not an error")

	require.Len(t, portfolio.Holdings, 1)
	h := portfolio.Holdings[0]
	assert.True(t, h.CurrentPrice.IsZero())
	assert.True(t, h.GainLoss.Equal(d("-1000")), "position shows the full investment as loss")
}

func TestExportPortfolio(t *testing.T) {
	srv, _ := newTestService(nil)
	ctx := context.Background()

	t.Run("empty portfolio", func(t *testing.T) {
		_, _, err := srv.ExportPortfolio(ctx, 1)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("with holdings", func(t *testing.T) {
		_, err := srv.AddStock(ctx, 1, "AAPL", d("10"), d("100"))
		require.NoError(t, err)

		fileBytes, fileExtension, err := srv.ExportPortfolio(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, ".xlsx", fileExtension)
		assert.NotEmpty(t, fileBytes)
	})
}
