package stocksService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/stocks_portfolio_api/internal/externalApi"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/fmpModel"
	"github.com/KotFed0t/stocks_portfolio_api/internal/service"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/shopspring/decimal"
)

type FmpApi interface {
	GetQuote(ctx context.Context, symbol string) (fmpModel.Quote, error)
	GetBatchQuotes(ctx context.Context, symbols []string) ([]fmpModel.Quote, error)
	GetCompanyProfile(ctx context.Context, symbol string) (fmpModel.CompanyProfile, error)
	GetMarketMovers(ctx context.Context) (fmpModel.Movers, error)
	Search(ctx context.Context, query string) ([]fmpModel.SearchResult, error)
	GetHistoricalPrices(ctx context.Context, symbol, from, to string) ([]fmpModel.HistoricalPrice, error)
}

type Cache interface {
	GetQuote(ctx context.Context, symbol string) (fmpModel.Quote, error)
	SetQuote(ctx context.Context, symbol string, quote fmpModel.Quote) error
	GetMovers(ctx context.Context) (fmpModel.Movers, error)
	SetMovers(ctx context.Context, movers fmpModel.Movers) error
}

type StocksService struct {
	fmpApi FmpApi
	cache  Cache
}

func New(fmpApi FmpApi, cache Cache) *StocksService {
	return &StocksService{fmpApi: fmpApi, cache: cache}
}

func (s *StocksService) GetQuote(ctx context.Context, symbol string) (fmpModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StocksService.GetQuote"

	slog.Debug("GetQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("GetQuote finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	quote, err := s.cache.GetQuote(ctx, symbol)
	if err == nil {
		return quote, nil
	}

	quote, err = s.fmpApi.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			slog.Warn("symbol not found in fmpApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
			return fmpModel.Quote{}, service.ErrNotFound
		}
		slog.Error("can't get quote from fmpApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmpModel.Quote{}, err
	}

	go s.cache.SetQuote(context.WithoutCancel(ctx), symbol, quote)

	return quote, nil
}

func (s *StocksService) GetBatchQuotes(ctx context.Context, symbols []string) ([]fmpModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StocksService.GetBatchQuotes"

	slog.Debug("GetBatchQuotes start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("symbols", len(symbols)))
	defer func() {
		slog.Debug("GetBatchQuotes finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	quotes, err := s.fmpApi.GetBatchQuotes(ctx, symbols)
	if err != nil {
		slog.Error("can't get batch quotes from fmpApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return quotes, nil
}

func (s *StocksService) GetCompanyProfile(ctx context.Context, symbol string) (fmpModel.CompanyProfile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StocksService.GetCompanyProfile"

	slog.Debug("GetCompanyProfile start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("GetCompanyProfile finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	profile, err := s.fmpApi.GetCompanyProfile(ctx, symbol)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			slog.Warn("symbol not found in fmpApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
			return fmpModel.CompanyProfile{}, service.ErrNotFound
		}
		slog.Error("can't get company profile from fmpApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmpModel.CompanyProfile{}, err
	}

	return profile, nil
}

// GetCurrentPrice feeds portfolio valuation. Cached quote first, then
// the API.
func (s *StocksService) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quote, err := s.GetQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(quote.Price.Float64()), nil
}

func (s *StocksService) GetMarketMovers(ctx context.Context) (fmpModel.Movers, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StocksService.GetMarketMovers"

	slog.Debug("GetMarketMovers start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("GetMarketMovers finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	movers, err := s.cache.GetMovers(ctx)
	if err == nil {
		return movers, nil
	}

	movers, err = s.fmpApi.GetMarketMovers(ctx)
	if err != nil {
		slog.Error("can't get market movers from fmpApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmpModel.Movers{}, err
	}

	go s.cache.SetMovers(context.WithoutCancel(ctx), movers)

	return movers, nil
}

func (s *StocksService) Search(ctx context.Context, query string) ([]fmpModel.SearchResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StocksService.Search"

	slog.Debug("Search start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		slog.Debug("Search finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	results, err := s.fmpApi.Search(ctx, query)
	if err != nil {
		slog.Error("can't search in fmpApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return results, nil
}

func (s *StocksService) GetHistoricalPrices(ctx context.Context, symbol, from, to string) ([]fmpModel.HistoricalPrice, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StocksService.GetHistoricalPrices"

	slog.Debug("GetHistoricalPrices start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("GetHistoricalPrices finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	prices, err := s.fmpApi.GetHistoricalPrices(ctx, symbol, from, to)
	if err != nil {
		slog.Error("can't get historical prices from fmpApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return prices, nil
}

// FillMoversCache is the scheduled job keeping the movers snapshot
// warm so user requests rarely hit the API directly.
func (s *StocksService) FillMoversCache(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StocksService.FillMoversCache"

	slog.Debug("FillMoversCache start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("FillMoversCache finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	movers, err := s.fmpApi.GetMarketMovers(ctx)
	if err != nil {
		slog.Error("can't get market movers from fmpApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	err = s.cache.SetMovers(ctx, movers)
	if err != nil {
		slog.Error("can't save movers to cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}
