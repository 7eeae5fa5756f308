package fmpApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KotFed0t/stocks_portfolio_api/config"
	"github.com/KotFed0t/stocks_portfolio_api/internal/externalApi"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/fmpModel"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

type FmpApi struct {
	client      *resty.Client
	apiKey      string
	searchLimit int
}

func New(cfg *config.Config) *FmpApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.FmpApi.Url)
	return &FmpApi{
		client:      client,
		apiKey:      cfg.API.FmpApi.Key,
		searchLimit: cfg.API.FmpApi.SearchLimit,
	}
}

func (a *FmpApi) get(ctx context.Context, url string, params map[string]string) ([]byte, int, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("apikey", a.apiKey).
		SetQueryParams(params).
		Get(url)

	if err != nil {
		slog.Error("error while dialing FmpApi", slog.String("rqID", rqID), slog.String("url", url), slog.String("err", err.Error()))
		return nil, 0, err
	}

	return resp.Body(), resp.StatusCode(), nil
}

// GetQuote returns the current quote for one symbol. A symbol unknown
// to the API maps to externalApi.ErrNotFound.
func (a *FmpApi) GetQuote(ctx context.Context, symbol string) (fmpModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FmpApi.GetQuote"

	slog.Debug("GetQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	body, status, err := a.get(ctx, "/quote/"+strings.ToUpper(symbol), nil)
	if err != nil {
		return fmpModel.Quote{}, err
	}

	if status >= 400 {
		return fmpModel.Quote{}, fmt.Errorf("fmp api returned status %d", status)
	}

	var quotes []fmpModel.Quote
	if err := json.Unmarshal(body, &quotes); err != nil {
		slog.Error("can't unmarshal response into []fmpModel.Quote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmpModel.Quote{}, err
	}

	if len(quotes) == 0 {
		return fmpModel.Quote{}, externalApi.ErrNotFound
	}

	slog.Debug("GetQuote finished", slog.String("rqID", rqID), slog.String("op", op))

	return quotes[0], nil
}

func (a *FmpApi) GetBatchQuotes(ctx context.Context, symbols []string) ([]fmpModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FmpApi.GetBatchQuotes"

	if len(symbols) == 0 {
		return nil, nil
	}

	upper := make([]string, 0, len(symbols))
	for _, s := range symbols {
		upper = append(upper, strings.ToUpper(s))
	}

	slog.Debug("GetBatchQuotes start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("symbols", len(symbols)))

	body, status, err := a.get(ctx, "/quote/"+strings.Join(upper, ","), nil)
	if err != nil {
		return nil, err
	}

	if status >= 400 {
		return nil, fmt.Errorf("fmp api returned status %d", status)
	}

	var quotes []fmpModel.Quote
	if err := json.Unmarshal(body, &quotes); err != nil {
		slog.Error("can't unmarshal response into []fmpModel.Quote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("GetBatchQuotes finished", slog.String("rqID", rqID), slog.String("op", op))

	return quotes, nil
}

// GetCompanyProfile is the quote source for portfolio valuation, the
// profile endpoint also carries the current price.
func (a *FmpApi) GetCompanyProfile(ctx context.Context, symbol string) (fmpModel.CompanyProfile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FmpApi.GetCompanyProfile"

	slog.Debug("GetCompanyProfile start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	body, status, err := a.get(ctx, "/profile", map[string]string{"symbol": strings.ToUpper(symbol)})
	if err != nil {
		return fmpModel.CompanyProfile{}, err
	}

	if status >= 400 {
		return fmpModel.CompanyProfile{}, fmt.Errorf("fmp api returned status %d", status)
	}

	var profiles []fmpModel.CompanyProfile
	if err := json.Unmarshal(body, &profiles); err != nil {
		slog.Error("can't unmarshal response into []fmpModel.CompanyProfile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmpModel.CompanyProfile{}, err
	}

	if len(profiles) == 0 {
		return fmpModel.CompanyProfile{}, externalApi.ErrNotFound
	}

	slog.Debug("GetCompanyProfile finished", slog.String("rqID", rqID), slog.String("op", op))

	return profiles[0], nil
}

func (a *FmpApi) getMoverList(ctx context.Context, series string) ([]fmpModel.Mover, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	endpoint := "/biggest-gainers"
	if series == "losers" {
		endpoint = "/biggest-losers"
	}

	body, status, err := a.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if status >= 400 {
		return nil, fmt.Errorf("fmp api returned status %d for %s", status, endpoint)
	}

	var movers []fmpModel.Mover
	if err := json.Unmarshal(body, &movers); err != nil {
		slog.Error("can't unmarshal response into []fmpModel.Mover", slog.String("rqID", rqID), slog.String("endpoint", endpoint), slog.String("err", err.Error()))
		return nil, err
	}

	return movers, nil
}

// GetMarketMovers fetches the gainers and losers snapshots
// concurrently. Either both lists are returned or an error is, there
// is no partial result.
func (a *FmpApi) GetMarketMovers(ctx context.Context) (fmpModel.Movers, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FmpApi.GetMarketMovers"

	slog.Debug("GetMarketMovers start", slog.String("rqID", rqID), slog.String("op", op))

	var movers fmpModel.Movers

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gainers, err := a.getMoverList(gCtx, "gainers")
		if err != nil {
			return err
		}
		movers.Gainers = gainers
		return nil
	})
	g.Go(func() error {
		losers, err := a.getMoverList(gCtx, "losers")
		if err != nil {
			return err
		}
		movers.Losers = losers
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmpModel.Movers{}, err
	}

	slog.Debug("GetMarketMovers finished", slog.String("rqID", rqID), slog.String("op", op))

	return movers, nil
}

func (a *FmpApi) Search(ctx context.Context, query string) ([]fmpModel.SearchResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FmpApi.Search"

	slog.Debug("Search start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))

	params := map[string]string{
		"query": query,
		"limit": strconv.Itoa(a.searchLimit),
	}

	body, status, err := a.get(ctx, "/search-name", params)
	if err != nil {
		return nil, err
	}

	if status >= 400 {
		return nil, fmt.Errorf("fmp api returned status %d", status)
	}

	var results []fmpModel.SearchResult
	if err := json.Unmarshal(body, &results); err != nil {
		slog.Error("can't unmarshal response into []fmpModel.SearchResult", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("Search finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int("results", len(results)))

	return results, nil
}

func (a *FmpApi) GetHistoricalPrices(ctx context.Context, symbol, from, to string) ([]fmpModel.HistoricalPrice, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FmpApi.GetHistoricalPrices"

	slog.Debug("GetHistoricalPrices start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	params := map[string]string{}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}

	body, status, err := a.get(ctx, "/historical-price-full/"+strings.ToUpper(symbol), params)
	if err != nil {
		return nil, err
	}

	if status >= 400 {
		return nil, fmt.Errorf("fmp api returned status %d", status)
	}

	prices := fmpModel.HistoricalPrices{}
	if err := json.Unmarshal(body, &prices); err != nil {
		slog.Error("can't unmarshal response into fmpModel.HistoricalPrices", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("GetHistoricalPrices finished", slog.String("rqID", rqID), slog.String("op", op))

	return prices.Historical, nil
}
