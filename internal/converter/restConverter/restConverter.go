package restConverter

import (
	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/restModel"
)

func UserResponse(u model.User) restModel.UserResponse {
	return restModel.UserResponse{
		ID:        u.ID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
	}
}

func AuthResponse(res model.AuthResult) restModel.AuthResponse {
	return restModel.AuthResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         UserResponse(res.User),
	}
}

func HoldingResponse(h model.Holding) restModel.HoldingResponse {
	return restModel.HoldingResponse{
		ID:           h.ID,
		Symbol:       h.Symbol,
		Quantity:     h.Quantity.InexactFloat64(),
		AveragePrice: h.AveragePrice.InexactFloat64(),
		AddedAt:      h.AddedAt,
		UpdatedAt:    h.UpdatedAt,
	}
}

func HoldingsResponse(holdings []model.Holding) []restModel.HoldingResponse {
	res := make([]restModel.HoldingResponse, 0, len(holdings))
	for _, h := range holdings {
		res = append(res, HoldingResponse(h))
	}
	return res
}

func ValuedHoldingResponse(h model.ValuedHolding) restModel.ValuedHoldingResponse {
	return restModel.ValuedHoldingResponse{
		HoldingResponse: HoldingResponse(h.Holding),
		CurrentPrice:    h.CurrentPrice.InexactFloat64(),
		CurrentValue:    h.CurrentValue.InexactFloat64(),
		TotalInvestment: h.TotalInvestment.InexactFloat64(),
		GainLoss:        h.GainLoss.InexactFloat64(),
		GainLossPercent: h.GainLossPercent.InexactFloat64(),
	}
}

func PortfolioWithQuotesResponse(p model.PortfolioWithQuotes) restModel.PortfolioWithQuotesResponse {
	holdings := make([]restModel.ValuedHoldingResponse, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		holdings = append(holdings, ValuedHoldingResponse(h))
	}
	return restModel.PortfolioWithQuotesResponse{
		Holdings: holdings,
		Totals: restModel.PortfolioTotalsResponse{
			TotalValue:           p.Totals.TotalValue.InexactFloat64(),
			TotalInvestment:      p.Totals.TotalInvestment.InexactFloat64(),
			TotalGainLoss:        p.Totals.TotalGainLoss.InexactFloat64(),
			TotalGainLossPercent: p.Totals.TotalGainLossPercent.InexactFloat64(),
		},
	}
}

func MoverEntryResponse(e model.MoverEntry) restModel.MoverEntryResponse {
	return restModel.MoverEntryResponse{
		ID:                e.ID,
		Symbol:            e.Symbol,
		Name:              e.Name,
		Price:             e.Price,
		Change:            e.Change,
		ChangesPercentage: e.ChangesPercentage,
		Exchange:          e.Exchange,
		Volume:            e.Volume,
		MarketCap:         e.MarketCap,
	}
}

func SnapshotPageResponse(series model.MoverSeries, page, pageSize, total int, entries []model.MoverEntry) restModel.SnapshotPageResponse {
	res := restModel.SnapshotPageResponse{
		Series:   string(series),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Entries:  make([]restModel.MoverEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		res.Entries = append(res.Entries, MoverEntryResponse(e))
	}
	return res
}

func SearchResultsResponse(results []model.SearchResult) []restModel.SearchResultResponse {
	res := make([]restModel.SearchResultResponse, 0, len(results))
	for _, r := range results {
		res = append(res, restModel.SearchResultResponse{
			ID:                r.ID,
			Symbol:            r.Symbol,
			Name:              r.Name,
			Currency:          r.Currency,
			StockExchange:     r.StockExchange,
			ExchangeShortName: r.ExchangeShortName,
		})
	}
	return res
}
