package dbConverter

import (
	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/dbModel"
)

func ToUser(u dbModel.User) model.User {
	return model.User{
		ID:        u.UserID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToHolding(h dbModel.Holding) model.Holding {
	return model.Holding{
		ID:           h.HoldingID,
		UserID:       h.UserID,
		Symbol:       h.Symbol,
		Quantity:     h.Quantity,
		AveragePrice: h.AveragePrice,
		AddedAt:      h.AddedAt,
		UpdatedAt:    h.UpdatedAt,
	}
}

func ToHoldings(dbHoldings []dbModel.Holding) []model.Holding {
	holdings := make([]model.Holding, 0, len(dbHoldings))
	for _, h := range dbHoldings {
		holdings = append(holdings, ToHolding(h))
	}
	return holdings
}
