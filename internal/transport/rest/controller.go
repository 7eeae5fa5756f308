package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/fmpModel"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/restModel"
	"github.com/KotFed0t/stocks_portfolio_api/internal/service"
	"github.com/KotFed0t/stocks_portfolio_api/internal/snapshotStore"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AuthService interface {
	SignUp(ctx context.Context, firstname, lastname, email, password string) (model.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (model.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (model.AuthResult, error)
	SignOut(ctx context.Context, refreshToken string) error
}

type PortfolioService interface {
	GetPortfolio(ctx context.Context, userID int64) ([]model.Holding, error)
	GetPortfolioWithQuotes(ctx context.Context, userID int64) (model.PortfolioWithQuotes, error)
	AddStock(ctx context.Context, userID int64, symbol string, quantity, averagePrice decimal.Decimal) (model.Holding, error)
	UpdateStock(ctx context.Context, userID int64, symbol string, quantity, averagePrice *decimal.Decimal) (model.Holding, error)
	GetStock(ctx context.Context, userID int64, symbol string) (model.Holding, error)
	RemoveStock(ctx context.Context, userID int64, symbol string) error
	ExportPortfolio(ctx context.Context, userID int64) (fileBytes []byte, fileExtension string, err error)
}

type StocksService interface {
	GetQuote(ctx context.Context, symbol string) (fmpModel.Quote, error)
	GetBatchQuotes(ctx context.Context, symbols []string) ([]fmpModel.Quote, error)
	GetCompanyProfile(ctx context.Context, symbol string) (fmpModel.CompanyProfile, error)
	GetMarketMovers(ctx context.Context) (fmpModel.Movers, error)
	Search(ctx context.Context, query string) ([]fmpModel.SearchResult, error)
	GetHistoricalPrices(ctx context.Context, symbol, from, to string) ([]fmpModel.HistoricalPrice, error)
}

type Controller struct {
	authService      AuthService
	portfolioService PortfolioService
	stocksService    StocksService
	snapshots        *snapshotRegistry
}

func NewController(
	authService AuthService,
	portfolioService PortfolioService,
	stocksService StocksService,
	snapshotFetcher snapshotStore.Fetcher,
	snapshotPageSize int,
) *Controller {
	return &Controller{
		authService:      authService,
		portfolioService: portfolioService,
		stocksService:    stocksService,
		snapshots:        newSnapshotRegistry(snapshotFetcher, snapshotPageSize),
	}
}

const internalErrMsg = "something went wrong"

// errorResponse maps service sentinels to HTTP statuses. Unknown
// errors become an opaque 500, details stay in the logs.
func (ctrl *Controller) errorResponse(c *gin.Context, ctx context.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, restModel.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusConflict, restModel.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, restModel.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidSymbol), errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, restModel.ErrorResponse{Error: err.Error()})
	default:
		slog.Error(
			"unexpected error",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("err", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, restModel.ErrorResponse{Error: internalErrMsg})
	}
}

func (ctrl *Controller) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, restModel.ErrorResponse{Error: err.Error()})
}

func userIDFromGinCtx(c *gin.Context) int64 {
	return c.GetInt64("userID")
}
