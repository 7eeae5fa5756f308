package portfolioService

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/KotFed0t/stocks_portfolio_api/data/repository"
	"github.com/KotFed0t/stocks_portfolio_api/internal/converter/dbConverter"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/dbModel"
	"github.com/KotFed0t/stocks_portfolio_api/internal/service"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/shopspring/decimal"
)

var symbolRe = regexp.MustCompile(`^[A-Za-z0-9]{1,10}$`)

type Repository interface {
	GetHolding(ctx context.Context, userID int64, symbol string) (dbModel.Holding, error)
	GetHoldings(ctx context.Context, userID int64) ([]dbModel.Holding, error)
	InsertHolding(ctx context.Context, userID int64, symbol string, quantity, averagePrice decimal.Decimal) (dbModel.Holding, error)
	UpdateHolding(ctx context.Context, userID int64, symbol string, quantity, averagePrice *decimal.Decimal) (dbModel.Holding, error)
	DeleteHolding(ctx context.Context, userID int64, symbol string) error
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
}

// Quotes supplies the current price per symbol. An error means the
// quote is unavailable, the valuation then degrades to price 0.
type Quotes interface {
	GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, portfolio model.PortfolioWithQuotes) (fileBytes []byte, fileExtension string, err error)
}

type PortfolioService struct {
	repo            Repository
	quotes          Quotes
	reportGenerator ReportGenerator
}

func New(repo Repository, quotes Quotes, reportGenerator ReportGenerator) *PortfolioService {
	return &PortfolioService{
		repo:            repo,
		quotes:          quotes,
		reportGenerator: reportGenerator,
	}
}

func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolRe.MatchString(symbol) {
		return "", service.ErrInvalidSymbol
	}
	return symbol, nil
}

func (s *PortfolioService) GetPortfolio(ctx context.Context, userID int64) ([]model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPortfolio"

	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID))
	defer func() {
		slog.Debug("GetPortfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID))
	}()

	dbHoldings, err := s.repo.GetHoldings(ctx, userID)
	if err != nil {
		slog.Error("got error from repo.GetHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return dbConverter.ToHoldings(dbHoldings), nil
}

// GetPortfolioWithQuotes values every holding against its current
// price. A failed quote degrades that holding to price 0 instead of
// failing the whole portfolio.
func (s *PortfolioService) GetPortfolioWithQuotes(ctx context.Context, userID int64) (model.PortfolioWithQuotes, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPortfolioWithQuotes"

	slog.Debug("GetPortfolioWithQuotes start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID))
	defer func() {
		slog.Debug("GetPortfolioWithQuotes finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID))
	}()

	holdings, err := s.GetPortfolio(ctx, userID)
	if err != nil {
		return model.PortfolioWithQuotes{}, err
	}

	valued := make([]model.ValuedHolding, 0, len(holdings))
	for _, holding := range holdings {
		price, err := s.quotes.GetCurrentPrice(ctx, holding.Symbol)
		if err != nil {
			slog.Warn(
				"quote unavailable, valuing holding at price 0",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("symbol", holding.Symbol),
				slog.String("err", err.Error()),
			)
			price = decimal.Zero
		}

		metrics := CalculateStockMetrics(holding.Quantity, holding.AveragePrice, price)

		valued = append(valued, model.ValuedHolding{
			Holding:         holding,
			CurrentPrice:    price,
			CurrentValue:    metrics.CurrentValue,
			TotalInvestment: metrics.TotalInvestment,
			GainLoss:        metrics.GainLoss,
			GainLossPercent: metrics.GainLossPercent,
		})
	}

	return model.PortfolioWithQuotes{
		Holdings: valued,
		Totals:   CalculatePortfolioTotals(valued),
	}, nil
}

// AddStock inserts a new holding or merges the purchase into an
// existing one via the weighted-average rule, so a user never has two
// rows for the same symbol.
func (s *PortfolioService) AddStock(ctx context.Context, userID int64, symbol string, quantity, averagePrice decimal.Decimal) (model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.AddStock"

	slog.Debug("AddStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("AddStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return model.Holding{}, err
	}

	// merging two zero-quantity lots would divide by zero
	if !quantity.IsPositive() || averagePrice.IsNegative() {
		return model.Holding{}, service.ErrInvalidQuantity
	}

	var result dbModel.Holding

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetHolding(ctx, userID, symbol)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				result, err = s.repo.InsertHolding(ctx, userID, symbol, quantity, averagePrice)
				return err
			}
			return err
		}

		combinedQuantity, weightedAveragePrice := CalculateAveragePrice(existing.Quantity, existing.AveragePrice, quantity, averagePrice)

		result, err = s.repo.UpdateHolding(ctx, userID, symbol, &combinedQuantity, &weightedAveragePrice)
		return err
	})
	if err != nil {
		slog.Error("AddStock transaction failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, err
	}

	return dbConverter.ToHolding(result), nil
}

// UpdateStock overwrites quantity and/or average price directly, no
// weighted merge. Nil fields stay unchanged.
func (s *PortfolioService) UpdateStock(ctx context.Context, userID int64, symbol string, quantity, averagePrice *decimal.Decimal) (model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdateStock"

	slog.Debug("UpdateStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("UpdateStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return model.Holding{}, err
	}

	if quantity != nil && quantity.IsNegative() {
		return model.Holding{}, service.ErrInvalidQuantity
	}
	if averagePrice != nil && averagePrice.IsNegative() {
		return model.Holding{}, service.ErrInvalidQuantity
	}

	holding, err := s.repo.UpdateHolding(ctx, userID, symbol, quantity, averagePrice)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Holding{}, service.ErrNotFound
		}
		slog.Error("got error from repo.UpdateHolding", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, err
	}

	return dbConverter.ToHolding(holding), nil
}

func (s *PortfolioService) GetStock(ctx context.Context, userID int64, symbol string) (model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetStock"

	slog.Debug("GetStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("GetStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return model.Holding{}, err
	}

	holding, err := s.repo.GetHolding(ctx, userID, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Holding{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetHolding", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, err
	}

	return dbConverter.ToHolding(holding), nil
}

func (s *PortfolioService) RemoveStock(ctx context.Context, userID int64, symbol string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RemoveStock"

	slog.Debug("RemoveStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("RemoveStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return err
	}

	err = s.repo.DeleteHolding(ctx, userID, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		slog.Error("got error from repo.DeleteHolding", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (s *PortfolioService) ExportPortfolio(ctx context.Context, userID int64) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ExportPortfolio"

	slog.Debug("ExportPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID))
	defer func() {
		slog.Debug("ExportPortfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID))
	}()

	portfolio, err := s.GetPortfolioWithQuotes(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if len(portfolio.Holdings) == 0 {
		return nil, "", service.ErrNotFound
	}

	fileBytes, fileExtension, err = s.reportGenerator.Generate(ctx, portfolio)
	if err != nil {
		slog.Error("got error from reportGenerator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	return fileBytes, fileExtension, nil
}
