package xlsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/xuri/excelize/v2"
)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(ctx context.Context, portfolio model.PortfolioWithQuotes) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	if len(portfolio.Holdings) == 0 {
		return nil, "", errors.New("empty portfolio")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := g.fillSheet(f, portfolio); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillSheet(f *excelize.File, portfolio model.PortfolioWithQuotes) error {
	const sheetName = "Sheet1"

	err := f.MergeCell(sheetName, "A1", "H1")
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Portfolio")

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	_ = f.SetCellStr(sheetName, "A2", "symbol")
	_ = f.SetCellStr(sheetName, "B2", "quantity")
	_ = f.SetCellStr(sheetName, "C2", "average price")
	_ = f.SetCellStr(sheetName, "D2", "current price")
	_ = f.SetCellStr(sheetName, "E2", "current value")
	_ = f.SetCellStr(sheetName, "F2", "invested")
	_ = f.SetCellStr(sheetName, "G2", "gain/loss")
	_ = f.SetCellStr(sheetName, "H2", "gain/loss %")

	for i, h := range portfolio.Holdings {
		row := i + 3
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), h.Symbol)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), h.Quantity.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), h.AveragePrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), h.CurrentPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), h.CurrentValue.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), h.TotalInvestment.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), h.GainLoss.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), h.GainLossPercent.InexactFloat64())
	}

	totalsRow := len(portfolio.Holdings) + 4

	totalsStyleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#d9ead3"},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalsRow), fmt.Sprintf("H%d", totalsRow), totalsStyleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", totalsRow), "total")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", totalsRow), portfolio.Totals.TotalValue.InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", totalsRow), portfolio.Totals.TotalInvestment.InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", totalsRow), portfolio.Totals.TotalGainLoss.InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", totalsRow), portfolio.Totals.TotalGainLossPercent.InexactFloat64())

	return nil
}
