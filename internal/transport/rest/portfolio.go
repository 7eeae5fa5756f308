package rest

import (
	"fmt"
	"net/http"

	"github.com/KotFed0t/stocks_portfolio_api/internal/converter/restConverter"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/restModel"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (ctrl *Controller) GetPortfolio(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	holdings, err := ctrl.portfolioService.GetPortfolio(ctx, userIDFromGinCtx(c))
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, restConverter.HoldingsResponse(holdings))
}

func (ctrl *Controller) GetPortfolioWithQuotes(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	portfolio, err := ctrl.portfolioService.GetPortfolioWithQuotes(ctx, userIDFromGinCtx(c))
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, restConverter.PortfolioWithQuotesResponse(portfolio))
}

func (ctrl *Controller) AddStock(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	var req restModel.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.badRequest(c, err)
		return
	}

	holding, err := ctrl.portfolioService.AddStock(
		ctx,
		userIDFromGinCtx(c),
		req.Symbol,
		decimal.NewFromFloat(req.Quantity),
		decimal.NewFromFloat(req.AveragePrice),
	)
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusCreated, restConverter.HoldingResponse(holding))
}

func (ctrl *Controller) UpdateStock(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	var req restModel.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.badRequest(c, err)
		return
	}

	var quantity, averagePrice *decimal.Decimal
	if req.Quantity != nil {
		d := decimal.NewFromFloat(*req.Quantity)
		quantity = &d
	}
	if req.AveragePrice != nil {
		d := decimal.NewFromFloat(*req.AveragePrice)
		averagePrice = &d
	}

	holding, err := ctrl.portfolioService.UpdateStock(ctx, userIDFromGinCtx(c), c.Param("symbol"), quantity, averagePrice)
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, restConverter.HoldingResponse(holding))
}

func (ctrl *Controller) GetStock(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	holding, err := ctrl.portfolioService.GetStock(ctx, userIDFromGinCtx(c), c.Param("symbol"))
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, restConverter.HoldingResponse(holding))
}

func (ctrl *Controller) RemoveStock(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	if err := ctrl.portfolioService.RemoveStock(ctx, userIDFromGinCtx(c), c.Param("symbol")); err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, restModel.MessageResponse{Message: "holding removed"})
}

func (ctrl *Controller) ExportPortfolio(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	fileBytes, fileExtension, err := ctrl.portfolioService.ExportPortfolio(ctx, userIDFromGinCtx(c))
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	filename := "portfolio" + fileExtension
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", fileBytes)
}
