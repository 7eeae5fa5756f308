package rest

import (
	"net/http"
	"strings"

	"github.com/KotFed0t/stocks_portfolio_api/internal/model/restModel"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/gin-gonic/gin"
)

func (ctrl *Controller) GetQuote(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	quote, err := ctrl.stocksService.GetQuote(ctx, c.Param("symbol"))
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (ctrl *Controller) GetBatchQuotes(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	raw := c.Query("symbols")
	if raw == "" {
		c.JSON(http.StatusBadRequest, restModel.ErrorResponse{Error: "symbols query parameter is required"})
		return
	}

	symbols := make([]string, 0)
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}

	quotes, err := ctrl.stocksService.GetBatchQuotes(ctx, symbols)
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, quotes)
}

func (ctrl *Controller) GetCompanyProfile(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	profile, err := ctrl.stocksService.GetCompanyProfile(ctx, c.Param("symbol"))
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (ctrl *Controller) GetMarketMovers(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	movers, err := ctrl.stocksService.GetMarketMovers(ctx)
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, movers)
}

func (ctrl *Controller) SearchStocks(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	results, err := ctrl.stocksService.Search(ctx, c.Query("query"))
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (ctrl *Controller) GetHistoricalPrices(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	prices, err := ctrl.stocksService.GetHistoricalPrices(ctx, c.Param("symbol"), c.Query("from"), c.Query("to"))
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, prices)
}
