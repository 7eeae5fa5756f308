package rest

import (
	"net/http"

	"github.com/KotFed0t/stocks_portfolio_api/config"
	"github.com/KotFed0t/stocks_portfolio_api/internal/transport/rest/middleware"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config, ctrl *Controller, validator middleware.AccessTokenValidator) *gin.Engine {
	if !cfg.HTTP.GinDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", ctrl.SignUp)
		auth.POST("/signin", ctrl.SignIn)
		auth.POST("/refresh", ctrl.Refresh)
		auth.POST("/signout", ctrl.SignOut)
	}

	portfolio := api.Group("/portfolio", middleware.Auth(validator))
	{
		portfolio.GET("", ctrl.GetPortfolio)
		portfolio.GET("/with-quotes", ctrl.GetPortfolioWithQuotes)
		portfolio.GET("/export", ctrl.ExportPortfolio)
		portfolio.POST("/stocks", ctrl.AddStock)
		portfolio.GET("/stocks/:symbol", ctrl.GetStock)
		portfolio.PUT("/stocks/:symbol", ctrl.UpdateStock)
		portfolio.DELETE("/stocks/:symbol", ctrl.RemoveStock)
	}

	stocks := api.Group("/stocks", middleware.Auth(validator))
	{
		stocks.GET("/search", ctrl.SearchStocks)
		stocks.GET("/quote/:symbol", ctrl.GetQuote)
		stocks.GET("/quotes", ctrl.GetBatchQuotes)
		stocks.GET("/profile/:symbol", ctrl.GetCompanyProfile)
		stocks.GET("/movers", ctrl.GetMarketMovers)
		stocks.GET("/historical/:symbol", ctrl.GetHistoricalPrices)
	}

	snapshot := api.Group("/snapshot", middleware.Auth(validator))
	{
		snapshot.POST("/refresh", ctrl.RefreshSnapshot)
		snapshot.POST("/filters", ctrl.SetSnapshotFilters)
		snapshot.GET("/search", ctrl.SearchSnapshot)
		snapshot.GET("/:series", ctrl.GetSnapshotPage)
	}

	return router
}
