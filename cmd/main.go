package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/stocks_portfolio_api/config"
	"github.com/KotFed0t/stocks_portfolio_api/data"
	"github.com/KotFed0t/stocks_portfolio_api/data/cache"
	"github.com/KotFed0t/stocks_portfolio_api/data/repository/postgres"
	"github.com/KotFed0t/stocks_portfolio_api/data/session"
	"github.com/KotFed0t/stocks_portfolio_api/internal/externalApi/fmpApi"
	"github.com/KotFed0t/stocks_portfolio_api/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/stocks_portfolio_api/internal/scheduler"
	"github.com/KotFed0t/stocks_portfolio_api/internal/service/authService"
	"github.com/KotFed0t/stocks_portfolio_api/internal/service/portfolioService"
	"github.com/KotFed0t/stocks_portfolio_api/internal/service/stocksService"
	"github.com/KotFed0t/stocks_portfolio_api/internal/transport/rest"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(cfg, pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	redisSession := session.NewRedisSession(redisClient, cfg)

	fmpApiClient := fmpApi.New(cfg)

	reportGenerator := xlsxGenerator.New()

	stocksSrv := stocksService.New(fmpApiClient, redisCache)
	portfolioSrv := portfolioService.New(pgRepo, stocksSrv, reportGenerator)
	authSrv := authService.New(cfg, pgRepo, redisSession)

	sched := scheduler.New()
	sched.NewIntervalJob("fill movers cache", stocksSrv.FillMoversCache, cfg.Jobs.FillMoversCacheInterval, true)
	sched.Start()
	defer sched.Stop()

	ctrl := rest.NewController(authSrv, portfolioSrv, stocksSrv, stocksSrv, cfg.Movers.PageSize)
	router := rest.NewRouter(cfg, ctrl, authSrv)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.String("err", err.Error()))
		}
	}()

	slog.Info("server started", slog.Int("port", cfg.HTTP.Port))

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("err", err.Error()))
	}
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
