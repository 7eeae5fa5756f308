package data

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/stocks_portfolio_api/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings, panicking when redis is
// unreachable. Both the cache and the refresh-token session share the
// returned client.
func NewRedisClient(cfg *config.Config) *redis.Client {
	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("can't connect redis", slog.String("addr", addr), slog.String("err", err.Error()))
		panic(err)
	}
	slog.Info("redis connected", slog.String("addr", addr))

	return rdb
}
