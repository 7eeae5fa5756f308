package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/KotFed0t/stocks_portfolio_api/config"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/fmpModel"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("error not found in cache")

const moversKey = "market:movers"

const quoteKeyPrefix = "quote:"

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func (r *RedisCache) SetQuote(ctx context.Context, symbol string, quote fmpModel.Quote) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetQuote start", slog.String("rqID", rqID), slog.String("symbol", symbol))

	quoteJson, err := json.Marshal(quote)
	if err != nil {
		slog.Error("can't marshal quote in SetQuote", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshal quote")
	}

	_, err = r.redis.Set(ctx, quoteKeyPrefix+symbol, quoteJson, r.cfg.Cache.QuotesExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("symbol", symbol))
		return err
	}

	slog.Debug("SetQuote completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetQuote(ctx context.Context, symbol string) (fmpModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetQuote start", slog.String("rqID", rqID), slog.String("symbol", symbol))

	res, err := r.redis.Get(ctx, quoteKeyPrefix+symbol).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmpModel.Quote{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("symbol", symbol))
		return fmpModel.Quote{}, err
	}

	quote := fmpModel.Quote{}
	err = json.Unmarshal([]byte(res), &quote)
	if err != nil {
		slog.Error(
			"can't unmarshal quote in GetQuote",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return fmpModel.Quote{}, errors.New("can't unmarshal quote")
	}

	slog.Debug("GetQuote finished", slog.String("rqID", rqID))

	return quote, nil
}

func (r *RedisCache) SetMovers(ctx context.Context, movers fmpModel.Movers) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetMovers start", slog.String("rqID", rqID))

	moversJson, err := json.Marshal(movers)
	if err != nil {
		slog.Error("can't marshal movers in SetMovers", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshal movers")
	}

	_, err = r.redis.Set(ctx, moversKey, moversJson, r.cfg.Cache.MoversExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetMovers completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetMovers(ctx context.Context) (fmpModel.Movers, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetMovers start", slog.String("rqID", rqID))

	res, err := r.redis.Get(ctx, moversKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmpModel.Movers{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return fmpModel.Movers{}, err
	}

	movers := fmpModel.Movers{}
	err = json.Unmarshal([]byte(res), &movers)
	if err != nil {
		slog.Error(
			"can't unmarshal movers in GetMovers",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return fmpModel.Movers{}, errors.New("can't unmarshal movers")
	}

	slog.Debug("GetMovers finished", slog.String("rqID", rqID))

	return movers, nil
}
