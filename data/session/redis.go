package session

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/KotFed0t/stocks_portfolio_api/config"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("error not found")

const refreshKeyPrefix = "refresh:"

// RedisSession stores one refresh token per user. Writing a new token
// replaces the previous one, old sessions die on re-login.
type RedisSession struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSession(redisClient *redis.Client, cfg *config.Config) *RedisSession {
	return &RedisSession{redis: redisClient, cfg: cfg}
}

func (s *RedisSession) SetRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	_, err := s.redis.Set(ctx, refreshKeyPrefix+strconv.FormatInt(userID, 10), refreshToken, s.cfg.JWT.RefreshExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.Int64("userID", userID))
		return err
	}

	return nil
}

func (s *RedisSession) GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	token, err := s.redis.Get(ctx, refreshKeyPrefix+strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.Int64("userID", userID))
		return "", err
	}

	return token, nil
}

func (s *RedisSession) DeleteRefreshToken(ctx context.Context, userID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	_, err := s.redis.Del(ctx, refreshKeyPrefix+strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		slog.Error("failed on redis.Del", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.Int64("userID", userID))
		return err
	}

	return nil
}
