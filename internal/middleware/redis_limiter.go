package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a sliding-window limiter shared by every instance that
// points at the same Redis. It fails open when Redis is unreachable.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	logger *slog.Logger
}

func NewRedisLimiter(rdb *redis.Client, prefix string, logger *slog.Logger) *RedisLimiter {
	if prefix == "" {
		prefix = "portal:rl:"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix, logger: logger}
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || l.rdb == nil {
		return true
	}
	now := time.Now().UnixMilli()
	start := now - window.Milliseconds()
	limitKey := l.prefix + key

	member := windowMember(now)

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, limitKey, "0", fmt.Sprintf("%d", start))
	pipe.ZAdd(ctx, limitKey, redis.Z{Score: float64(now), Member: member})
	countCmd := pipe.ZCard(ctx, limitKey)
	pipe.Expire(ctx, limitKey, window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limit check failed, allowing", "key", key, "error", err)
		return true
	}

	if countCmd.Val() > int64(limit) {
		l.rdb.ZRem(ctx, limitKey, member)
		return false
	}
	return true
}

// windowMember is unique per request so that requests in the same
// millisecond are counted separately.
func windowMember(nowMillis int64) string {
	return fmt.Sprintf("%d-%s", nowMillis, uuid.NewString())
}
