package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter keeps each window as a sorted set of request timestamps so
// that horizontally scaled gateway instances share one quota. On Redis
// errors it fails open: an unreachable limiter backend must not take the
// API down with it.
type RedisLimiter struct {
	client *redis.Client
	limits Limits
}

// NewRedisLimiter creates a limiter backed by the Redis at redisURL.
func NewRedisLimiter(redisURL string, limits Limits) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisLimiter{client: redis.NewClient(opts), limits: limits}, nil
}

func (l *RedisLimiter) Check(ctx context.Context, key string, class Class) (Result, error) {
	limit := l.limits.limitFor(class)
	bucket := fmt.Sprintf("ratelimit:%s:%s", key, class)
	now := time.Now()
	windowStart := now.Add(-l.limits.Window)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, bucket,
		"-inf", strconv.FormatInt(windowStart.UnixNano(), 10))
	card := pipe.ZCard(ctx, bucket)
	oldest := pipe.ZRangeWithScores(ctx, bucket, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("rate limiter backend unavailable, failing open", "error", err)
		return Result{Allowed: true, Limit: limit, Remaining: limit - 1, RetryAfter: l.limits.Window}, nil
	}

	count := int(card.Val())
	retryAfter := l.limits.Window
	if entries := oldest.Val(); len(entries) > 0 {
		oldestAt := time.Unix(0, int64(entries[0].Score))
		retryAfter = oldestAt.Add(l.limits.Window).Sub(now)
	}

	if count >= limit {
		return Result{Allowed: false, Limit: limit, Remaining: 0, RetryAfter: retryAfter}, nil
	}

	admit := l.client.TxPipeline()
	admit.ZAdd(ctx, bucket, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	admit.PExpire(ctx, bucket, l.limits.Window)
	if _, err := admit.Exec(ctx); err != nil {
		slog.Warn("rate limiter admit failed", "error", err)
	}

	if count == 0 {
		retryAfter = l.limits.Window
	}
	return Result{
		Allowed:    true,
		Limit:      limit,
		Remaining:  limit - count - 1,
		RetryAfter: retryAfter,
	}, nil
}

func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
