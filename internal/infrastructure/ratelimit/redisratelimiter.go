package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"licentia/internal/shared/biztime"
)

// RedisRateLimiter implements fixed-window counting on Redis. INCR plus a
// create-only expire makes the count-and-compare a single atomic round
// trip; two racing requests can never both claim the last slot.
type RedisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &RedisRateLimiter{client: client}
}

func (l *RedisRateLimiter) Check(ctx context.Context, subjectType SubjectType, subjectValue, endpoint string, maxRequests int, window time.Duration) (Decision, error) {
	key := buildKey(subjectType, subjectValue, endpoint)

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	// NX: only the request that creates the window sets its expiry.
	pipe.ExpireNX(ctx, key, window)
	pttl := pipe.PTTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	count := incr.Val()
	resetAt := biztime.NowUTC().Add(window)
	if ttl := pttl.Val(); ttl > 0 {
		resetAt = biztime.NowUTC().Add(ttl)
	}

	remaining := maxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= int64(maxRequests),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, subjectType SubjectType, subjectValue, endpoint string) error {
	key := buildKey(subjectType, subjectValue, endpoint)
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit key %s: %w", key, err)
	}
	return nil
}

func buildKey(subjectType SubjectType, subjectValue, endpoint string) string {
	return fmt.Sprintf("ratelimit:%s:%s:%s", subjectType, subjectValue, endpoint)
}
