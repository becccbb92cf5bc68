package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"licentia/internal/domain/security"
)

const attemptKeyPrefix = "failed_attempts:"

// RedisAttemptCounter tracks failed attempts per subject with a rolling
// expiry. The key TTL is set only on first increment so the lookback window
// anchors at the first failure, matching the relational counter's window.
type RedisAttemptCounter struct {
	client *redis.Client
}

func NewRedisAttemptCounter(client *redis.Client) security.AttemptCounter {
	return &RedisAttemptCounter{client: client}
}

func (c *RedisAttemptCounter) Increment(ctx context.Context, subject string, window time.Duration) (int64, error) {
	key := attemptKeyPrefix + security.NormalizeSubject(subject)

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", security.ErrCacheUnavailable, err)
	}
	return incr.Val(), nil
}

func (c *RedisAttemptCounter) Clear(ctx context.Context, subject string) error {
	key := attemptKeyPrefix + security.NormalizeSubject(subject)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", security.ErrCacheUnavailable, err)
	}
	return nil
}
