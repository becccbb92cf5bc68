package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"licentia/internal/domain/security"
)

const banKeyPrefix = "ban:"

// cachedBan is the wire form of an active lockout in Redis.
type cachedBan struct {
	ID          uint      `json:"id"`
	Subject     string    `json:"subject"`
	BanCount    int       `json:"ban_count"`
	BannedUntil time.Time `json:"banned_until"`
	Reason      string    `json:"reason"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
}

// RedisBanStore holds active lockouts in Redis for low-latency isLocked
// checks. Keys expire with the lockout, so a hit is active by definition.
// Transport failures surface as security.ErrCacheUnavailable for the
// fallback selector to catch.
type RedisBanStore struct {
	client *redis.Client
}

func NewRedisBanStore(client *redis.Client) security.LockoutStore {
	return &RedisBanStore{client: client}
}

func (s *RedisBanStore) GetActiveBan(ctx context.Context, subject string) (*security.Ban, error) {
	key := banKeyPrefix + security.NormalizeSubject(subject)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, security.ErrBanNotFound
		}
		return nil, fmt.Errorf("%w: %v", security.ErrCacheUnavailable, err)
	}

	var cb cachedBan
	if err := json.Unmarshal([]byte(data), &cb); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached ban: %w", err)
	}

	return security.ReconstructBan(
		cb.ID,
		cb.Subject,
		cb.BanCount,
		cb.BannedUntil,
		cb.Reason,
		cb.IPAddress,
		cb.UserAgent,
		false,
		cb.CreatedAt,
		cb.CreatedAt,
	)
}

func (s *RedisBanStore) PutActiveBan(ctx context.Context, b *security.Ban) error {
	ttl := b.Remaining()
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(cachedBan{
		ID:          b.ID(),
		Subject:     b.Subject(),
		BanCount:    b.BanCount(),
		BannedUntil: b.BannedUntil(),
		Reason:      b.Reason(),
		IPAddress:   b.IPAddress(),
		UserAgent:   b.UserAgent(),
		CreatedAt:   b.CreatedAt(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal ban: %w", err)
	}

	key := banKeyPrefix + b.Subject()
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", security.ErrCacheUnavailable, err)
	}
	return nil
}

func (s *RedisBanStore) DropActiveBan(ctx context.Context, subject string) error {
	key := banKeyPrefix + security.NormalizeSubject(subject)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", security.ErrCacheUnavailable, err)
	}
	return nil
}
