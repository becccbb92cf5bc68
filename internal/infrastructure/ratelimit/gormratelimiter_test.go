package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"licentia/internal/infrastructure/persistence/models"
)

func setupLimiter(t *testing.T) RateLimiter {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RateLimitWindowModel{}))

	return NewGormRateLimiter(db)
}

func TestGormRateLimiter_AllowsUnderLimit(t *testing.T) {
	limiter := setupLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := limiter.Check(ctx, SubjectIP, "203.0.113.1", "validate", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 3-(i+1), d.Remaining)
	}
}

func TestGormRateLimiter_DeniesOverLimit(t *testing.T) {
	limiter := setupLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := limiter.Check(ctx, SubjectIP, "203.0.113.1", "validate", 2, time.Minute)
		require.NoError(t, err)
	}

	d, err := limiter.Check(ctx, SubjectIP, "203.0.113.1", "validate", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, d.Remaining)
	assert.True(t, d.ResetAt.After(time.Now().UTC()))
}

func TestGormRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := setupLimiter(t)
	ctx := context.Background()

	// Exhaust one key.
	for i := 0; i < 2; i++ {
		_, err := limiter.Check(ctx, SubjectIP, "203.0.113.1", "validate", 1, time.Minute)
		require.NoError(t, err)
	}

	t.Run("different subject value", func(t *testing.T) {
		d, err := limiter.Check(ctx, SubjectIP, "198.51.100.7", "validate", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("different endpoint", func(t *testing.T) {
		d, err := limiter.Check(ctx, SubjectIP, "203.0.113.1", "activate", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("different subject type", func(t *testing.T) {
		d, err := limiter.Check(ctx, SubjectAccount, "203.0.113.1", "validate", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})
}

func TestGormRateLimiter_ExpiredWindowReopens(t *testing.T) {
	limiter := setupLimiter(t)
	ctx := context.Background()

	// Burn the whole window, then let it expire.
	for i := 0; i < 2; i++ {
		_, err := limiter.Check(ctx, SubjectIP, "203.0.113.1", "validate", 1, 20*time.Millisecond)
		require.NoError(t, err)
	}
	time.Sleep(30 * time.Millisecond)

	d, err := limiter.Check(ctx, SubjectIP, "203.0.113.1", "validate", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed, "a fresh window should open after expiry")
}

func TestGormRateLimiter_Reset(t *testing.T) {
	limiter := setupLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := limiter.Check(ctx, SubjectIP, "203.0.113.1", "validate", 1, time.Minute)
		require.NoError(t, err)
	}

	require.NoError(t, limiter.Reset(ctx, SubjectIP, "203.0.113.1", "validate"))

	d, err := limiter.Check(ctx, SubjectIP, "203.0.113.1", "validate", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
