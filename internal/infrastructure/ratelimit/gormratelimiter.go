package ratelimit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"licentia/internal/infrastructure/persistence/models"
	"licentia/internal/shared/biztime"
)

// GormRateLimiter implements fixed-window counting on the relational
// store, for deployments running without Redis. The increment is a single
// conditional UPDATE, so concurrent requests sharing a key serialize on
// the row instead of racing a read-modify-write. The decision is read back
// after the increment; under contention the read may include competing
// increments, which can only deny a borderline request, never admit one
// over the limit.
type GormRateLimiter struct {
	db *gorm.DB
}

func NewGormRateLimiter(db *gorm.DB) RateLimiter {
	return &GormRateLimiter{db: db}
}

func (l *GormRateLimiter) Check(ctx context.Context, subjectType SubjectType, subjectValue, endpoint string, maxRequests int, window time.Duration) (Decision, error) {
	now := biztime.NowUTC()

	res := l.db.WithContext(ctx).Model(&models.RateLimitWindowModel{}).
		Where("subject_type = ? AND subject_value = ? AND endpoint = ? AND expires_at > ?",
			subjectType, subjectValue, endpoint, now).
		UpdateColumn("counter", gorm.Expr("counter + ?", 1))
	if res.Error != nil {
		return Decision{}, fmt.Errorf("failed to increment rate limit window: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		if err := l.openWindow(ctx, subjectType, subjectValue, endpoint, window, now); err != nil {
			return Decision{}, err
		}
	}

	var model models.RateLimitWindowModel
	err := l.db.WithContext(ctx).
		Where("subject_type = ? AND subject_value = ? AND endpoint = ?",
			subjectType, subjectValue, endpoint).
		First(&model).Error
	if err != nil {
		return Decision{}, fmt.Errorf("failed to read rate limit window: %w", err)
	}

	remaining := maxRequests - model.Counter
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   model.Counter <= maxRequests,
		Remaining: remaining,
		ResetAt:   model.ExpiresAt,
	}, nil
}

// openWindow reaps the expired row for the key, then inserts a fresh
// window with counter=1. A concurrent creator is absorbed by the conflict
// clause, which turns the insert into an increment of the winner's row.
func (l *GormRateLimiter) openWindow(ctx context.Context, subjectType SubjectType, subjectValue, endpoint string, window time.Duration, now time.Time) error {
	err := l.db.WithContext(ctx).
		Where("subject_type = ? AND subject_value = ? AND endpoint = ? AND expires_at <= ?",
			subjectType, subjectValue, endpoint, now).
		Delete(&models.RateLimitWindowModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to reap expired rate limit window: %w", err)
	}

	model := &models.RateLimitWindowModel{
		SubjectType:  string(subjectType),
		SubjectValue: subjectValue,
		Endpoint:     endpoint,
		Counter:      1,
		WindowStart:  now,
		ExpiresAt:    now.Add(window),
	}

	err = l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "subject_type"}, {Name: "subject_value"}, {Name: "endpoint"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"counter": gorm.Expr("counter + ?", 1),
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to open rate limit window: %w", err)
	}
	return nil
}

func (l *GormRateLimiter) Reset(ctx context.Context, subjectType SubjectType, subjectValue, endpoint string) error {
	err := l.db.WithContext(ctx).
		Where("subject_type = ? AND subject_value = ? AND endpoint = ?",
			subjectType, subjectValue, endpoint).
		Delete(&models.RateLimitWindowModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to reset rate limit window: %w", err)
	}
	return nil
}
