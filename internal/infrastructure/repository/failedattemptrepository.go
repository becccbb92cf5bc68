package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"licentia/internal/domain/security"
	"licentia/internal/infrastructure/persistence/mappers"
	"licentia/internal/infrastructure/persistence/models"
	"licentia/internal/shared/biztime"
	"licentia/internal/shared/db"
)

type FailedAttemptRepository struct {
	db     *gorm.DB
	mapper mappers.FailedAttemptMapper
}

func NewFailedAttemptRepository(gormDB *gorm.DB) security.FailedAttemptRepository {
	return &FailedAttemptRepository{
		db:     gormDB,
		mapper: mappers.NewFailedAttemptMapper(),
	}
}

func (r *FailedAttemptRepository) Create(ctx context.Context, a *security.FailedAttempt) error {
	model := r.mapper.ToModel(a)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create failed attempt: %w", err)
	}
	return nil
}

func (r *FailedAttemptRepository) CountBySubjectSince(ctx context.Context, subject string, since time.Time) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.FailedAttemptModel{}).
		Where("subject = ? AND attempted_at >= ?", security.NormalizeSubject(subject), since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count failed attempts: %w", err)
	}
	return count, nil
}

func (r *FailedAttemptRepository) DeleteBySubject(ctx context.Context, subject string) error {
	err := db.GetTxFromContext(ctx, r.db).
		Where("subject = ?", security.NormalizeSubject(subject)).
		Delete(&models.FailedAttemptModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete failed attempts: %w", err)
	}
	return nil
}

func (r *FailedAttemptRepository) DeleteExpired(ctx context.Context) error {
	err := db.GetTxFromContext(ctx, r.db).
		Where("expires_at <= ?", biztime.NowUTC()).
		Delete(&models.FailedAttemptModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to purge expired failed attempts: %w", err)
	}
	return nil
}
