package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"licentia/internal/domain/session"
	"licentia/internal/infrastructure/persistence/mappers"
	"licentia/internal/infrastructure/persistence/models"
)

type AdminSessionRepository struct {
	db     *gorm.DB
	mapper mappers.AdminSessionMapper
}

func NewAdminSessionRepository(gormDB *gorm.DB) session.Repository {
	return &AdminSessionRepository{
		db:     gormDB,
		mapper: mappers.NewAdminSessionMapper(),
	}
}

func (r *AdminSessionRepository) Create(ctx context.Context, s *session.Session) error {
	model := r.mapper.ToModel(s)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *AdminSessionRepository) GetByID(ctx context.Context, sessionID string) (*session.Session, error) {
	var model models.AdminSessionModel
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

// Update persists session mutations. When the identifier rotated, the row
// keyed by previousID is rewritten under the new identifier in one
// transaction so no window exists where both identifiers resolve.
func (r *AdminSessionRepository) Update(ctx context.Context, previousID string, s *session.Session) error {
	model := r.mapper.ToModel(s)

	if previousID == s.ID {
		result := r.db.WithContext(ctx).Save(model)
		if result.Error != nil {
			return fmt.Errorf("failed to update session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return session.ErrSessionNotFound
		}
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", previousID).Delete(&models.AdminSessionModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to invalidate rotated session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return session.ErrSessionNotFound
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to store rotated session: %w", err)
		}
		return nil
	})
}

func (r *AdminSessionRepository) Delete(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&models.AdminSessionModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (r *AdminSessionRepository) DeleteByAdminID(ctx context.Context, adminID uint) error {
	err := r.db.WithContext(ctx).Where("admin_id = ?", adminID).Delete(&models.AdminSessionModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete sessions by admin ID: %w", err)
	}
	return nil
}

func (r *AdminSessionRepository) DeleteIdleSince(ctx context.Context, cutoff time.Time) error {
	err := r.db.WithContext(ctx).Where("last_activity_at <= ?", cutoff).Delete(&models.AdminSessionModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete idle sessions: %w", err)
	}
	return nil
}
