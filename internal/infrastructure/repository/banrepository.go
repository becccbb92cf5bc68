package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"licentia/internal/domain/security"
	"licentia/internal/infrastructure/persistence/mappers"
	"licentia/internal/infrastructure/persistence/models"
	"licentia/internal/shared/biztime"
	"licentia/internal/shared/db"
)

type BanRepository struct {
	db     *gorm.DB
	mapper mappers.BanMapper
}

func NewBanRepository(gormDB *gorm.DB) security.BanRepository {
	return &BanRepository{
		db:     gormDB,
		mapper: mappers.NewBanMapper(),
	}
}

func (r *BanRepository) Create(ctx context.Context, b *security.Ban) error {
	model := r.mapper.ToModel(b)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ban: %w", err)
	}
	b.SetID(model.ID)
	return nil
}

func (r *BanRepository) Update(ctx context.Context, b *security.Ban) error {
	model := r.mapper.ToModel(b)
	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update ban: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return security.ErrBanNotFound
	}
	return nil
}

func (r *BanRepository) GetLatestBySubject(ctx context.Context, subject string) (*security.Ban, error) {
	var model models.BanModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("subject = ?", security.NormalizeSubject(subject)).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, security.ErrBanNotFound
		}
		return nil, fmt.Errorf("failed to get latest ban: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *BanRepository) GetActiveBySubject(ctx context.Context, subject string) (*security.Ban, error) {
	var model models.BanModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("subject = ? AND removed = ? AND banned_until > ?",
			security.NormalizeSubject(subject), false, biztime.NowUTC()).
		Order("banned_until DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, security.ErrBanNotFound
		}
		return nil, fmt.Errorf("failed to get active ban: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *BanRepository) ListActive(ctx context.Context) ([]*security.Ban, error) {
	var banModels []models.BanModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("removed = ? AND banned_until > ?", false, biztime.NowUTC()).
		Order("banned_until DESC").
		Find(&banModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active bans: %w", err)
	}

	bans := make([]*security.Ban, 0, len(banModels))
	for i := range banModels {
		b, err := r.mapper.ToDomain(&banModels[i])
		if err != nil {
			return nil, err
		}
		bans = append(bans, b)
	}
	return bans, nil
}

func (r *BanRepository) ListBySubject(ctx context.Context, subject string) ([]*security.Ban, error) {
	var banModels []models.BanModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("subject = ?", security.NormalizeSubject(subject)).
		Order("created_at DESC").
		Find(&banModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bans: %w", err)
	}

	bans := make([]*security.Ban, 0, len(banModels))
	for i := range banModels {
		b, err := r.mapper.ToDomain(&banModels[i])
		if err != nil {
			return nil, err
		}
		bans = append(bans, b)
	}
	return bans, nil
}
