package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"licentia/internal/domain/license"
	"licentia/internal/infrastructure/persistence/mappers"
	"licentia/internal/infrastructure/persistence/models"
	"licentia/internal/shared/biztime"
	"licentia/internal/shared/db"
)

type ActivationRepository struct {
	db     *gorm.DB
	mapper mappers.ActivationMapper
}

func NewActivationRepository(gormDB *gorm.DB) license.ActivationRepository {
	return &ActivationRepository{
		db:     gormDB,
		mapper: mappers.NewActivationMapper(),
	}
}

func (r *ActivationRepository) Create(ctx context.Context, a *license.Activation) error {
	model := r.mapper.ToModel(a)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create activation: %w", err)
	}
	a.SetID(model.ID)
	return nil
}

func (r *ActivationRepository) Update(ctx context.Context, a *license.Activation) error {
	model := r.mapper.ToModel(a)
	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update activation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return license.ErrActivationNotFound
	}
	return nil
}

func (r *ActivationRepository) GetByID(ctx context.Context, activationID uint) (*license.Activation, error) {
	var model models.ActivationModel
	err := db.GetTxFromContext(ctx, r.db).Where("id = ?", activationID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, license.ErrActivationNotFound
		}
		return nil, fmt.Errorf("failed to get activation by ID: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *ActivationRepository) GetBySID(ctx context.Context, sid string) (*license.Activation, error) {
	var model models.ActivationModel
	err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, license.ErrActivationNotFound
		}
		return nil, fmt.Errorf("failed to get activation by SID: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *ActivationRepository) GetActiveByLicense(ctx context.Context, licenseID uint) ([]*license.Activation, error) {
	var activationModels []models.ActivationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("license_id = ? AND active = ? AND revoked = ?", licenseID, true, false).
		Order("created_at ASC").
		Find(&activationModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active activations: %w", err)
	}

	activations := make([]*license.Activation, 0, len(activationModels))
	for i := range activationModels {
		a, err := r.mapper.ToDomain(&activationModels[i])
		if err != nil {
			return nil, err
		}
		activations = append(activations, a)
	}
	return activations, nil
}

func (r *ActivationRepository) GetActiveByLicenseAndHash(ctx context.Context, licenseID uint, hash string) (*license.Activation, error) {
	var model models.ActivationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("license_id = ? AND active = ? AND revoked = ? AND (fingerprint_hash = ? OR machine_id_hash = ?)",
			licenseID, true, false, hash, hash).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, license.ErrActivationNotFound
		}
		return nil, fmt.Errorf("failed to get activation by hash: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *ActivationRepository) CountActiveByLicense(ctx context.Context, licenseID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.ActivationModel{}).
		Where("license_id = ? AND active = ? AND revoked = ?", licenseID, true, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active activations: %w", err)
	}
	return count, nil
}

func (r *ActivationRepository) RevokeAllByLicense(ctx context.Context, licenseID uint, reason string) error {
	now := biztime.NowUTC()
	err := db.GetTxFromContext(ctx, r.db).Model(&models.ActivationModel{}).
		Where("license_id = ? AND active = ? AND revoked = ?", licenseID, true, false).
		Updates(map[string]interface{}{
			"active":        false,
			"revoked":       true,
			"revoke_reason": reason,
			"revoked_at":    now,
			"updated_at":    now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke activations for license %d: %w", licenseID, err)
	}
	return nil
}
