package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"licentia/internal/domain/license"
	"licentia/internal/infrastructure/persistence/mappers"
	"licentia/internal/infrastructure/persistence/models"
	"licentia/internal/shared/db"
)

type LicenseRepository struct {
	db     *gorm.DB
	mapper mappers.LicenseMapper
}

func NewLicenseRepository(gormDB *gorm.DB) license.Repository {
	return &LicenseRepository{
		db:     gormDB,
		mapper: mappers.NewLicenseMapper(),
	}
}

func (r *LicenseRepository) Create(ctx context.Context, l *license.License) error {
	model := r.mapper.ToModel(l)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}
	l.SetID(model.ID)
	return nil
}

func (r *LicenseRepository) Update(ctx context.Context, l *license.License) error {
	model := r.mapper.ToModel(l)
	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update license: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return license.ErrLicenseNotFound
	}
	return nil
}

func (r *LicenseRepository) GetByID(ctx context.Context, licenseID uint) (*license.License, error) {
	var model models.LicenseModel
	err := db.GetTxFromContext(ctx, r.db).Where("id = ?", licenseID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, license.ErrLicenseNotFound
		}
		return nil, fmt.Errorf("failed to get license by ID: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *LicenseRepository) GetBySID(ctx context.Context, sid string) (*license.License, error) {
	var model models.LicenseModel
	err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, license.ErrLicenseNotFound
		}
		return nil, fmt.Errorf("failed to get license by SID: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *LicenseRepository) GetCandidatesByKeyPrefix(ctx context.Context, keyPrefix string) ([]*license.License, error) {
	var licenseModels []models.LicenseModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("key_prefix = ?", keyPrefix).
		Find(&licenseModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get license candidates: %w", err)
	}

	licenses := make([]*license.License, 0, len(licenseModels))
	for i := range licenseModels {
		l, err := r.mapper.ToDomain(&licenseModels[i])
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, l)
	}
	return licenses, nil
}

func (r *LicenseRepository) ListByOrder(ctx context.Context, orderID uint) ([]*license.License, error) {
	var licenseModels []models.LicenseModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&licenseModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list licenses by order: %w", err)
	}

	licenses := make([]*license.License, 0, len(licenseModels))
	for i := range licenseModels {
		l, err := r.mapper.ToDomain(&licenseModels[i])
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, l)
	}
	return licenses, nil
}
