package mappers

import (
	"fmt"

	"licentia/internal/domain/license"
	"licentia/internal/domain/license/valueobjects"
	"licentia/internal/infrastructure/persistence/models"
)

// LicenseMapper handles the conversion between License domain entities and
// persistence models.
type LicenseMapper interface {
	ToModel(entity *license.License) *models.LicenseModel
	ToDomain(model *models.LicenseModel) (*license.License, error)
}

type LicenseMapperImpl struct{}

func NewLicenseMapper() LicenseMapper {
	return &LicenseMapperImpl{}
}

func (m *LicenseMapperImpl) ToModel(entity *license.License) *models.LicenseModel {
	if entity == nil {
		return nil
	}
	return &models.LicenseModel{
		ID:                     entity.ID(),
		SID:                    entity.SID(),
		KeyHash:                entity.KeyHash(),
		KeyPrefix:              entity.KeyPrefix(),
		ProductID:              entity.ProductID(),
		OrderID:                entity.OrderID(),
		Status:                 entity.Status().String(),
		MaxActivations:         entity.MaxActivations(),
		MaxActivationsOverride: entity.MaxActivationsOverride(),
		ActivationCount:        entity.ActivationCount(),
		RequireMachineBinding:  entity.RequireMachineBinding(),
		ExpiresAt:              entity.ExpiresAt(),
		CreatedAt:              entity.CreatedAt(),
		UpdatedAt:              entity.UpdatedAt(),
	}
}

func (m *LicenseMapperImpl) ToDomain(model *models.LicenseModel) (*license.License, error) {
	if model == nil {
		return nil, nil
	}
	status, err := valueobjects.ParseLicenseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to map license %d: %w", model.ID, err)
	}
	return license.ReconstructLicense(
		model.ID,
		model.SID,
		model.KeyHash,
		model.KeyPrefix,
		model.ProductID,
		model.OrderID,
		status,
		model.MaxActivations,
		model.MaxActivationsOverride,
		model.ActivationCount,
		model.RequireMachineBinding,
		model.ExpiresAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
