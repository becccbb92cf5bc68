package mappers

import (
	"licentia/internal/domain/license"
	"licentia/internal/infrastructure/persistence/models"
)

// ActivationMapper handles the conversion between Activation domain
// entities and persistence models.
type ActivationMapper interface {
	ToModel(entity *license.Activation) *models.ActivationModel
	ToDomain(model *models.ActivationModel) (*license.Activation, error)
}

type ActivationMapperImpl struct{}

func NewActivationMapper() ActivationMapper {
	return &ActivationMapperImpl{}
}

func (m *ActivationMapperImpl) ToModel(entity *license.Activation) *models.ActivationModel {
	if entity == nil {
		return nil
	}
	return &models.ActivationModel{
		ID:              entity.ID(),
		SID:             entity.SID(),
		LicenseID:       entity.LicenseID(),
		FingerprintHash: entity.FingerprintHash(),
		MachineIDHash:   entity.MachineIDHash(),
		Active:          entity.IsActive(),
		Revoked:         entity.Revoked(),
		RevokeReason:    entity.RevokeReason(),
		RevokedAt:       entity.RevokedAt(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}
}

func (m *ActivationMapperImpl) ToDomain(model *models.ActivationModel) (*license.Activation, error) {
	if model == nil {
		return nil, nil
	}
	return license.ReconstructActivation(
		model.ID,
		model.SID,
		model.LicenseID,
		model.FingerprintHash,
		model.MachineIDHash,
		model.Active,
		model.Revoked,
		model.RevokeReason,
		model.RevokedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
