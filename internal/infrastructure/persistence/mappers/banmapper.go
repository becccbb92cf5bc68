package mappers

import (
	"licentia/internal/domain/security"
	"licentia/internal/infrastructure/persistence/models"
)

// BanMapper handles the conversion between Ban domain entities and
// persistence models.
type BanMapper interface {
	ToModel(entity *security.Ban) *models.BanModel
	ToDomain(model *models.BanModel) (*security.Ban, error)
}

type BanMapperImpl struct{}

func NewBanMapper() BanMapper {
	return &BanMapperImpl{}
}

func (m *BanMapperImpl) ToModel(entity *security.Ban) *models.BanModel {
	if entity == nil {
		return nil
	}
	return &models.BanModel{
		ID:          entity.ID(),
		Subject:     entity.Subject(),
		BanCount:    entity.BanCount(),
		BannedUntil: entity.BannedUntil(),
		Reason:      entity.Reason(),
		IPAddress:   entity.IPAddress(),
		UserAgent:   entity.UserAgent(),
		Removed:     entity.Removed(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *BanMapperImpl) ToDomain(model *models.BanModel) (*security.Ban, error) {
	if model == nil {
		return nil, nil
	}
	return security.ReconstructBan(
		model.ID,
		model.Subject,
		model.BanCount,
		model.BannedUntil,
		model.Reason,
		model.IPAddress,
		model.UserAgent,
		model.Removed,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
