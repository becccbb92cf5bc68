package mappers

import (
	"licentia/internal/domain/security"
	"licentia/internal/infrastructure/persistence/models"
)

// FailedAttemptMapper handles the conversion between FailedAttempt domain
// entities and persistence models.
type FailedAttemptMapper interface {
	ToModel(entity *security.FailedAttempt) *models.FailedAttemptModel
	ToDomain(model *models.FailedAttemptModel) *security.FailedAttempt
}

type FailedAttemptMapperImpl struct{}

func NewFailedAttemptMapper() FailedAttemptMapper {
	return &FailedAttemptMapperImpl{}
}

func (m *FailedAttemptMapperImpl) ToModel(entity *security.FailedAttempt) *models.FailedAttemptModel {
	if entity == nil {
		return nil
	}
	return &models.FailedAttemptModel{
		ID:          entity.ID(),
		Subject:     entity.Subject(),
		IPAddress:   entity.IPAddress(),
		UserAgent:   entity.UserAgent(),
		Reason:      entity.Reason(),
		AttemptedAt: entity.AttemptedAt(),
		ExpiresAt:   entity.ExpiresAt(),
	}
}

func (m *FailedAttemptMapperImpl) ToDomain(model *models.FailedAttemptModel) *security.FailedAttempt {
	if model == nil {
		return nil
	}
	return security.ReconstructFailedAttempt(
		model.ID,
		model.Subject,
		model.IPAddress,
		model.UserAgent,
		model.Reason,
		model.AttemptedAt,
		model.ExpiresAt,
	)
}
