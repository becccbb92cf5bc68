package mappers

import (
	"licentia/internal/domain/session"
	"licentia/internal/infrastructure/persistence/models"
)

// AdminSessionMapper handles the conversion between Session domain
// entities and persistence models.
type AdminSessionMapper interface {
	ToModel(entity *session.Session) *models.AdminSessionModel
	ToDomain(model *models.AdminSessionModel) *session.Session
}

type AdminSessionMapperImpl struct{}

func NewAdminSessionMapper() AdminSessionMapper {
	return &AdminSessionMapperImpl{}
}

func (m *AdminSessionMapperImpl) ToModel(entity *session.Session) *models.AdminSessionModel {
	if entity == nil {
		return nil
	}
	return &models.AdminSessionModel{
		ID:             entity.ID,
		AdminID:        entity.AdminID,
		IPAddress:      entity.IPAddress,
		UserAgent:      entity.UserAgent,
		RotatedAt:      entity.RotatedAt,
		LastActivityAt: entity.LastActivityAt,
		AnomalyCount:   entity.AnomalyCount,
		Suspicious:     entity.Suspicious,
		CreatedAt:      entity.CreatedAt,
	}
}

func (m *AdminSessionMapperImpl) ToDomain(model *models.AdminSessionModel) *session.Session {
	if model == nil {
		return nil
	}
	return &session.Session{
		ID:             model.ID,
		AdminID:        model.AdminID,
		IPAddress:      model.IPAddress,
		UserAgent:      model.UserAgent,
		RotatedAt:      model.RotatedAt,
		LastActivityAt: model.LastActivityAt,
		AnomalyCount:   model.AnomalyCount,
		Suspicious:     model.Suspicious,
		CreatedAt:      model.CreatedAt,
	}
}
