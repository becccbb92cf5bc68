package mappers

import (
	"gorm.io/datatypes"

	"licentia/internal/domain/audit"
	"licentia/internal/infrastructure/persistence/models"
)

// AuditLogMapper handles the conversion between audit Entry domain
// entities and persistence models.
type AuditLogMapper interface {
	ToModel(entity *audit.Entry) *models.AuditLogModel
	ToDomain(model *models.AuditLogModel) *audit.Entry
}

type AuditLogMapperImpl struct{}

func NewAuditLogMapper() AuditLogMapper {
	return &AuditLogMapperImpl{}
}

func (m *AuditLogMapperImpl) ToModel(entity *audit.Entry) *models.AuditLogModel {
	if entity == nil {
		return nil
	}
	return &models.AuditLogModel{
		ID:            entity.ID(),
		Action:        string(entity.Action()),
		Success:       entity.Success(),
		FailureReason: entity.FailureReason(),
		Subject:       entity.Subject(),
		LicenseSID:    entity.LicenseSID(),
		IPAddress:     entity.IPAddress(),
		UserAgent:     entity.UserAgent(),
		Metadata:      datatypes.JSONMap(entity.Metadata()),
		CreatedAt:     entity.CreatedAt(),
	}
}

func (m *AuditLogMapperImpl) ToDomain(model *models.AuditLogModel) *audit.Entry {
	if model == nil {
		return nil
	}
	return audit.ReconstructEntry(
		model.ID,
		audit.Action(model.Action),
		model.Success,
		model.FailureReason,
		model.Subject,
		model.LicenseSID,
		model.IPAddress,
		model.UserAgent,
		map[string]any(model.Metadata),
		model.CreatedAt,
	)
}
