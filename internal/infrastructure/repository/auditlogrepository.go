package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"licentia/internal/domain/audit"
	"licentia/internal/infrastructure/persistence/mappers"
	"licentia/internal/infrastructure/persistence/models"
)

type AuditLogRepository struct {
	db     *gorm.DB
	mapper mappers.AuditLogMapper
}

func NewAuditLogRepository(gormDB *gorm.DB) audit.Repository {
	return &AuditLogRepository{
		db:     gormDB,
		mapper: mappers.NewAuditLogMapper(),
	}
}

// Create appends an entry. Audit writes deliberately do not join the
// caller's transaction: a rolled-back business operation still leaves its
// trace, and a failed trace write never rolls back the operation.
func (r *AuditLogRepository) Create(ctx context.Context, e *audit.Entry) error {
	model := r.mapper.ToModel(e)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

func (r *AuditLogRepository) List(ctx context.Context, q audit.Query) ([]*audit.Entry, error) {
	var entryModels []models.AuditLogModel
	query := r.applyQuery(r.db.WithContext(ctx), q).Order("created_at DESC")

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*audit.Entry, 0, len(entryModels))
	for i := range entryModels {
		entries = append(entries, r.mapper.ToDomain(&entryModels[i]))
	}
	return entries, nil
}

func (r *AuditLogRepository) Count(ctx context.Context, q audit.Query) (int64, error) {
	var count int64
	err := r.applyQuery(r.db.WithContext(ctx), q).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return count, nil
}

func (r *AuditLogRepository) applyQuery(tx *gorm.DB, q audit.Query) *gorm.DB {
	tx = tx.Model(&models.AuditLogModel{})
	if q.Action != "" {
		tx = tx.Where("action = ?", string(q.Action))
	}
	if q.LicenseSID != "" {
		tx = tx.Where("license_sid = ?", q.LicenseSID)
	}
	if q.Subject != "" {
		tx = tx.Where("subject = ?", q.Subject)
	}
	if !q.From.IsZero() {
		tx = tx.Where("created_at >= ?", q.From)
	}
	if !q.To.IsZero() {
		tx = tx.Where("created_at <= ?", q.To)
	}
	return tx
}
