package migration

import (
	"fmt"

	"gorm.io/gorm"

	"licentia/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.LicenseModel{},
		&models.ActivationModel{},
		&models.BanModel{},
		&models.FailedAttemptModel{},
		&models.RateLimitWindowModel{},
		&models.AuditLogModel{},
		&models.AdminSessionModel{},
	}
}

// Run applies schema migrations for all registered models.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		return fmt.Errorf("failed to run auto migration: %w", err)
	}
	return nil
}
