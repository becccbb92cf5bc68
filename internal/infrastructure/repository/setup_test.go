package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"licentia/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = gormDB.AutoMigrate(
		&models.LicenseModel{},
		&models.ActivationModel{},
		&models.BanModel{},
		&models.FailedAttemptModel{},
		&models.RateLimitWindowModel{},
		&models.AuditLogModel{},
		&models.AdminSessionModel{},
	)
	require.NoError(t, err)

	return gormDB
}
