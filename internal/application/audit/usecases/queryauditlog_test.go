package usecases

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"licentia/internal/domain/audit"
	"licentia/internal/infrastructure/persistence/models"
	"licentia/internal/infrastructure/repository"
	"licentia/internal/shared/logger"
)

func setupAuditQuery(t *testing.T) (*QueryAuditLogUseCase, *audit.Trail) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&models.AuditLogModel{}))

	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
	repo := repository.NewAuditLogRepository(gormDB)
	return NewQueryAuditLogUseCase(repo), audit.NewTrail(repo, log)
}

func record(t *testing.T, trail *audit.Trail, action audit.Action, success bool, licenseSID string) {
	t.Helper()
	entry, err := audit.NewEntry(action, success)
	require.NoError(t, err)
	if licenseSID != "" {
		entry.WithLicense(licenseSID)
	}
	entry.WithRequest("203.0.113.1", "curl/8.0")
	trail.Record(context.Background(), entry)
}

func TestQueryAuditLog(t *testing.T) {
	uc, trail := setupAuditQuery(t)
	ctx := context.Background()

	record(t, trail, audit.ActionLicenseValidated, true, "lic_one")
	record(t, trail, audit.ActionLicenseValidated, false, "lic_one")
	record(t, trail, audit.ActionLoginFailed, false, "")
	record(t, trail, audit.ActionLicenseIssued, true, "lic_two")

	t.Run("unfiltered", func(t *testing.T) {
		res, err := uc.Execute(ctx, QueryAuditLogQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), res.Total)
		assert.Len(t, res.Entries, 4)
	})

	t.Run("by action", func(t *testing.T) {
		res, err := uc.Execute(ctx, QueryAuditLogQuery{Action: "license_validated"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Total)
		for _, e := range res.Entries {
			assert.Equal(t, string(audit.ActionLicenseValidated), e.Action)
		}
	})

	t.Run("by license", func(t *testing.T) {
		res, err := uc.Execute(ctx, QueryAuditLogQuery{LicenseSID: "lic_two"})
		require.NoError(t, err)
		require.Len(t, res.Entries, 1)
		assert.Equal(t, string(audit.ActionLicenseIssued), res.Entries[0].Action)
		assert.Equal(t, "203.0.113.1", res.Entries[0].IPAddress)
	})

	t.Run("pagination clamps the page but not the total", func(t *testing.T) {
		res, err := uc.Execute(ctx, QueryAuditLogQuery{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, res.Entries, 2)
		assert.Equal(t, int64(4), res.Total)

		next, err := uc.Execute(ctx, QueryAuditLogQuery{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, next.Entries, 2)
	})

	t.Run("oversized limit falls back to the default page", func(t *testing.T) {
		res, err := uc.Execute(ctx, QueryAuditLogQuery{Limit: 10_000})
		require.NoError(t, err)
		assert.Len(t, res.Entries, 4)
	})
}
