package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	securityUsecases "licentia/internal/application/security/usecases"
	"licentia/internal/application/session/usecases"
	"licentia/internal/domain/audit"
	domainSecurity "licentia/internal/domain/security"
	"licentia/internal/infrastructure/alert"
	"licentia/internal/infrastructure/auth"
	"licentia/internal/infrastructure/persistence/models"
	"licentia/internal/infrastructure/repository"
	infrasecurity "licentia/internal/infrastructure/security"
	"licentia/internal/shared/config"
	"licentia/internal/shared/constants"
	"licentia/internal/shared/db"
	"licentia/internal/shared/logger"
)

const testAttestationSecret = "test-attestation-secret"

type sessionHandlerFixture struct {
	gormDB   *gorm.DB
	attempts domainSecurity.FailedAttemptRepository
	router   *gin.Engine
}

func setupSessionHandler(t *testing.T) *sessionHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(
		&models.AdminSessionModel{},
		&models.BanModel{},
		&models.FailedAttemptModel{},
		&models.AuditLogModel{},
	))

	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))

	sessions := repository.NewAdminSessionRepository(gormDB)
	bans := repository.NewBanRepository(gormDB)
	attempts := repository.NewFailedAttemptRepository(gormDB)
	auditRepo := repository.NewAuditLogRepository(gormDB)

	trail := audit.NewTrail(auditRepo, log)
	tokens := auth.NewSessionTokenService("test-session-secret", 60)
	counter := infrasecurity.NewRelationalAttemptCounter(attempts)
	lockoutStore := infrasecurity.NewRelationalLockoutStore(bans)
	alerts := alert.NewDispatcher(nil, nil, log)
	txManager := db.NewTransactionManager(gormDB)

	lockoutCfg := config.LockoutConfig{
		MaxFailedAttempts:   3,
		LookbackMinutes:     15,
		BanDurationsMinutes: []int{30},
	}

	createUC := usecases.NewCreateSessionUseCase(sessions, tokens, trail, log)
	revokeUC := usecases.NewRevokeSessionUseCase(sessions, trail, log)
	checkLockoutUC := securityUsecases.NewCheckLockoutUseCase(lockoutStore, log)
	recordAttemptUC := securityUsecases.NewRecordFailedAttemptUseCase(
		attempts, bans, counter, lockoutStore, lockoutCfg, txManager, trail, alerts, log,
	)

	handler := NewSessionHandler(createUC, revokeUC, checkLockoutUC, recordAttemptUC, testAttestationSecret, log)

	router := gin.New()
	router.POST("/admin/sessions", handler.Create)

	return &sessionHandlerFixture{
		gormDB:   gormDB,
		attempts: attempts,
		router:   router,
	}
}

func (f *sessionHandlerFixture) create(body, attestation string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/sessions", bytes.NewBufferString(body))
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	if attestation != "" {
		req.Header.Set(constants.HeaderAttestation, attestation)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestSessionHandler_Create_AttestedRequestMintsToken(t *testing.T) {
	f := setupSessionHandler(t)

	w := f.create(`{"admin_id": 7, "subject": "admin@example.com"}`, testAttestationSecret)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}

func TestSessionHandler_Create_RejectsMissingAttestation(t *testing.T) {
	f := setupSessionHandler(t)

	w := f.create(`{"admin_id": 7, "subject": "admin@example.com"}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
}

func TestSessionHandler_Create_RejectsWrongAttestation(t *testing.T) {
	f := setupSessionHandler(t)

	w := f.create(`{"admin_id": 7, "subject": "admin@example.com"}`, "guessed-secret")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	t.Run("failure feeds the ban engine", func(t *testing.T) {
		res := f.gormDB.Model(&models.FailedAttemptModel{}).Where("subject = ?", "admin@example.com")
		var count int64
		require.NoError(t, res.Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestSessionHandler_Create_RepeatedBadAttestationsLockTheSubject(t *testing.T) {
	f := setupSessionHandler(t)

	for i := 0; i < 3; i++ {
		w := f.create(`{"admin_id": 7, "subject": "admin@example.com"}`, "guessed-secret")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// Even the genuine attestation cannot mint a session while the
	// subject is locked out.
	w := f.create(`{"admin_id": 7, "subject": "admin@example.com"}`, testAttestationSecret)
	assert.Equal(t, http.StatusForbidden, w.Code)

	t.Run("other subjects are unaffected", func(t *testing.T) {
		w := f.create(`{"admin_id": 8, "subject": "other@example.com"}`, testAttestationSecret)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestSessionHandler_Create_RequiresSubject(t *testing.T) {
	f := setupSessionHandler(t)

	w := f.create(`{"admin_id": 7}`, testAttestationSecret)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
