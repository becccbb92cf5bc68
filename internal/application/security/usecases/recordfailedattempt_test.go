package usecases

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"licentia/internal/domain/audit"
	"licentia/internal/domain/security"
	"licentia/internal/infrastructure/alert"
	"licentia/internal/infrastructure/persistence/models"
	"licentia/internal/infrastructure/repository"
	infrasecurity "licentia/internal/infrastructure/security"
	"licentia/internal/shared/config"
	"licentia/internal/shared/db"
	"licentia/internal/shared/logger"
)

type banEngineFixture struct {
	gormDB    *gorm.DB
	attempts  security.FailedAttemptRepository
	bans      security.BanRepository
	auditRepo audit.Repository
	record    *RecordFailedAttemptUseCase
	check     *CheckLockoutUseCase
}

func setupBanEngine(t *testing.T, cfg config.LockoutConfig) *banEngineFixture {
	t.Helper()
	return setupBanEngineWithAlerts(t, cfg, nil, nil)
}

func setupBanEngineWithAlerts(t *testing.T, cfg config.LockoutConfig, notifiers []alert.Notifier, enabledEvents []string) *banEngineFixture {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(
		&models.BanModel{},
		&models.FailedAttemptModel{},
		&models.AuditLogModel{},
	))

	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))

	attempts := repository.NewFailedAttemptRepository(gormDB)
	bans := repository.NewBanRepository(gormDB)
	auditRepo := repository.NewAuditLogRepository(gormDB)

	counter := infrasecurity.NewRelationalAttemptCounter(attempts)
	lockoutStore := infrasecurity.NewRelationalLockoutStore(bans)
	trail := audit.NewTrail(auditRepo, log)
	alerts := alert.NewDispatcher(notifiers, enabledEvents, log)
	txManager := db.NewTransactionManager(gormDB)

	return &banEngineFixture{
		gormDB:    gormDB,
		attempts:  attempts,
		bans:      bans,
		auditRepo: auditRepo,
		record: NewRecordFailedAttemptUseCase(
			attempts, bans, counter, lockoutStore, cfg, txManager, trail, alerts, log,
		),
		check: NewCheckLockoutUseCase(lockoutStore, log),
	}
}

func defaultLockoutConfig() config.LockoutConfig {
	return config.LockoutConfig{
		MaxFailedAttempts:   5,
		LookbackMinutes:     15,
		BanDurationsMinutes: []int{30, 120, 480},
	}
}

func failOnce(t *testing.T, f *banEngineFixture, subject string) *RecordFailedAttemptResult {
	t.Helper()
	res, err := f.record.Execute(context.Background(), RecordFailedAttemptCommand{
		Subject:   subject,
		Reason:    "invalid credentials",
		IPAddress: "203.0.113.1",
		UserAgent: "curl/8.0",
	})
	require.NoError(t, err)
	return res
}

func TestRecordFailedAttempt_BelowThreshold(t *testing.T) {
	f := setupBanEngine(t, defaultLockoutConfig())

	for i := 1; i <= 4; i++ {
		res := failOnce(t, f, "user@example.com")
		assert.False(t, res.Banned, "attempt %d must not ban", i)
		assert.Equal(t, int64(i), res.AttemptCount)
	}

	check, err := f.check.Execute(context.Background(), CheckLockoutQuery{Subject: "user@example.com"})
	require.NoError(t, err)
	assert.False(t, check.Locked)
}

func TestRecordFailedAttempt_ThresholdIssuesFirstBan(t *testing.T) {
	f := setupBanEngine(t, defaultLockoutConfig())
	ctx := context.Background()

	var res *RecordFailedAttemptResult
	for i := 0; i < 5; i++ {
		res = failOnce(t, f, "user@example.com")
	}

	assert.True(t, res.Banned)
	assert.Equal(t, 1, res.BanCount)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), res.BannedUntil, 5*time.Second)

	t.Run("lockout is enforced", func(t *testing.T) {
		check, err := f.check.Execute(ctx, CheckLockoutQuery{Subject: "user@example.com"})
		require.NoError(t, err)
		assert.True(t, check.Locked)
		assert.Equal(t, 1, check.BanCount)
		assert.Greater(t, check.Remaining, time.Duration(0))

		assert.Error(t, f.check.Enforce(ctx, "user@example.com"))
	})

	t.Run("attempts are cleared on escalation", func(t *testing.T) {
		count, err := f.attempts.CountBySubjectSince(ctx, "user@example.com", time.Now().UTC().Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, count, "escalation must consume the recorded attempts")
	})

	t.Run("audit trail carries both actions", func(t *testing.T) {
		failed, err := f.auditRepo.Count(ctx, audit.Query{Action: audit.ActionLoginFailed})
		require.NoError(t, err)
		assert.Equal(t, int64(5), failed)

		banned, err := f.auditRepo.Count(ctx, audit.Query{Action: audit.ActionAccountBanned})
		require.NoError(t, err)
		assert.Equal(t, int64(1), banned)
	})
}

func TestRecordFailedAttempt_EscalationLengthensBans(t *testing.T) {
	f := setupBanEngine(t, defaultLockoutConfig())

	// First escalation.
	for i := 0; i < 5; i++ {
		failOnce(t, f, "user@example.com")
	}

	// The subject keeps failing; the counter restarted after the ban.
	var res *RecordFailedAttemptResult
	for i := 0; i < 5; i++ {
		res = failOnce(t, f, "user@example.com")
	}

	assert.True(t, res.Banned)
	assert.Equal(t, 2, res.BanCount)
	assert.WithinDuration(t, time.Now().UTC().Add(2*time.Hour), res.BannedUntil, 5*time.Second)

	history, err := f.bans.ListBySubject(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Len(t, history, 2, "earlier bans are superseded, never deleted")
}

func TestRecordFailedAttempt_EscalationPlateaus(t *testing.T) {
	cfg := defaultLockoutConfig()
	cfg.MaxFailedAttempts = 1
	cfg.BanDurationsMinutes = []int{30, 120}
	f := setupBanEngine(t, cfg)

	var res *RecordFailedAttemptResult
	for i := 0; i < 4; i++ {
		res = failOnce(t, f, "user@example.com")
	}

	assert.Equal(t, 4, res.BanCount)
	// Third and later bans plateau at the last schedule entry.
	assert.WithinDuration(t, time.Now().UTC().Add(2*time.Hour), res.BannedUntil, 5*time.Second)
}

type capturingNotifier struct {
	events chan alert.Event
}

func (n *capturingNotifier) Notify(e alert.Event) error {
	n.events <- e
	return nil
}

func awaitEvent(t *testing.T, events <-chan alert.Event) alert.Event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("expected an alert event")
		return alert.Event{}
	}
}

func TestRecordFailedAttempt_AlertsOneFailureBeforeLockout(t *testing.T) {
	notifier := &capturingNotifier{events: make(chan alert.Event, 8)}
	f := setupBanEngineWithAlerts(t, defaultLockoutConfig(),
		[]alert.Notifier{notifier},
		[]string{string(alert.EventRepeatedInvalidKey), string(alert.EventAccountBanned)},
	)

	for i := 1; i <= 4; i++ {
		res := failOnce(t, f, "user@example.com")
		assert.False(t, res.Banned)
	}

	// Attempts 1 through 3 stay quiet; the fourth is one short of the
	// threshold and raises the warning.
	e := awaitEvent(t, notifier.events)
	assert.Equal(t, alert.EventRepeatedInvalidKey, e.Type)
	assert.Equal(t, "user@example.com", e.Subject)
	assert.Equal(t, "4", e.Details["attempt_count"])

	res := failOnce(t, f, "user@example.com")
	assert.True(t, res.Banned)

	e = awaitEvent(t, notifier.events)
	assert.Equal(t, alert.EventAccountBanned, e.Type)
}

func TestRecordFailedAttempt_SubjectsAreIsolated(t *testing.T) {
	f := setupBanEngine(t, defaultLockoutConfig())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		failOnce(t, f, "victim@example.com")
	}
	res := failOnce(t, f, "bystander@example.com")

	assert.False(t, res.Banned)
	assert.Equal(t, int64(1), res.AttemptCount)

	check, err := f.check.Execute(ctx, CheckLockoutQuery{Subject: "bystander@example.com"})
	require.NoError(t, err)
	assert.False(t, check.Locked)
}

func TestRecordFailedAttempt_SubjectIsNormalized(t *testing.T) {
	f := setupBanEngine(t, defaultLockoutConfig())

	for i := 0; i < 4; i++ {
		failOnce(t, f, "user@example.com")
	}
	res := failOnce(t, f, "  User@Example.COM ")

	assert.True(t, res.Banned, "case variants of the subject share one counter")
}
