package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	auditUsecases "licentia/internal/application/audit/usecases"
	licenseUsecases "licentia/internal/application/license/usecases"
	securityUsecases "licentia/internal/application/security/usecases"
	sessionUsecases "licentia/internal/application/session/usecases"
	"licentia/internal/domain/audit"
	"licentia/internal/domain/license"
	domainSecurity "licentia/internal/domain/security"
	"licentia/internal/domain/session"
	"licentia/internal/infrastructure/alert"
	"licentia/internal/infrastructure/auth"
	"licentia/internal/infrastructure/cache"
	"licentia/internal/infrastructure/config"
	"licentia/internal/infrastructure/ratelimit"
	"licentia/internal/infrastructure/repository"
	infraSecurity "licentia/internal/infrastructure/security"
	"licentia/internal/interfaces/http/handlers"
	"licentia/internal/shared/db"
	"licentia/internal/shared/logger"
)

// Container wires repositories, stores, use cases and handlers together.
type Container struct {
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface

	licenseHandler  *handlers.LicenseHandler
	securityHandler *handlers.SecurityHandler
	auditHandler    *handlers.AuditHandler
	sessionHandler  *handlers.SessionHandler

	authenticateSessionUC *sessionUsecases.AuthenticateSessionUseCase
	recordFailedAttemptUC *securityUsecases.RecordFailedAttemptUseCase
	checkLockoutUC        *securityUsecases.CheckLockoutUseCase
	purgeIdleSessionsUC   *sessionUsecases.PurgeIdleSessionsUseCase

	rateLimiter ratelimit.RateLimiter
	trail       *audit.Trail
}

// NewContainer builds the full dependency graph. A nil redis client is
// valid: every cache-backed concern then runs on its relational fallback.
func NewContainer(gormDB *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	txManager := db.NewTransactionManager(gormDB)

	// Repositories
	licenseRepo := repository.NewLicenseRepository(gormDB)
	activationRepo := repository.NewActivationRepository(gormDB)
	banRepo := repository.NewBanRepository(gormDB)
	attemptRepo := repository.NewFailedAttemptRepository(gormDB)
	auditRepo := repository.NewAuditLogRepository(gormDB)
	sessionRepo := repository.NewAdminSessionRepository(gormDB)

	trail := audit.NewTrail(auditRepo, log)

	if cfg.Security.Hashing.FingerprintSecret == "" {
		return nil, fmt.Errorf("fingerprint secret is not configured")
	}

	// Hashers
	keyHasher := auth.NewBcryptKeyHasher(cfg.Security.Hashing.BcryptCost)
	fingerprintHasher := auth.NewHMACFingerprintHasher(cfg.Security.Hashing.FingerprintSecret)

	// Alerting
	notifiers := make([]alert.Notifier, 0, 2)
	if cfg.Alert.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewWebhookNotifier(
			cfg.Alert.WebhookURL,
			time.Duration(cfg.Alert.WebhookTimeout)*time.Second,
		))
	}
	if cfg.Alert.EmailTo != "" {
		notifiers = append(notifiers, alert.NewEmailNotifier(cfg.Email, cfg.Alert.EmailTo))
	}
	alerts := alert.NewDispatcher(notifiers, cfg.Alert.EnabledEvents, log)

	// Lockout and counter stores: Redis preferred, relational fallback.
	relLockout := infraSecurity.NewRelationalLockoutStore(banRepo)
	relCounter := infraSecurity.NewRelationalAttemptCounter(attemptRepo)
	var lockoutStore domainSecurity.LockoutStore = relLockout
	var attemptCounter domainSecurity.AttemptCounter = relCounter
	var rateLimiter ratelimit.RateLimiter = ratelimit.NewGormRateLimiter(gormDB)

	if redisClient != nil {
		lockoutStore = infraSecurity.NewFallbackLockoutStore(cache.NewRedisBanStore(redisClient), relLockout, alerts, log)
		attemptCounter = infraSecurity.NewFallbackAttemptCounter(cache.NewRedisAttemptCounter(redisClient), relCounter, alerts, log)
		rateLimiter = ratelimit.NewRedisRateLimiter(redisClient)
	}

	// Domain services
	lookup := license.NewLookup(licenseRepo, keyHasher)
	detector := session.NewDetector(cfg.Security.Session.SuspicionThreshold, cfg.Security.Session.MaliciousCIDRs)
	tokens := auth.NewSessionTokenService(cfg.Security.Session.JWTSecret, cfg.Security.Session.IdleTimeoutMinutes)

	// Use cases
	validateUC := licenseUsecases.NewValidateLicenseUseCase(lookup, activationRepo, fingerprintHasher, trail, log)
	activateUC := licenseUsecases.NewActivateMachineUseCase(lookup, licenseRepo, activationRepo, fingerprintHasher, txManager, trail, log)
	deactivateUC := licenseUsecases.NewDeactivateMachineUseCase(lookup, licenseRepo, activationRepo, fingerprintHasher, txManager, trail, log)
	issueUC := licenseUsecases.NewIssueLicenseUseCase(licenseRepo, keyHasher, trail, log)
	revokeUC := licenseUsecases.NewRevokeLicenseUseCase(licenseRepo, activationRepo, txManager, trail, log)
	changeStatusUC := licenseUsecases.NewChangeLicenseStatusUseCase(licenseRepo, trail, log)
	getLicenseUC := licenseUsecases.NewGetLicenseUseCase(licenseRepo, activationRepo)

	recordAttemptUC := securityUsecases.NewRecordFailedAttemptUseCase(
		attemptRepo, banRepo, attemptCounter, lockoutStore,
		cfg.Security.Lockout, txManager, trail, alerts, log,
	)
	checkLockoutUC := securityUsecases.NewCheckLockoutUseCase(lockoutStore, log)
	resetCountUC := securityUsecases.NewResetBanCountUseCase(banRepo, trail, log)
	removeLockoutUC := securityUsecases.NewRemoveLockoutUseCase(banRepo, lockoutStore, trail, log)
	listHistoryUC := securityUsecases.NewListBanHistoryUseCase(banRepo)

	createSessionUC := sessionUsecases.NewCreateSessionUseCase(sessionRepo, tokens, trail, log)
	authenticateUC := sessionUsecases.NewAuthenticateSessionUseCase(sessionRepo, tokens, detector, cfg.Security.Session, trail, alerts, log)
	revokeSessionUC := sessionUsecases.NewRevokeSessionUseCase(sessionRepo, trail, log)
	purgeIdleUC := sessionUsecases.NewPurgeIdleSessionsUseCase(sessionRepo, cfg.Security.Session, log)

	queryAuditUC := auditUsecases.NewQueryAuditLogUseCase(auditRepo)

	return &Container{
		cfg: cfg,
		log: log,

		licenseHandler: handlers.NewLicenseHandler(
			validateUC, activateUC, deactivateUC,
			issueUC, revokeUC, changeStatusUC, getLicenseUC, log,
		),
		securityHandler: handlers.NewSecurityHandler(checkLockoutUC, resetCountUC, removeLockoutUC, listHistoryUC, log),
		auditHandler:    handlers.NewAuditHandler(queryAuditUC, log),
		sessionHandler: handlers.NewSessionHandler(
			createSessionUC, revokeSessionUC,
			checkLockoutUC, recordAttemptUC,
			cfg.Security.Session.AttestationSecret, log,
		),

		authenticateSessionUC: authenticateUC,
		recordFailedAttemptUC: recordAttemptUC,
		checkLockoutUC:        checkLockoutUC,
		purgeIdleSessionsUC:   purgeIdleUC,

		rateLimiter: rateLimiter,
		trail:       trail,
	}, nil
}

// Trail exposes the audit writer for callers outside the HTTP layer.
func (c *Container) Trail() *audit.Trail {
	return c.trail
}

// RecordFailedAttemptUseCase exposes the ban engine for upstream
// authentication flows.
func (c *Container) RecordFailedAttemptUseCase() *securityUsecases.RecordFailedAttemptUseCase {
	return c.recordFailedAttemptUC
}

// CheckLockoutUseCase exposes the lockout guard for upstream flows.
func (c *Container) CheckLockoutUseCase() *securityUsecases.CheckLockoutUseCase {
	return c.checkLockoutUC
}

// PurgeIdleSessionsUseCase exposes the idle-session sweep for schedulers.
func (c *Container) PurgeIdleSessionsUseCase() *sessionUsecases.PurgeIdleSessionsUseCase {
	return c.purgeIdleSessionsUC
}
