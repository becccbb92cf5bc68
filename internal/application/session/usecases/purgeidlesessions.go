package usecases

import (
	"context"
	"fmt"
	"time"

	"licentia/internal/domain/session"
	"licentia/internal/shared/biztime"
	"licentia/internal/shared/config"
	"licentia/internal/shared/logger"
)

// PurgeIdleSessionsUseCase sweeps sessions past the idle timeout. Expiry is
// enforced lazily on each request; the sweep only reclaims rows for
// sessions that simply stopped coming back.
type PurgeIdleSessionsUseCase struct {
	sessionRepo session.Repository
	cfg         config.SessionConfig
	logger      logger.Interface
}

func NewPurgeIdleSessionsUseCase(sessionRepo session.Repository, cfg config.SessionConfig, logger logger.Interface) *PurgeIdleSessionsUseCase {
	return &PurgeIdleSessionsUseCase{
		sessionRepo: sessionRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

func (uc *PurgeIdleSessionsUseCase) Execute(ctx context.Context) error {
	cutoff := biztime.NowUTC().Add(-time.Duration(uc.cfg.IdleTimeoutMinutes) * time.Minute)
	if err := uc.sessionRepo.DeleteIdleSince(ctx, cutoff); err != nil {
		uc.logger.Errorw("failed to purge idle sessions", "error", err)
		return fmt.Errorf("failed to purge idle sessions: %w", err)
	}
	uc.logger.Debugw("idle sessions purged", "cutoff", cutoff)
	return nil
}
