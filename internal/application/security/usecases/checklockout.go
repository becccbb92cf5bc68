package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"licentia/internal/domain/security"
	apperrors "licentia/internal/shared/errors"
	"licentia/internal/shared/logger"
)

type CheckLockoutQuery struct {
	Subject string
}

type CheckLockoutResult struct {
	Locked      bool
	BanCount    int
	Remaining   time.Duration
	BannedUntil time.Time
}

// CheckLockoutUseCase answers whether a subject may attempt authentication
// right now. It sits on the hot path of every login, so it reads through
// the fallback lockout store rather than the ban table directly.
type CheckLockoutUseCase struct {
	lockoutStore security.LockoutStore
	logger       logger.Interface
}

func NewCheckLockoutUseCase(lockoutStore security.LockoutStore, logger logger.Interface) *CheckLockoutUseCase {
	return &CheckLockoutUseCase{
		lockoutStore: lockoutStore,
		logger:       logger,
	}
}

func (uc *CheckLockoutUseCase) Execute(ctx context.Context, q CheckLockoutQuery) (*CheckLockoutResult, error) {
	ban, err := uc.lockoutStore.GetActiveBan(ctx, q.Subject)
	if err != nil {
		if errors.Is(err, security.ErrBanNotFound) {
			return &CheckLockoutResult{}, nil
		}
		uc.logger.Errorw("failed to check lockout", "error", err)
		return nil, fmt.Errorf("failed to check lockout: %w", err)
	}

	if !ban.IsActive() {
		return &CheckLockoutResult{}, nil
	}

	return &CheckLockoutResult{
		Locked:      true,
		BanCount:    ban.BanCount(),
		Remaining:   ban.Remaining(),
		BannedUntil: ban.BannedUntil(),
	}, nil
}

// Enforce is the guard variant: it returns an account-locked error when the
// subject is under an active ban and nil otherwise.
func (uc *CheckLockoutUseCase) Enforce(ctx context.Context, subject string) error {
	result, err := uc.Execute(ctx, CheckLockoutQuery{Subject: subject})
	if err != nil {
		return err
	}
	if result.Locked {
		return apperrors.NewAccountLockedError(result.Remaining)
	}
	return nil
}
