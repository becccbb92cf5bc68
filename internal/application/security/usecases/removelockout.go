package usecases

import (
	"context"
	"errors"
	"fmt"

	"licentia/internal/domain/audit"
	"licentia/internal/domain/security"
	apperrors "licentia/internal/shared/errors"
	"licentia/internal/shared/logger"
)

type RemoveLockoutCommand struct {
	Subject string
	AdminID uint
}

// RemoveLockoutUseCase lifts an active lockout early. The ban row and its
// escalation count survive, so the next ban still escalates.
type RemoveLockoutUseCase struct {
	banRepo      security.BanRepository
	lockoutStore security.LockoutStore
	trail        *audit.Trail
	logger       logger.Interface
}

func NewRemoveLockoutUseCase(
	banRepo security.BanRepository,
	lockoutStore security.LockoutStore,
	trail *audit.Trail,
	logger logger.Interface,
) *RemoveLockoutUseCase {
	return &RemoveLockoutUseCase{
		banRepo:      banRepo,
		lockoutStore: lockoutStore,
		trail:        trail,
		logger:       logger,
	}
}

func (uc *RemoveLockoutUseCase) Execute(ctx context.Context, cmd RemoveLockoutCommand) error {
	ban, err := uc.banRepo.GetActiveBySubject(ctx, cmd.Subject)
	if err != nil {
		if errors.Is(err, security.ErrBanNotFound) {
			return apperrors.NewNotFoundError("no active lockout for subject")
		}
		return fmt.Errorf("failed to get active ban: %w", err)
	}

	if err := ban.RemoveLockout(); err != nil {
		if errors.Is(err, security.ErrBanNotActive) {
			return apperrors.NewNotFoundError("no active lockout for subject")
		}
		return err
	}

	if err := uc.banRepo.Update(ctx, ban); err != nil {
		uc.logger.Errorw("failed to remove lockout", "error", err)
		return fmt.Errorf("failed to remove lockout: %w", err)
	}

	if err := uc.lockoutStore.DropActiveBan(ctx, ban.Subject()); err != nil {
		uc.logger.Warnw("failed to drop cached lockout", "error", err)
	}

	if entry, auditErr := audit.NewEntry(audit.ActionBanRemoved, true); auditErr == nil {
		entry.WithSubjectEmail(cmd.Subject).
			WithMeta("admin_id", cmd.AdminID).
			WithMeta("ban_count_kept", ban.BanCount())
		uc.trail.Record(ctx, entry)
	}

	uc.logger.Infow("lockout removed", "admin_id", cmd.AdminID)
	return nil
}
