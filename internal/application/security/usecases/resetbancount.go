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

type ResetBanCountCommand struct {
	Subject string
	AdminID uint
}

// ResetBanCountUseCase zeroes a subject's escalation counter. A lockout
// currently in force stays in force; forgiving the counter and unlocking
// now are separate administrative actions.
type ResetBanCountUseCase struct {
	banRepo security.BanRepository
	trail   *audit.Trail
	logger  logger.Interface
}

func NewResetBanCountUseCase(banRepo security.BanRepository, trail *audit.Trail, logger logger.Interface) *ResetBanCountUseCase {
	return &ResetBanCountUseCase{
		banRepo: banRepo,
		trail:   trail,
		logger:  logger,
	}
}

func (uc *ResetBanCountUseCase) Execute(ctx context.Context, cmd ResetBanCountCommand) error {
	ban, err := uc.banRepo.GetLatestBySubject(ctx, cmd.Subject)
	if err != nil {
		if errors.Is(err, security.ErrBanNotFound) {
			return apperrors.NewNotFoundError("no ban history for subject")
		}
		return fmt.Errorf("failed to get ban: %w", err)
	}

	ban.ResetCount()
	if err := uc.banRepo.Update(ctx, ban); err != nil {
		uc.logger.Errorw("failed to reset ban count", "error", err)
		return fmt.Errorf("failed to reset ban count: %w", err)
	}

	if entry, auditErr := audit.NewEntry(audit.ActionBanReset, true); auditErr == nil {
		entry.WithSubjectEmail(cmd.Subject).
			WithMeta("admin_id", cmd.AdminID).
			WithMeta("lockout_still_active", ban.IsActive())
		uc.trail.Record(ctx, entry)
	}

	uc.logger.Infow("ban count reset", "admin_id", cmd.AdminID)
	return nil
}
