package usecases

import (
	"context"
	"errors"
	"fmt"

	"licentia/internal/domain/audit"
	"licentia/internal/domain/session"
	apperrors "licentia/internal/shared/errors"
	"licentia/internal/shared/logger"
)

type RevokeSessionCommand struct {
	SessionID string
	AdminID   uint // when set with an empty SessionID, revokes all of the admin's sessions
	IPAddress string
	UserAgent string
}

// RevokeSessionUseCase ends one session (logout) or all sessions of an
// admin (forced logout everywhere).
type RevokeSessionUseCase struct {
	sessionRepo session.Repository
	trail       *audit.Trail
	logger      logger.Interface
}

func NewRevokeSessionUseCase(sessionRepo session.Repository, trail *audit.Trail, logger logger.Interface) *RevokeSessionUseCase {
	return &RevokeSessionUseCase{
		sessionRepo: sessionRepo,
		trail:       trail,
		logger:      logger,
	}
}

func (uc *RevokeSessionUseCase) Execute(ctx context.Context, cmd RevokeSessionCommand) error {
	if cmd.SessionID != "" {
		if err := uc.sessionRepo.Delete(ctx, cmd.SessionID); err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return apperrors.NewNotFoundError("session not found")
			}
			return fmt.Errorf("failed to delete session: %w", err)
		}
	} else if cmd.AdminID != 0 {
		if err := uc.sessionRepo.DeleteByAdminID(ctx, cmd.AdminID); err != nil {
			return fmt.Errorf("failed to delete admin sessions: %w", err)
		}
	} else {
		return apperrors.NewValidationError("session ID or admin ID is required")
	}

	if entry, err := audit.NewEntry(audit.ActionSessionExpired, true); err == nil {
		entry.WithRequest(cmd.IPAddress, cmd.UserAgent).
			WithFailureReason("revoked").
			WithMeta("admin_id", cmd.AdminID)
		if cmd.SessionID != "" {
			entry.WithSecretMeta("session_id", cmd.SessionID)
		}
		uc.trail.Record(ctx, entry)
	}
	return nil
}
