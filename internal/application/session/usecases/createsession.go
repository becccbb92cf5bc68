package usecases

import (
	"context"
	"fmt"

	"licentia/internal/domain/audit"
	"licentia/internal/domain/session"
	"licentia/internal/infrastructure/auth"
	"licentia/internal/shared/logger"
)

type CreateSessionCommand struct {
	AdminID   uint
	IPAddress string
	UserAgent string
}

type CreateSessionResult struct {
	SessionID string
	Token     string
}

// CreateSessionUseCase opens a session for an admin who already passed
// authentication upstream and mints the token bound to it.
type CreateSessionUseCase struct {
	sessionRepo session.Repository
	tokens      *auth.SessionTokenService
	trail       *audit.Trail
	logger      logger.Interface
}

func NewCreateSessionUseCase(
	sessionRepo session.Repository,
	tokens *auth.SessionTokenService,
	trail *audit.Trail,
	logger logger.Interface,
) *CreateSessionUseCase {
	return &CreateSessionUseCase{
		sessionRepo: sessionRepo,
		tokens:      tokens,
		trail:       trail,
		logger:      logger,
	}
}

func (uc *CreateSessionUseCase) Execute(ctx context.Context, cmd CreateSessionCommand) (*CreateSessionResult, error) {
	s, err := session.NewSession(cmd.AdminID, cmd.IPAddress, cmd.UserAgent)
	if err != nil {
		return nil, err
	}

	if err := uc.sessionRepo.Create(ctx, s); err != nil {
		uc.logger.Errorw("failed to create session", "error", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := uc.tokens.Mint(cmd.AdminID, s.ID)
	if err != nil {
		uc.logger.Errorw("failed to mint session token", "error", err)
		return nil, fmt.Errorf("failed to mint session token: %w", err)
	}

	if entry, auditErr := audit.NewEntry(audit.ActionSessionCreated, true); auditErr == nil {
		entry.WithRequest(cmd.IPAddress, cmd.UserAgent).
			WithMeta("admin_id", cmd.AdminID).
			WithSecretMeta("session_id", s.ID)
		uc.trail.Record(ctx, entry)
	}

	return &CreateSessionResult{
		SessionID: s.ID,
		Token:     token,
	}, nil
}
