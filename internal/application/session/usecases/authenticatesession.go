package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"licentia/internal/domain/audit"
	"licentia/internal/domain/session"
	"licentia/internal/infrastructure/alert"
	"licentia/internal/infrastructure/auth"
	"licentia/internal/shared/config"
	apperrors "licentia/internal/shared/errors"
	"licentia/internal/shared/logger"
)

type AuthenticateSessionCommand struct {
	Token     string
	IPAddress string
	UserAgent string
	ViaProxy  bool
}

type AuthenticateSessionResult struct {
	AdminID      uint
	SessionID    string
	RotatedToken string // non-empty when the identifier rotated on this request
	Suspicious   bool
}

// AuthenticateSessionUseCase resolves a bearer token to a live session and
// runs the per-request security checks: idle expiry, anomaly scoring and
// scheduled identifier rotation. A session past the suspicion threshold is
// terminated and the caller must re-authenticate.
type AuthenticateSessionUseCase struct {
	sessionRepo session.Repository
	tokens      *auth.SessionTokenService
	detector    *session.Detector
	cfg         config.SessionConfig
	trail       *audit.Trail
	alerts      *alert.Dispatcher
	logger      logger.Interface
}

func NewAuthenticateSessionUseCase(
	sessionRepo session.Repository,
	tokens *auth.SessionTokenService,
	detector *session.Detector,
	cfg config.SessionConfig,
	trail *audit.Trail,
	alerts *alert.Dispatcher,
	logger logger.Interface,
) *AuthenticateSessionUseCase {
	return &AuthenticateSessionUseCase{
		sessionRepo: sessionRepo,
		tokens:      tokens,
		detector:    detector,
		cfg:         cfg,
		trail:       trail,
		alerts:      alerts,
		logger:      logger,
	}
}

func (uc *AuthenticateSessionUseCase) Execute(ctx context.Context, cmd AuthenticateSessionCommand) (*AuthenticateSessionResult, error) {
	claims, err := uc.tokens.Verify(cmd.Token)
	if err != nil {
		return nil, apperrors.NewSessionExpiredError()
	}

	s, err := uc.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, apperrors.NewSessionExpiredError()
		}
		uc.logger.Errorw("failed to load session", "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if s.IsIdleExpired(time.Duration(uc.cfg.IdleTimeoutMinutes) * time.Minute) {
		uc.terminate(ctx, s, audit.ActionSessionExpired, "idle timeout", cmd)
		return nil, apperrors.NewSessionExpiredError()
	}

	eval := uc.detector.Evaluate(s, session.RequestMeta{
		IPAddress: cmd.IPAddress,
		UserAgent: cmd.UserAgent,
		ViaProxy:  cmd.ViaProxy,
	})
	if eval.Score > 0 {
		s.RecordAnomalies(eval.Score, uc.detector.Threshold())
	}

	if eval.Exceeds(uc.detector.Threshold()) || s.Suspicious {
		uc.terminate(ctx, s, audit.ActionSessionSuspicious, fmt.Sprintf("anomaly score %d", eval.Score), cmd)
		uc.alerts.Dispatch(alert.Event{
			Type:      alert.EventSessionSuspicious,
			IPAddress: cmd.IPAddress,
			Message:   fmt.Sprintf("admin session terminated, anomaly score %d", eval.Score),
			Details:   indicatorDetails(eval),
		})
		return nil, apperrors.NewSessionSuspiciousError()
	}

	result := &AuthenticateSessionResult{
		AdminID:   s.AdminID,
		SessionID: s.ID,
	}

	previousID := s.ID
	if s.NeedsRotation(time.Duration(uc.cfg.RotationMinutes) * time.Minute) {
		oldID, err := s.Rotate()
		if err != nil {
			return nil, fmt.Errorf("failed to rotate session: %w", err)
		}
		previousID = oldID

		token, err := uc.tokens.Mint(s.AdminID, s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to mint rotated token: %w", err)
		}
		result.SessionID = s.ID
		result.RotatedToken = token

		if entry, auditErr := audit.NewEntry(audit.ActionSessionRotated, true); auditErr == nil {
			entry.WithRequest(cmd.IPAddress, cmd.UserAgent).
				WithMeta("admin_id", s.AdminID).
				WithSecretMeta("old_session_id", oldID).
				WithSecretMeta("new_session_id", s.ID)
			uc.trail.Record(ctx, entry)
		}
	}

	s.UpdateActivity()
	if err := uc.sessionRepo.Update(ctx, previousID, s); err != nil {
		uc.logger.Errorw("failed to persist session state", "error", err)
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return result, nil
}

// terminate removes the session and records why. Best effort on both.
func (uc *AuthenticateSessionUseCase) terminate(ctx context.Context, s *session.Session, action audit.Action, reason string, cmd AuthenticateSessionCommand) {
	if err := uc.sessionRepo.Delete(ctx, s.ID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		uc.logger.Errorw("failed to delete session", "error", err)
	}
	if entry, err := audit.NewEntry(action, false); err == nil {
		entry.WithRequest(cmd.IPAddress, cmd.UserAgent).
			WithFailureReason(reason).
			WithMeta("admin_id", s.AdminID).
			WithSecretMeta("session_id", s.ID)
		uc.trail.Record(ctx, entry)
	}
}

func indicatorDetails(eval session.Evaluation) map[string]string {
	details := make(map[string]string, len(eval.Indicators)+1)
	details["score"] = fmt.Sprintf("%d", eval.Score)
	for i, ind := range eval.Indicators {
		details[fmt.Sprintf("indicator_%d", i+1)] = string(ind)
	}
	return details
}
