package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"licentia/internal/domain/audit"
	"licentia/internal/domain/security"
	"licentia/internal/infrastructure/alert"
	"licentia/internal/shared/config"
	"licentia/internal/shared/db"
	"licentia/internal/shared/logger"
)

type RecordFailedAttemptCommand struct {
	Subject   string // normalized account identifier, usually an email
	Reason    string
	IPAddress string
	UserAgent string
}

type RecordFailedAttemptResult struct {
	AttemptCount int64
	Banned       bool
	BanCount     int
	BannedUntil  time.Time
}

// RecordFailedAttemptUseCase is the progressive ban engine. Every failed
// authentication flows through here; crossing the attempt threshold inside
// the look-back window issues an escalating ban.
type RecordFailedAttemptUseCase struct {
	attemptRepo  security.FailedAttemptRepository
	banRepo      security.BanRepository
	counter      security.AttemptCounter
	lockoutStore security.LockoutStore
	schedule     security.Schedule
	cfg          config.LockoutConfig
	txManager    *db.TransactionManager
	trail        *audit.Trail
	alerts       *alert.Dispatcher
	logger       logger.Interface
}

func NewRecordFailedAttemptUseCase(
	attemptRepo security.FailedAttemptRepository,
	banRepo security.BanRepository,
	counter security.AttemptCounter,
	lockoutStore security.LockoutStore,
	cfg config.LockoutConfig,
	txManager *db.TransactionManager,
	trail *audit.Trail,
	alerts *alert.Dispatcher,
	logger logger.Interface,
) *RecordFailedAttemptUseCase {
	return &RecordFailedAttemptUseCase{
		attemptRepo:  attemptRepo,
		banRepo:      banRepo,
		counter:      counter,
		lockoutStore: lockoutStore,
		schedule:     security.ScheduleFromMinutes(cfg.BanDurationsMinutes),
		cfg:          cfg,
		txManager:    txManager,
		trail:        trail,
		alerts:       alerts,
		logger:       logger,
	}
}

func (uc *RecordFailedAttemptUseCase) Execute(ctx context.Context, cmd RecordFailedAttemptCommand) (*RecordFailedAttemptResult, error) {
	subject := security.NormalizeSubject(cmd.Subject)
	lookback := time.Duration(uc.cfg.LookbackMinutes) * time.Minute

	attempt, err := security.NewFailedAttempt(subject, cmd.IPAddress, cmd.UserAgent, cmd.Reason, lookback)
	if err != nil {
		return nil, err
	}

	// The durable row is written first; the counter is a fast-path replica.
	if err := uc.attemptRepo.Create(ctx, attempt); err != nil {
		uc.logger.Errorw("failed to record failed attempt", "error", err)
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}
	if err := uc.attemptRepo.DeleteExpired(ctx); err != nil {
		uc.logger.Warnw("failed to purge expired attempts", "error", err)
	}

	count, err := uc.counter.Increment(ctx, subject, lookback)
	if err != nil {
		uc.logger.Errorw("failed to count attempts", "error", err)
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	uc.auditAttempt(ctx, cmd, count)

	if count < int64(uc.cfg.MaxFailedAttempts) {
		// One failure short of a lockout is worth a heads-up: it is the
		// last point where an operator can intervene before the ban.
		if count == int64(uc.cfg.MaxFailedAttempts)-1 {
			uc.alerts.Dispatch(alert.Event{
				Type:      alert.EventRepeatedInvalidKey,
				Subject:   subject,
				IPAddress: cmd.IPAddress,
				Message:   fmt.Sprintf("%d failed attempts for %s inside the window, the next one locks the account", count, subject),
				Details: map[string]string{
					"attempt_count": fmt.Sprintf("%d", count),
					"reason":        cmd.Reason,
				},
			})
		}
		return &RecordFailedAttemptResult{AttemptCount: count}, nil
	}

	ban, err := uc.escalate(ctx, subject, cmd)
	if err != nil {
		return nil, err
	}

	return &RecordFailedAttemptResult{
		AttemptCount: count,
		Banned:       true,
		BanCount:     ban.BanCount(),
		BannedUntil:  ban.BannedUntil(),
	}, nil
}

// escalate issues the next ban in the schedule. The ban row and the attempt
// cleanup commit together; cache updates afterwards are best effort.
func (uc *RecordFailedAttemptUseCase) escalate(ctx context.Context, subject string, cmd RecordFailedAttemptCommand) (*security.Ban, error) {
	priorCount := 0
	latest, err := uc.banRepo.GetLatestBySubject(ctx, subject)
	if err != nil && !errors.Is(err, security.ErrBanNotFound) {
		return nil, fmt.Errorf("failed to get ban history: %w", err)
	}
	if latest != nil {
		priorCount = latest.BanCount()
	}

	duration := uc.schedule.DurationFor(priorCount)
	ban, err := security.NewBan(subject, priorCount+1, duration, cmd.Reason, cmd.IPAddress, cmd.UserAgent)
	if err != nil {
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.banRepo.Create(txCtx, ban); err != nil {
			return err
		}
		return uc.attemptRepo.DeleteBySubject(txCtx, subject)
	})
	if err != nil {
		uc.logger.Errorw("failed to issue ban", "error", err)
		return nil, fmt.Errorf("failed to issue ban: %w", err)
	}

	if err := uc.counter.Clear(ctx, subject); err != nil {
		uc.logger.Warnw("failed to clear attempt counter", "error", err)
	}
	if err := uc.lockoutStore.PutActiveBan(ctx, ban); err != nil {
		uc.logger.Warnw("failed to cache active ban", "error", err)
	}

	if entry, auditErr := audit.NewEntry(audit.ActionAccountBanned, true); auditErr == nil {
		entry.WithSubjectEmail(subject).
			WithRequest(cmd.IPAddress, cmd.UserAgent).
			WithMeta("ban_count", ban.BanCount()).
			WithMeta("banned_until", ban.BannedUntil())
		uc.trail.Record(ctx, entry)
	}

	uc.alerts.Dispatch(alert.Event{
		Type:      alert.EventAccountBanned,
		Subject:   subject,
		IPAddress: cmd.IPAddress,
		Message:   fmt.Sprintf("account banned for %s after repeated failures (ban #%d)", ban.Remaining().Round(time.Minute), ban.BanCount()),
		Details: map[string]string{
			"ban_count":    fmt.Sprintf("%d", ban.BanCount()),
			"banned_until": ban.BannedUntil().Format(time.RFC3339),
		},
	})

	uc.logger.Warnw("account banned",
		"ban_count", ban.BanCount(),
		"banned_until", ban.BannedUntil(),
	)
	return ban, nil
}

func (uc *RecordFailedAttemptUseCase) auditAttempt(ctx context.Context, cmd RecordFailedAttemptCommand, count int64) {
	entry, err := audit.NewEntry(audit.ActionLoginFailed, false)
	if err != nil {
		return
	}
	entry.WithSubjectEmail(cmd.Subject).
		WithRequest(cmd.IPAddress, cmd.UserAgent).
		WithFailureReason(cmd.Reason).
		WithMeta("attempt_count", count)
	uc.trail.Record(ctx, entry)
}
