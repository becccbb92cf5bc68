package security

import (
	"context"
	"time"

	"licentia/internal/domain/security"
	"licentia/internal/shared/biztime"
)

// RelationalLockoutStore serves lockout reads straight from the ban table.
// Writes are no-ops: the engine persists bans through BanRepository before
// consulting any LockoutStore, so the relational path is already current.
type RelationalLockoutStore struct {
	bans security.BanRepository
}

func NewRelationalLockoutStore(bans security.BanRepository) security.LockoutStore {
	return &RelationalLockoutStore{bans: bans}
}

func (s *RelationalLockoutStore) GetActiveBan(ctx context.Context, subject string) (*security.Ban, error) {
	return s.bans.GetActiveBySubject(ctx, subject)
}

func (s *RelationalLockoutStore) PutActiveBan(ctx context.Context, b *security.Ban) error {
	return nil
}

func (s *RelationalLockoutStore) DropActiveBan(ctx context.Context, subject string) error {
	return nil
}

// ListActiveBans exposes the in-force bans for cache reconciliation after
// a backend outage.
func (s *RelationalLockoutStore) ListActiveBans(ctx context.Context) ([]*security.Ban, error) {
	return s.bans.ListActive(ctx)
}

// RelationalAttemptCounter counts failures from the attempt table. The
// engine records each attempt row durably before incrementing, so Increment
// only needs to count what is already there. Clear is a no-op for the same
// reason: the engine deletes rows through FailedAttemptRepository.
type RelationalAttemptCounter struct {
	attempts security.FailedAttemptRepository
}

func NewRelationalAttemptCounter(attempts security.FailedAttemptRepository) security.AttemptCounter {
	return &RelationalAttemptCounter{attempts: attempts}
}

func (c *RelationalAttemptCounter) Increment(ctx context.Context, subject string, window time.Duration) (int64, error) {
	since := biztime.NowUTC().Add(-window)
	return c.attempts.CountBySubjectSince(ctx, subject, since)
}

func (c *RelationalAttemptCounter) Clear(ctx context.Context, subject string) error {
	return nil
}
