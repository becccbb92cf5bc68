package security

import (
	"fmt"
	"time"

	"licentia/internal/shared/biztime"
)

// FailedAttempt is an ephemeral record of one failed authentication. Rows
// exist only to decide escalation inside the look-back window and are
// purged opportunistically on each write.
type FailedAttempt struct {
	id          uint
	subject     string
	ipAddress   string
	userAgent   string
	reason      string
	attemptedAt time.Time
	expiresAt   time.Time
}

// NewFailedAttempt records one failure for subject, expiring after the
// look-back window.
func NewFailedAttempt(subject, ipAddress, userAgent, reason string, lookback time.Duration) (*FailedAttempt, error) {
	subject = NormalizeSubject(subject)
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if lookback <= 0 {
		return nil, fmt.Errorf("lookback window must be positive")
	}

	now := biztime.NowUTC()
	return &FailedAttempt{
		subject:     subject,
		ipAddress:   ipAddress,
		userAgent:   userAgent,
		reason:      reason,
		attemptedAt: now,
		expiresAt:   now.Add(lookback),
	}, nil
}

// ReconstructFailedAttempt reconstructs a failed attempt from persistence
func ReconstructFailedAttempt(
	attemptID uint,
	subject, ipAddress, userAgent, reason string,
	attemptedAt, expiresAt time.Time,
) *FailedAttempt {
	return &FailedAttempt{
		id:          attemptID,
		subject:     subject,
		ipAddress:   ipAddress,
		userAgent:   userAgent,
		reason:      reason,
		attemptedAt: attemptedAt,
		expiresAt:   expiresAt,
	}
}

func (f *FailedAttempt) ID() uint               { return f.id }
func (f *FailedAttempt) Subject() string        { return f.subject }
func (f *FailedAttempt) IPAddress() string      { return f.ipAddress }
func (f *FailedAttempt) UserAgent() string      { return f.userAgent }
func (f *FailedAttempt) Reason() string         { return f.reason }
func (f *FailedAttempt) AttemptedAt() time.Time { return f.attemptedAt }
func (f *FailedAttempt) ExpiresAt() time.Time   { return f.expiresAt }

// IsExpired reports whether the attempt has aged out of the look-back window.
func (f *FailedAttempt) IsExpired() bool {
	return biztime.NowUTC().After(f.expiresAt)
}
