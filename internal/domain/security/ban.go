package security

import (
	"fmt"
	"strings"
	"time"

	"licentia/internal/shared/biztime"
)

// Ban is one lockout in a subject's escalation history. A new ban is
// appended per escalation; earlier rows are superseded, never deleted.
// banCount carries the cumulative count at the time the ban was issued and
// is monotonically non-decreasing per subject unless an administrator
// resets it.
type Ban struct {
	id          uint
	subject     string // normalized email or account identifier
	banCount    int
	bannedUntil time.Time
	reason      string
	ipAddress   string
	userAgent   string
	removed     bool // lockout lifted early by an administrator
	createdAt   time.Time
	updatedAt   time.Time
}

// NormalizeSubject canonicalizes an email or account identifier for use as
// a ban/attempt key.
func NormalizeSubject(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

// NewBan creates a lockout for subject lasting the given duration.
// banCount must be strictly greater than the subject's previous count.
func NewBan(subject string, banCount int, duration time.Duration, reason, ipAddress, userAgent string) (*Ban, error) {
	subject = NormalizeSubject(subject)
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if banCount <= 0 {
		return nil, fmt.Errorf("ban count must be positive")
	}
	if duration <= 0 {
		return nil, fmt.Errorf("ban duration must be positive")
	}

	now := biztime.NowUTC()
	return &Ban{
		subject:     subject,
		banCount:    banCount,
		bannedUntil: now.Add(duration),
		reason:      reason,
		ipAddress:   ipAddress,
		userAgent:   userAgent,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructBan reconstructs a ban from persistence
func ReconstructBan(
	banID uint,
	subject string,
	banCount int,
	bannedUntil time.Time,
	reason, ipAddress, userAgent string,
	removed bool,
	createdAt, updatedAt time.Time,
) (*Ban, error) {
	if banID == 0 {
		return nil, fmt.Errorf("ban ID cannot be zero")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	return &Ban{
		id:          banID,
		subject:     subject,
		banCount:    banCount,
		bannedUntil: bannedUntil,
		reason:      reason,
		ipAddress:   ipAddress,
		userAgent:   userAgent,
		removed:     removed,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (b *Ban) ID() uint               { return b.id }
func (b *Ban) Subject() string        { return b.subject }
func (b *Ban) BanCount() int          { return b.banCount }
func (b *Ban) BannedUntil() time.Time { return b.bannedUntil }
func (b *Ban) Reason() string         { return b.reason }
func (b *Ban) IPAddress() string      { return b.ipAddress }
func (b *Ban) UserAgent() string      { return b.userAgent }
func (b *Ban) Removed() bool          { return b.removed }
func (b *Ban) CreatedAt() time.Time   { return b.createdAt }
func (b *Ban) UpdatedAt() time.Time   { return b.updatedAt }

// SetID sets the database ID after persistence (used by repositories only).
func (b *Ban) SetID(dbID uint) {
	if b.id == 0 {
		b.id = dbID
	}
}

// IsActive reports whether the lockout is currently in force.
func (b *Ban) IsActive() bool {
	return !b.removed && biztime.NowUTC().Before(b.bannedUntil)
}

// Remaining returns how long the lockout still lasts; zero when inactive.
func (b *Ban) Remaining() time.Duration {
	if !b.IsActive() {
		return 0
	}
	return b.bannedUntil.Sub(biztime.NowUTC())
}

// ResetCount zeroes the escalation counter. The active lockout, if any,
// stays in force: forgiveness of the counter and immediate unlock are
// deliberately distinct administrative actions.
func (b *Ban) ResetCount() {
	b.banCount = 0
	b.updatedAt = biztime.NowUTC()
}

// RemoveLockout lifts an active lockout while keeping the ban row and its
// count for audit and future escalation.
func (b *Ban) RemoveLockout() error {
	if !b.IsActive() {
		return ErrBanNotActive
	}
	b.removed = true
	b.updatedAt = biztime.NowUTC()
	return nil
}
