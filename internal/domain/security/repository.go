package security

import (
	"context"
	"time"
)

// BanRepository is the durable, relational store of ban history. It is the
// source of truth for the escalation counter.
type BanRepository interface {
	// Create appends a new ban row
	Create(ctx context.Context, b *Ban) error

	// Update persists mutations to an existing ban row
	Update(ctx context.Context, b *Ban) error

	// GetLatestBySubject retrieves the most recent ban for a subject,
	// whether or not its lockout is still in force
	GetLatestBySubject(ctx context.Context, subject string) (*Ban, error)

	// GetActiveBySubject retrieves the ban whose lockout is currently in
	// force for a subject, or ErrBanNotFound
	GetActiveBySubject(ctx context.Context, subject string) (*Ban, error)

	// ListBySubject retrieves a subject's full ban history, newest first
	ListBySubject(ctx context.Context, subject string) ([]*Ban, error)

	// ListActive retrieves every ban whose lockout is currently in force,
	// across all subjects. Used to rebuild the cache after an outage.
	ListActive(ctx context.Context) ([]*Ban, error)
}

// FailedAttemptRepository is the durable store of ephemeral failure records.
type FailedAttemptRepository interface {
	// Create appends a failed attempt
	Create(ctx context.Context, a *FailedAttempt) error

	// CountBySubjectSince counts a subject's attempts newer than since
	CountBySubjectSince(ctx context.Context, subject string, since time.Time) (int64, error)

	// DeleteBySubject clears a subject's attempts after a ban is issued
	DeleteBySubject(ctx context.Context, subject string) error

	// DeleteExpired purges attempts past their expiry. Called
	// opportunistically on each write, not from a background sweep.
	DeleteExpired(ctx context.Context) error
}

// LockoutStore is the capability the ban engine needs for its hot path:
// resolving the active lockout for a subject. It is implemented by the
// Redis cache, by a relational adapter, and by the fallback selector that
// prefers the cache and degrades to the relational store on transport
// errors.
type LockoutStore interface {
	// GetActiveBan returns the active lockout for subject, ErrBanNotFound
	// when the subject is clean, or ErrCacheUnavailable on transport failure.
	GetActiveBan(ctx context.Context, subject string) (*Ban, error)

	// PutActiveBan records a freshly issued lockout
	PutActiveBan(ctx context.Context, b *Ban) error

	// DropActiveBan removes a lockout lifted by an administrator
	DropActiveBan(ctx context.Context, subject string) error
}

// AttemptCounter is the fast failed-attempt tracker. The Redis
// implementation backs the primary path; a relational adapter serves as
// fallback.
type AttemptCounter interface {
	// Increment adds one failure and returns the count inside the window
	Increment(ctx context.Context, subject string, window time.Duration) (int64, error)

	// Clear resets the counter after a ban is issued
	Clear(ctx context.Context, subject string) error
}
