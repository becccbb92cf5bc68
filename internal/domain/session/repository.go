package session

import (
	"context"
	"time"
)

// Repository persists admin sessions. Rows are short-lived; expired ones
// are swept via DeleteExpired.
type Repository interface {
	// Create stores a new session
	Create(ctx context.Context, s *Session) error

	// GetByID retrieves a session by its current identifier
	GetByID(ctx context.Context, sessionID string) (*Session, error)

	// Update persists mutations (activity, rotation, anomaly state).
	// previousID names the row to update when the identifier rotated;
	// pass the current ID otherwise.
	Update(ctx context.Context, previousID string, s *Session) error

	// Delete removes a session (logout or forced invalidation)
	Delete(ctx context.Context, sessionID string) error

	// DeleteByAdminID removes all sessions of one admin
	DeleteByAdminID(ctx context.Context, adminID uint) error

	// DeleteIdleSince removes sessions whose last activity predates cutoff
	DeleteIdleSince(ctx context.Context, cutoff time.Time) error
}
