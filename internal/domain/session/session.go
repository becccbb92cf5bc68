package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"licentia/internal/shared/biztime"
)

// Session is a live admin session. The identifier rotates on a fixed
// schedule; the record also accumulates anomaly indicators from the
// detector.
type Session struct {
	ID             string
	AdminID        uint
	IPAddress      string
	UserAgent      string
	RotatedAt      time.Time // when the current identifier was issued
	LastActivityAt time.Time
	AnomalyCount   int
	Suspicious     bool
	CreatedAt      time.Time
}

// NewSession creates a session for an authenticated admin.
func NewSession(adminID uint, ipAddress, userAgent string) (*Session, error) {
	if adminID == 0 {
		return nil, fmt.Errorf("admin ID is required")
	}

	sid, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := biztime.NowUTC()
	return &Session{
		ID:             sid,
		AdminID:        adminID,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		RotatedAt:      now,
		LastActivityAt: now,
		CreatedAt:      now,
	}, nil
}

// UpdateActivity stamps the session with the current time.
func (s *Session) UpdateActivity() {
	s.LastActivityAt = biztime.NowUTC()
}

// IsIdleExpired reports whether the session exceeded the idle timeout.
func (s *Session) IsIdleExpired(idleTimeout time.Duration) bool {
	return biztime.NowUTC().Sub(s.LastActivityAt) > idleTimeout
}

// NeedsRotation reports whether the current identifier is older than the
// rotation interval.
func (s *Session) NeedsRotation(rotationAge time.Duration) bool {
	return biztime.NowUTC().Sub(s.RotatedAt) >= rotationAge
}

// Rotate issues a new identifier and returns the old one so the caller can
// invalidate it. Activity and anomaly state carry over.
func (s *Session) Rotate() (oldID string, err error) {
	newID, err := generateSessionID()
	if err != nil {
		return "", fmt.Errorf("failed to rotate session ID: %w", err)
	}
	oldID = s.ID
	s.ID = newID
	s.RotatedAt = biztime.NowUTC()
	return oldID, nil
}

// RecordAnomalies adds indicator hits from one evaluation and marks the
// session suspicious when the threshold is crossed.
func (s *Session) RecordAnomalies(score, threshold int) {
	s.AnomalyCount += score
	if score >= threshold {
		s.Suspicious = true
	}
}

// Age returns how long ago the session was created.
func (s *Session) Age() time.Duration {
	return biztime.NowUTC().Sub(s.CreatedAt)
}

func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
