package ratelimit

import (
	"context"
	"time"
)

// SubjectType classifies what a rate-limit key identifies.
type SubjectType string

const (
	SubjectIP      SubjectType = "ip"
	SubjectKeyHash SubjectType = "license_key_hash"
	SubjectAccount SubjectType = "account"
)

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter bounds request counts per (subject type, subject value,
// endpoint) triple using fixed windows. A window is created lazily on
// first request and reaped lazily once expired; there is no background
// sweep. Fixed windows admit short bursts across a window boundary; that
// is an accepted approximation, not a bug.
type RateLimiter interface {
	// Check atomically counts one request against the window and reports
	// whether it fits under maxRequests.
	Check(ctx context.Context, subjectType SubjectType, subjectValue, endpoint string, maxRequests int, window time.Duration) (Decision, error)

	// Reset clears the current window for a key
	Reset(ctx context.Context, subjectType SubjectType, subjectValue, endpoint string) error
}
