package security

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"licentia/internal/domain/security"
	"licentia/internal/infrastructure/alert"
	"licentia/internal/shared/logger"
)

// degradationLatch logs a backend outage once per incident instead of once
// per request, and logs again when the backend recovers. Entering the
// degraded state also raises a cache_degraded alert so operators learn
// about the outage from the alert channel, not just the log.
type degradationLatch struct {
	degraded atomic.Bool
	logger   logger.Interface
	alerts   *alert.Dispatcher
	backend  string
}

func (l *degradationLatch) markDegraded(err error) {
	if !l.degraded.CompareAndSwap(false, true) {
		return
	}
	l.logger.Warnw("cache backend unavailable, serving from relational store",
		"backend", l.backend,
		"error", err,
	)
	l.alerts.Dispatch(alert.Event{
		Type:    alert.EventCacheDegraded,
		Message: "cache backend unavailable, security decisions served from the relational store",
		Details: map[string]string{
			"backend": l.backend,
			"error":   err.Error(),
		},
	})
}

func (l *degradationLatch) markHealthy() {
	if l.degraded.CompareAndSwap(true, false) {
		l.logger.Infow("cache backend recovered", "backend", l.backend)
	}
}

// activeBanLister is the extra capability the durable store offers for
// reconciliation after a cache outage.
type activeBanLister interface {
	ListActiveBans(ctx context.Context) ([]*security.Ban, error)
}

// FallbackLockoutStore prefers the Redis store and degrades to the
// relational store when Redis is unreachable. Lockout checks fail toward
// the durable store rather than toward letting requests through blind.
//
// Bans issued during an outage reach only the durable store, so once the
// cache answers again the store re-primes it from the durable side before
// trusting a miss. A cache miss right after recovery is otherwise
// indistinguishable from a clean subject and would lift the lockout early.
type FallbackLockoutStore struct {
	preferred security.LockoutStore
	fallback  security.LockoutStore
	latch     *degradationLatch
}

func NewFallbackLockoutStore(preferred, fallback security.LockoutStore, alerts *alert.Dispatcher, log logger.Interface) security.LockoutStore {
	return &FallbackLockoutStore{
		preferred: preferred,
		fallback:  fallback,
		latch: &degradationLatch{
			logger:  log.Named("lockout-store"),
			alerts:  alerts,
			backend: "redis",
		},
	}
}

func (s *FallbackLockoutStore) GetActiveBan(ctx context.Context, subject string) (*security.Ban, error) {
	b, err := s.preferred.GetActiveBan(ctx, subject)
	if err != nil && errors.Is(err, security.ErrCacheUnavailable) {
		s.latch.markDegraded(err)
		return s.fallback.GetActiveBan(ctx, subject)
	}
	if err != nil && !errors.Is(err, security.ErrBanNotFound) {
		return nil, err
	}

	if s.latch.degraded.Load() {
		s.reprime(ctx)
		s.latch.markHealthy()
		if errors.Is(err, security.ErrBanNotFound) {
			// The miss predates the re-prime; the durable store decides.
			return s.fallback.GetActiveBan(ctx, subject)
		}
	}
	return b, err
}

func (s *FallbackLockoutStore) PutActiveBan(ctx context.Context, b *security.Ban) error {
	if err := s.preferred.PutActiveBan(ctx, b); err != nil {
		if errors.Is(err, security.ErrCacheUnavailable) {
			s.latch.markDegraded(err)
			return s.fallback.PutActiveBan(ctx, b)
		}
		return err
	}
	if s.latch.degraded.Load() {
		s.reprime(ctx)
	}
	s.latch.markHealthy()
	return nil
}

func (s *FallbackLockoutStore) DropActiveBan(ctx context.Context, subject string) error {
	if err := s.preferred.DropActiveBan(ctx, subject); err != nil {
		if errors.Is(err, security.ErrCacheUnavailable) {
			s.latch.markDegraded(err)
			return s.fallback.DropActiveBan(ctx, subject)
		}
		return err
	}
	if s.latch.degraded.Load() {
		s.reprime(ctx)
	}
	s.latch.markHealthy()
	return nil
}

// reprime copies active bans from the durable store back into the cache
// after an outage.
func (s *FallbackLockoutStore) reprime(ctx context.Context) {
	lister, ok := s.fallback.(activeBanLister)
	if !ok {
		return
	}
	bans, err := lister.ListActiveBans(ctx)
	if err != nil {
		s.latch.logger.Warnw("failed to reload active bans after cache recovery", "error", err)
		return
	}
	for _, b := range bans {
		if err := s.preferred.PutActiveBan(ctx, b); err != nil {
			s.latch.logger.Warnw("failed to re-cache active ban", "error", err)
			return
		}
	}
	if len(bans) > 0 {
		s.latch.logger.Infow("re-cached active bans after recovery", "count", len(bans))
	}
}

// FallbackAttemptCounter mirrors FallbackLockoutStore for the failure
// counter. Counts need no re-prime on recovery: the relational counter
// reads from the durable attempt rows, which the engine writes before
// incrementing either counter.
type FallbackAttemptCounter struct {
	preferred security.AttemptCounter
	fallback  security.AttemptCounter
	latch     *degradationLatch
}

func NewFallbackAttemptCounter(preferred, fallback security.AttemptCounter, alerts *alert.Dispatcher, log logger.Interface) security.AttemptCounter {
	return &FallbackAttemptCounter{
		preferred: preferred,
		fallback:  fallback,
		latch: &degradationLatch{
			logger:  log.Named("attempt-counter"),
			alerts:  alerts,
			backend: "redis",
		},
	}
}

func (c *FallbackAttemptCounter) Increment(ctx context.Context, subject string, window time.Duration) (int64, error) {
	count, err := c.preferred.Increment(ctx, subject, window)
	if err != nil {
		if errors.Is(err, security.ErrCacheUnavailable) {
			c.latch.markDegraded(err)
			return c.fallback.Increment(ctx, subject, window)
		}
		return 0, err
	}
	c.latch.markHealthy()
	return count, nil
}

func (c *FallbackAttemptCounter) Clear(ctx context.Context, subject string) error {
	if err := c.preferred.Clear(ctx, subject); err != nil {
		if errors.Is(err, security.ErrCacheUnavailable) {
			c.latch.markDegraded(err)
			return c.fallback.Clear(ctx, subject)
		}
		return err
	}
	c.latch.markHealthy()
	return nil
}
