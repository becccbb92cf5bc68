package audit

import (
	"context"

	"licentia/internal/shared/logger"
)

// Trail is the best-effort audit writer used by every security operation.
// A failed write must never abort the business operation that triggered
// it: the failure is reported on the process logger (the secondary
// channel) and swallowed.
type Trail struct {
	repo   Repository
	logger logger.Interface
}

// NewTrail creates an audit trail writer.
func NewTrail(repo Repository, log logger.Interface) *Trail {
	return &Trail{
		repo:   repo,
		logger: log.Named("audit"),
	}
}

// Record appends an entry. Always returns nil; storage failures are logged
// and dropped.
func (t *Trail) Record(ctx context.Context, e *Entry) {
	if e == nil {
		return
	}
	if err := t.repo.Create(ctx, e); err != nil {
		t.logger.Errorw("failed to write audit entry",
			"action", string(e.Action()),
			"success", e.Success(),
			"error", err,
		)
	}
}
