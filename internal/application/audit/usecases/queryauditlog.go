package usecases

import (
	"context"
	"fmt"
	"time"

	"licentia/internal/domain/audit"
)

type QueryAuditLogQuery struct {
	Action     string
	LicenseSID string
	Subject    string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

type AuditEntryView struct {
	Action        string
	Success       bool
	FailureReason string
	Subject       string
	LicenseSID    string
	IPAddress     string
	UserAgent     string
	Metadata      map[string]any
	CreatedAt     time.Time
}

type QueryAuditLogResult struct {
	Entries []AuditEntryView
	Total   int64
}

const defaultAuditPageSize = 50

// QueryAuditLogUseCase is the admin read path over the append-only trail.
type QueryAuditLogUseCase struct {
	auditRepo audit.Repository
}

func NewQueryAuditLogUseCase(auditRepo audit.Repository) *QueryAuditLogUseCase {
	return &QueryAuditLogUseCase{auditRepo: auditRepo}
}

func (uc *QueryAuditLogUseCase) Execute(ctx context.Context, q QueryAuditLogQuery) (*QueryAuditLogResult, error) {
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = defaultAuditPageSize
	}

	query := audit.Query{
		Action:     audit.Action(q.Action),
		LicenseSID: q.LicenseSID,
		Subject:    q.Subject,
		From:       q.From,
		To:         q.To,
		Limit:      limit,
		Offset:     q.Offset,
	}

	entries, err := uc.auditRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	total, err := uc.auditRepo.Count(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit log: %w", err)
	}

	views := make([]AuditEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, AuditEntryView{
			Action:        string(e.Action()),
			Success:       e.Success(),
			FailureReason: e.FailureReason(),
			Subject:       e.Subject(),
			LicenseSID:    e.LicenseSID(),
			IPAddress:     e.IPAddress(),
			UserAgent:     e.UserAgent(),
			Metadata:      e.Metadata(),
			CreatedAt:     e.CreatedAt(),
		})
	}

	return &QueryAuditLogResult{Entries: views, Total: total}, nil
}
