package usecases

import (
	"context"
	"fmt"
	"time"

	"licentia/internal/domain/security"
)

type ListBanHistoryQuery struct {
	Subject string
}

type BanView struct {
	BanCount    int
	BannedUntil time.Time
	Active      bool
	Removed     bool
	Reason      string
	IPAddress   string
	CreatedAt   time.Time
}

// ListBanHistoryUseCase returns a subject's full ban history, newest first.
type ListBanHistoryUseCase struct {
	banRepo security.BanRepository
}

func NewListBanHistoryUseCase(banRepo security.BanRepository) *ListBanHistoryUseCase {
	return &ListBanHistoryUseCase{banRepo: banRepo}
}

func (uc *ListBanHistoryUseCase) Execute(ctx context.Context, q ListBanHistoryQuery) ([]BanView, error) {
	bans, err := uc.banRepo.ListBySubject(ctx, q.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to list bans: %w", err)
	}

	views := make([]BanView, 0, len(bans))
	for _, b := range bans {
		views = append(views, BanView{
			BanCount:    b.BanCount(),
			BannedUntil: b.BannedUntil(),
			Active:      b.IsActive(),
			Removed:     b.Removed(),
			Reason:      b.Reason(),
			IPAddress:   b.IPAddress(),
			CreatedAt:   b.CreatedAt(),
		})
	}
	return views, nil
}
