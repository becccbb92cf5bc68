package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"licentia/internal/domain/license"
	apperrors "licentia/internal/shared/errors"
)

type GetLicenseQuery struct {
	LicenseSID string
}

type ActivationView struct {
	ActivationSID string
	Active        bool
	CreatedAt     time.Time
	RevokedAt     *time.Time
	RevokeReason  string
}

type GetLicenseResult struct {
	LicenseSID     string
	KeyPrefix      string
	Status         string
	ProductID      uint
	OrderID        uint
	MaxActivations int
	ActiveMachines int
	ExpiresAt      *time.Time
	CreatedAt      time.Time
	Activations    []ActivationView
}

// GetLicenseUseCase is the admin read view: license state plus its active
// bindings. Only the non-secret key prefix is ever exposed.
type GetLicenseUseCase struct {
	licenseRepo    license.Repository
	activationRepo license.ActivationRepository
}

func NewGetLicenseUseCase(licenseRepo license.Repository, activationRepo license.ActivationRepository) *GetLicenseUseCase {
	return &GetLicenseUseCase{
		licenseRepo:    licenseRepo,
		activationRepo: activationRepo,
	}
}

func (uc *GetLicenseUseCase) Execute(ctx context.Context, q GetLicenseQuery) (*GetLicenseResult, error) {
	lic, err := uc.licenseRepo.GetBySID(ctx, q.LicenseSID)
	if err != nil {
		if errors.Is(err, license.ErrLicenseNotFound) {
			return nil, apperrors.NewNotFoundError("license not found")
		}
		return nil, fmt.Errorf("failed to get license: %w", err)
	}

	activations, err := uc.activationRepo.GetActiveByLicense(ctx, lic.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list activations: %w", err)
	}

	views := make([]ActivationView, 0, len(activations))
	for _, a := range activations {
		views = append(views, ActivationView{
			ActivationSID: a.SID(),
			Active:        a.IsActive(),
			CreatedAt:     a.CreatedAt(),
			RevokedAt:     a.RevokedAt(),
			RevokeReason:  a.RevokeReason(),
		})
	}

	return &GetLicenseResult{
		LicenseSID:     lic.SID(),
		KeyPrefix:      lic.KeyPrefix(),
		Status:         string(lic.Status()),
		ProductID:      lic.ProductID(),
		OrderID:        lic.OrderID(),
		MaxActivations: lic.EffectiveMaxActivations(),
		ActiveMachines: len(views),
		ExpiresAt:      lic.ExpiresAt(),
		CreatedAt:      lic.CreatedAt(),
		Activations:    views,
	}, nil
}
