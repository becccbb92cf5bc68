package usecases

import (
	"context"
	"fmt"
	"time"

	"licentia/internal/domain/audit"
	"licentia/internal/domain/license"
	"licentia/internal/shared/logger"
)

type IssueLicenseCommand struct {
	ProductID             uint
	OrderID               uint
	MaxActivations        int
	RequireMachineBinding bool
	ExpiresAt             *time.Time
}

// IssueLicenseResult carries the plaintext key exactly once. It is never
// persisted and cannot be recovered afterwards.
type IssueLicenseResult struct {
	LicenseSID   string
	PlaintextKey string
}

type IssueLicenseUseCase struct {
	licenseRepo license.Repository
	keyHasher   license.KeyHasher
	trail       *audit.Trail
	logger      logger.Interface
}

func NewIssueLicenseUseCase(
	licenseRepo license.Repository,
	keyHasher license.KeyHasher,
	trail *audit.Trail,
	logger logger.Interface,
) *IssueLicenseUseCase {
	return &IssueLicenseUseCase{
		licenseRepo: licenseRepo,
		keyHasher:   keyHasher,
		trail:       trail,
		logger:      logger,
	}
}

func (uc *IssueLicenseUseCase) Execute(ctx context.Context, cmd IssueLicenseCommand) (*IssueLicenseResult, error) {
	plaintext, err := license.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	keyHash, err := uc.keyHasher.Hash(plaintext)
	if err != nil {
		uc.logger.Errorw("failed to hash license key", "error", err)
		return nil, fmt.Errorf("failed to hash key: %w", err)
	}

	lic, err := license.NewLicense(
		keyHash,
		license.KeyPrefix(plaintext),
		cmd.ProductID,
		cmd.OrderID,
		cmd.MaxActivations,
		cmd.RequireMachineBinding,
		cmd.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.licenseRepo.Create(ctx, lic); err != nil {
		uc.logger.Errorw("failed to create license", "error", err)
		return nil, fmt.Errorf("failed to create license: %w", err)
	}

	if entry, err := audit.NewEntry(audit.ActionLicenseIssued, true); err == nil {
		entry.WithLicense(lic.SID()).
			WithMeta("product_id", cmd.ProductID).
			WithMeta("order_id", cmd.OrderID).
			WithSecretMeta("license_key", plaintext)
		uc.trail.Record(ctx, entry)
	}

	uc.logger.Infow("license issued",
		"license_sid", lic.SID(),
		"product_id", cmd.ProductID,
		"order_id", cmd.OrderID,
	)

	return &IssueLicenseResult{
		LicenseSID:   lic.SID(),
		PlaintextKey: plaintext,
	}, nil
}
