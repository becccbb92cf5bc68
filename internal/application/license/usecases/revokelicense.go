package usecases

import (
	"context"
	"errors"
	"fmt"

	"licentia/internal/domain/audit"
	"licentia/internal/domain/license"
	"licentia/internal/shared/db"
	apperrors "licentia/internal/shared/errors"
	"licentia/internal/shared/logger"
)

type RevokeLicenseCommand struct {
	LicenseSID string
	Reason     string
	AdminID    uint
}

// RevokeLicenseUseCase permanently revokes a license and every active
// machine binding in one transaction. Used on refunds and chargebacks.
type RevokeLicenseUseCase struct {
	licenseRepo    license.Repository
	activationRepo license.ActivationRepository
	txManager      *db.TransactionManager
	trail          *audit.Trail
	logger         logger.Interface
}

func NewRevokeLicenseUseCase(
	licenseRepo license.Repository,
	activationRepo license.ActivationRepository,
	txManager *db.TransactionManager,
	trail *audit.Trail,
	logger logger.Interface,
) *RevokeLicenseUseCase {
	return &RevokeLicenseUseCase{
		licenseRepo:    licenseRepo,
		activationRepo: activationRepo,
		txManager:      txManager,
		trail:          trail,
		logger:         logger,
	}
}

func (uc *RevokeLicenseUseCase) Execute(ctx context.Context, cmd RevokeLicenseCommand) error {
	lic, err := uc.licenseRepo.GetBySID(ctx, cmd.LicenseSID)
	if err != nil {
		if errors.Is(err, license.ErrLicenseNotFound) {
			return apperrors.NewNotFoundError("license not found")
		}
		return fmt.Errorf("failed to get license: %w", err)
	}

	if err := lic.Revoke(); err != nil {
		return apperrors.NewConflictError("license cannot be revoked", err.Error())
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "license revoked"
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.licenseRepo.Update(txCtx, lic); err != nil {
			return err
		}
		return uc.activationRepo.RevokeAllByLicense(txCtx, lic.ID(), reason)
	})
	if err != nil {
		uc.logger.Errorw("failed to revoke license", "license_sid", cmd.LicenseSID, "error", err)
		return fmt.Errorf("failed to revoke license: %w", err)
	}

	if entry, auditErr := audit.NewEntry(audit.ActionLicenseRevoked, true); auditErr == nil {
		entry.WithLicense(lic.SID()).
			WithMeta("reason", reason).
			WithMeta("admin_id", cmd.AdminID)
		uc.trail.Record(ctx, entry)
	}

	uc.logger.Infow("license revoked", "license_sid", lic.SID(), "reason", reason)
	return nil
}
