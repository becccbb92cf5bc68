package usecases

import (
	"context"
	"errors"
	"fmt"

	"licentia/internal/domain/audit"
	"licentia/internal/domain/license"
	apperrors "licentia/internal/shared/errors"
	"licentia/internal/shared/logger"
)

type ChangeLicenseStatusCommand struct {
	LicenseSID string
	Target     string // suspended, active, expired, disputed
	AdminID    uint
}

// ChangeLicenseStatusUseCase applies non-terminal status transitions.
// Revocation has its own use case because it also tears down activations.
type ChangeLicenseStatusUseCase struct {
	licenseRepo license.Repository
	trail       *audit.Trail
	logger      logger.Interface
}

func NewChangeLicenseStatusUseCase(
	licenseRepo license.Repository,
	trail *audit.Trail,
	logger logger.Interface,
) *ChangeLicenseStatusUseCase {
	return &ChangeLicenseStatusUseCase{
		licenseRepo: licenseRepo,
		trail:       trail,
		logger:      logger,
	}
}

func (uc *ChangeLicenseStatusUseCase) Execute(ctx context.Context, cmd ChangeLicenseStatusCommand) error {
	lic, err := uc.licenseRepo.GetBySID(ctx, cmd.LicenseSID)
	if err != nil {
		if errors.Is(err, license.ErrLicenseNotFound) {
			return apperrors.NewNotFoundError("license not found")
		}
		return fmt.Errorf("failed to get license: %w", err)
	}

	var action audit.Action
	switch cmd.Target {
	case "suspended":
		err = lic.Suspend()
		action = audit.ActionLicenseSuspended
	case "active":
		err = lic.Resume()
		action = audit.ActionLicenseResumed
	case "expired":
		err = lic.MarkExpired()
		action = audit.ActionLicenseSuspended
	case "disputed":
		err = lic.Dispute()
		action = audit.ActionLicenseSuspended
	default:
		return apperrors.NewValidationError("unknown target status", cmd.Target)
	}
	if err != nil {
		return apperrors.NewConflictError("status transition not allowed", err.Error())
	}

	if err := uc.licenseRepo.Update(ctx, lic); err != nil {
		uc.logger.Errorw("failed to update license status", "license_sid", cmd.LicenseSID, "error", err)
		return fmt.Errorf("failed to update license: %w", err)
	}

	if entry, auditErr := audit.NewEntry(action, true); auditErr == nil {
		entry.WithLicense(lic.SID()).
			WithMeta("target_status", cmd.Target).
			WithMeta("admin_id", cmd.AdminID)
		uc.trail.Record(ctx, entry)
	}

	return nil
}
