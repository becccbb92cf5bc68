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

type DeactivateMachineCommand struct {
	LicenseKey  string
	Fingerprint string
	MachineID   string
	Reason      string
	IPAddress   string
	UserAgent   string
}

type DeactivateMachineResult struct {
	LicenseSID     string
	ActivationSID  string
	ActiveMachines int
}

// DeactivateMachineUseCase releases a machine's activation slot. The
// activation row is soft-deleted so the binding history survives.
type DeactivateMachineUseCase struct {
	lookup            *license.Lookup
	licenseRepo       license.Repository
	activationRepo    license.ActivationRepository
	fingerprintHasher license.FingerprintHasher
	txManager         *db.TransactionManager
	trail             *audit.Trail
	logger            logger.Interface
}

func NewDeactivateMachineUseCase(
	lookup *license.Lookup,
	licenseRepo license.Repository,
	activationRepo license.ActivationRepository,
	fingerprintHasher license.FingerprintHasher,
	txManager *db.TransactionManager,
	trail *audit.Trail,
	logger logger.Interface,
) *DeactivateMachineUseCase {
	return &DeactivateMachineUseCase{
		lookup:            lookup,
		licenseRepo:       licenseRepo,
		activationRepo:    activationRepo,
		fingerprintHasher: fingerprintHasher,
		txManager:         txManager,
		trail:             trail,
		logger:            logger,
	}
}

func (uc *DeactivateMachineUseCase) Execute(ctx context.Context, cmd DeactivateMachineCommand) (*DeactivateMachineResult, error) {
	if cmd.Fingerprint == "" && cmd.MachineID == "" {
		return nil, apperrors.NewValidationError("fingerprint or machine ID is required")
	}

	lic, err := uc.lookup.FindByKey(ctx, cmd.LicenseKey)
	if err != nil {
		uc.logger.Errorw("license lookup failed", "error", err)
		return nil, fmt.Errorf("failed to look up license: %w", err)
	}
	if lic == nil {
		return nil, apperrors.NewInvalidCredentialError()
	}

	activation, err := uc.activationRepo.GetActiveByLicenseAndHash(ctx, lic.ID(), uc.bindingHash(cmd))
	if err != nil {
		if errors.Is(err, license.ErrActivationNotFound) {
			return nil, apperrors.NewNotFoundError("no active binding for this machine")
		}
		return nil, fmt.Errorf("failed to look up activation: %w", err)
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "deactivated by owner"
	}
	if err := activation.Revoke(reason); err != nil {
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.activationRepo.Update(txCtx, activation); err != nil {
			return err
		}
		lic.RecordDeactivation()
		return uc.licenseRepo.Update(txCtx, lic)
	})
	if err != nil {
		uc.logger.Errorw("failed to deactivate machine", "license_sid", lic.SID(), "error", err)
		return nil, fmt.Errorf("failed to deactivate machine: %w", err)
	}

	activeCount, err := uc.activationRepo.CountActiveByLicense(ctx, lic.ID())
	if err != nil {
		activeCount = 0
	}

	if entry, auditErr := audit.NewEntry(audit.ActionLicenseDeactivated, true); auditErr == nil {
		entry.WithLicense(lic.SID()).
			WithRequest(cmd.IPAddress, cmd.UserAgent).
			WithMeta("activation_sid", activation.SID()).
			WithMeta("reason", reason)
		uc.trail.Record(ctx, entry)
	}

	return &DeactivateMachineResult{
		LicenseSID:     lic.SID(),
		ActivationSID:  activation.SID(),
		ActiveMachines: int(activeCount),
	}, nil
}

// bindingHash prefers the fingerprint over the raw hardware identifier.
// The guard above ensures at least one of the two is set.
func (uc *DeactivateMachineUseCase) bindingHash(cmd DeactivateMachineCommand) string {
	if cmd.Fingerprint != "" {
		return uc.fingerprintHasher.Hash(cmd.Fingerprint)
	}
	return uc.fingerprintHasher.Hash(cmd.MachineID)
}
