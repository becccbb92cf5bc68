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

type ActivateMachineCommand struct {
	LicenseKey  string
	Fingerprint string
	MachineID   string
	IPAddress   string
	UserAgent   string
}

type ActivateMachineResult struct {
	LicenseSID     string
	ActivationSID  string
	AlreadyActive  bool
	ActiveMachines int
	MaxActivations int
}

// ActivateMachineUseCase binds a machine to a license. Re-activating an
// already-bound machine is idempotent: it returns the existing binding
// without consuming another slot.
type ActivateMachineUseCase struct {
	lookup            *license.Lookup
	licenseRepo       license.Repository
	activationRepo    license.ActivationRepository
	fingerprintHasher license.FingerprintHasher
	txManager         *db.TransactionManager
	trail             *audit.Trail
	logger            logger.Interface
}

func NewActivateMachineUseCase(
	lookup *license.Lookup,
	licenseRepo license.Repository,
	activationRepo license.ActivationRepository,
	fingerprintHasher license.FingerprintHasher,
	txManager *db.TransactionManager,
	trail *audit.Trail,
	logger logger.Interface,
) *ActivateMachineUseCase {
	return &ActivateMachineUseCase{
		lookup:            lookup,
		licenseRepo:       licenseRepo,
		activationRepo:    activationRepo,
		fingerprintHasher: fingerprintHasher,
		txManager:         txManager,
		trail:             trail,
		logger:            logger,
	}
}

func (uc *ActivateMachineUseCase) Execute(ctx context.Context, cmd ActivateMachineCommand) (*ActivateMachineResult, error) {
	if cmd.Fingerprint == "" && cmd.MachineID == "" {
		return nil, apperrors.NewValidationError("fingerprint or machine ID is required")
	}

	lic, err := uc.lookup.FindByKey(ctx, cmd.LicenseKey)
	if err != nil {
		uc.logger.Errorw("license lookup failed", "error", err)
		return nil, fmt.Errorf("failed to look up license: %w", err)
	}
	if lic == nil {
		uc.audit(ctx, cmd, "", false, "unknown key")
		return nil, apperrors.NewInvalidCredentialError()
	}
	if !lic.IsUsable() {
		uc.audit(ctx, cmd, lic.SID(), false, "license not usable")
		return nil, apperrors.NewLicenseInvalidStateError(string(lic.Status()))
	}

	var fingerprintHash, machineIDHash string
	if cmd.Fingerprint != "" {
		fingerprintHash = uc.fingerprintHasher.Hash(cmd.Fingerprint)
	}
	if cmd.MachineID != "" {
		machineIDHash = uc.fingerprintHasher.Hash(cmd.MachineID)
	}

	matchHash := fingerprintHash
	if matchHash == "" {
		matchHash = machineIDHash
	}

	existing, err := uc.activationRepo.GetActiveByLicenseAndHash(ctx, lic.ID(), matchHash)
	if err != nil && !errors.Is(err, license.ErrActivationNotFound) {
		uc.logger.Errorw("activation lookup failed", "error", err)
		return nil, fmt.Errorf("failed to look up activation: %w", err)
	}

	activeCount, err := uc.activationRepo.CountActiveByLicense(ctx, lic.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to count activations: %w", err)
	}

	if existing != nil {
		return &ActivateMachineResult{
			LicenseSID:     lic.SID(),
			ActivationSID:  existing.SID(),
			AlreadyActive:  true,
			ActiveMachines: int(activeCount),
			MaxActivations: lic.EffectiveMaxActivations(),
		}, nil
	}

	if err := lic.CanActivate(int(activeCount)); err != nil {
		if errors.Is(err, license.ErrMaxActivationsReached) {
			uc.audit(ctx, cmd, lic.SID(), false, "max activations reached")
			return nil, apperrors.NewMaxActivationsError(lic.EffectiveMaxActivations())
		}
		uc.audit(ctx, cmd, lic.SID(), false, "license not usable")
		return nil, apperrors.NewLicenseInvalidStateError(string(lic.Status()))
	}

	activation, err := license.NewActivation(lic.ID(), fingerprintHash, machineIDHash)
	if err != nil {
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.activationRepo.Create(txCtx, activation); err != nil {
			return err
		}
		lic.RecordActivation()
		return uc.licenseRepo.Update(txCtx, lic)
	})
	if err != nil {
		uc.logger.Errorw("failed to activate machine", "license_sid", lic.SID(), "error", err)
		return nil, fmt.Errorf("failed to activate machine: %w", err)
	}

	uc.audit(ctx, cmd, lic.SID(), true, "")
	uc.logger.Infow("machine activated",
		"license_sid", lic.SID(),
		"activation_sid", activation.SID(),
	)

	return &ActivateMachineResult{
		LicenseSID:     lic.SID(),
		ActivationSID:  activation.SID(),
		ActiveMachines: int(activeCount) + 1,
		MaxActivations: lic.EffectiveMaxActivations(),
	}, nil
}

func (uc *ActivateMachineUseCase) audit(ctx context.Context, cmd ActivateMachineCommand, licenseSID string, success bool, reason string) {
	entry, err := audit.NewEntry(audit.ActionLicenseActivated, success)
	if err != nil {
		return
	}
	entry.WithRequest(cmd.IPAddress, cmd.UserAgent).
		WithSecretMeta("license_key", license.NormalizeKey(cmd.LicenseKey))
	if licenseSID != "" {
		entry.WithLicense(licenseSID)
	}
	if reason != "" {
		entry.WithFailureReason(reason)
	}
	uc.trail.Record(ctx, entry)
}
