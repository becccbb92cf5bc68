package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"licentia/internal/domain/audit"
	"licentia/internal/domain/license"
	apperrors "licentia/internal/shared/errors"
	"licentia/internal/shared/logger"
)

type ValidateLicenseCommand struct {
	LicenseKey  string
	Fingerprint string // optional machine fingerprint for binding check
	MachineID   string // optional hardware identifier for binding check
	IPAddress   string
	UserAgent   string
}

type ValidateLicenseResult struct {
	LicenseSID     string
	Status         string
	MachineBound   bool
	ActivationSID  string
	MaxActivations int
	ExpiresAt      *time.Time
}

// ValidateLicenseUseCase answers "is this key good, and is this machine
// allowed to use it". Misses and usable-state failures produce the same
// generic credential error so callers cannot probe for existing keys.
type ValidateLicenseUseCase struct {
	lookup            *license.Lookup
	activationRepo    license.ActivationRepository
	fingerprintHasher license.FingerprintHasher
	trail             *audit.Trail
	logger            logger.Interface
}

func NewValidateLicenseUseCase(
	lookup *license.Lookup,
	activationRepo license.ActivationRepository,
	fingerprintHasher license.FingerprintHasher,
	trail *audit.Trail,
	logger logger.Interface,
) *ValidateLicenseUseCase {
	return &ValidateLicenseUseCase{
		lookup:            lookup,
		activationRepo:    activationRepo,
		fingerprintHasher: fingerprintHasher,
		trail:             trail,
		logger:            logger,
	}
}

func (uc *ValidateLicenseUseCase) Execute(ctx context.Context, cmd ValidateLicenseCommand) (*ValidateLicenseResult, error) {
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

	result := &ValidateLicenseResult{
		LicenseSID:     lic.SID(),
		Status:         string(lic.Status()),
		MaxActivations: lic.EffectiveMaxActivations(),
		ExpiresAt:      lic.ExpiresAt(),
	}

	if hash := uc.bindingHash(cmd); hash != "" {
		activation, err := uc.activationRepo.GetActiveByLicenseAndHash(ctx, lic.ID(), hash)
		if err != nil && !errors.Is(err, license.ErrActivationNotFound) {
			uc.logger.Errorw("activation lookup failed", "error", err)
			return nil, fmt.Errorf("failed to look up activation: %w", err)
		}
		if activation != nil {
			result.MachineBound = true
			result.ActivationSID = activation.SID()
		} else if lic.RequireMachineBinding() {
			uc.audit(ctx, cmd, lic.SID(), false, "machine not activated")
			return nil, apperrors.NewLicenseInvalidStateError("not activated on this machine")
		}
	} else if lic.RequireMachineBinding() {
		uc.audit(ctx, cmd, lic.SID(), false, "machine identifier missing")
		return nil, apperrors.NewLicenseInvalidStateError("machine identifier required")
	}

	uc.audit(ctx, cmd, lic.SID(), true, "")
	return result, nil
}

// bindingHash prefers the fingerprint over the raw hardware identifier.
func (uc *ValidateLicenseUseCase) bindingHash(cmd ValidateLicenseCommand) string {
	if cmd.Fingerprint != "" {
		return uc.fingerprintHasher.Hash(cmd.Fingerprint)
	}
	if cmd.MachineID != "" {
		return uc.fingerprintHasher.Hash(cmd.MachineID)
	}
	return ""
}

func (uc *ValidateLicenseUseCase) audit(ctx context.Context, cmd ValidateLicenseCommand, licenseSID string, success bool, reason string) {
	entry, err := audit.NewEntry(audit.ActionLicenseValidated, success)
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
