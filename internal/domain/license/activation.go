package license

import (
	"fmt"
	"time"

	"licentia/internal/shared/biztime"
	"licentia/internal/shared/id"
)

// Activation binds a license to a single machine. Machine identifiers are
// stored only as server-salted hashes; the aggregate never sees plaintext.
type Activation struct {
	id              uint
	sid             string // public identifier, act_xxx
	licenseID       uint
	fingerprintHash string
	machineIDHash   string
	active          bool
	revoked         bool
	revokeReason    string
	revokedAt       *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// NewActivation creates an active binding from already-hashed machine identifiers.
// At least one of fingerprintHash or machineIDHash must be present.
func NewActivation(licenseID uint, fingerprintHash, machineIDHash string) (*Activation, error) {
	if licenseID == 0 {
		return nil, fmt.Errorf("license ID is required")
	}
	if fingerprintHash == "" && machineIDHash == "" {
		return nil, fmt.Errorf("fingerprint hash or machine ID hash is required")
	}

	now := biztime.NowUTC()
	return &Activation{
		sid:             id.MustGenerateWithPrefix(id.PrefixActivation, id.DefaultLength),
		licenseID:       licenseID,
		fingerprintHash: fingerprintHash,
		machineIDHash:   machineIDHash,
		active:          true,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructActivation reconstructs an activation from persistence
func ReconstructActivation(
	activationID uint,
	sid string,
	licenseID uint,
	fingerprintHash, machineIDHash string,
	active, revoked bool,
	revokeReason string,
	revokedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Activation, error) {
	if activationID == 0 {
		return nil, fmt.Errorf("activation ID cannot be zero")
	}
	if licenseID == 0 {
		return nil, fmt.Errorf("license ID is required")
	}

	return &Activation{
		id:              activationID,
		sid:             sid,
		licenseID:       licenseID,
		fingerprintHash: fingerprintHash,
		machineIDHash:   machineIDHash,
		active:          active,
		revoked:         revoked,
		revokeReason:    revokeReason,
		revokedAt:       revokedAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (a *Activation) ID() uint                { return a.id }
func (a *Activation) SID() string             { return a.sid }
func (a *Activation) LicenseID() uint         { return a.licenseID }
func (a *Activation) FingerprintHash() string { return a.fingerprintHash }
func (a *Activation) MachineIDHash() string   { return a.machineIDHash }
func (a *Activation) RevokeReason() string    { return a.revokeReason }
func (a *Activation) RevokedAt() *time.Time   { return a.revokedAt }
func (a *Activation) CreatedAt() time.Time    { return a.createdAt }
func (a *Activation) UpdatedAt() time.Time    { return a.updatedAt }
func (a *Activation) Revoked() bool           { return a.revoked }

// SetID sets the database ID after persistence (used by repositories only).
func (a *Activation) SetID(dbID uint) {
	if a.id == 0 {
		a.id = dbID
	}
}

// IsActive reports whether the binding currently consumes an activation slot.
func (a *Activation) IsActive() bool {
	return a.active && !a.revoked
}

// Revoke soft-deletes the activation, recording reason and timestamp.
// The record is preserved for audit and fraud analysis.
func (a *Activation) Revoke(reason string) error {
	if a.revoked {
		return ErrActivationAlreadyRevoked
	}
	now := biztime.NowUTC()
	a.active = false
	a.revoked = true
	a.revokeReason = reason
	a.revokedAt = &now
	a.updatedAt = now
	return nil
}

// Matches reports whether either hashed machine identifier equals the given
// hash. Comparison is hash-vs-hash; plaintext never reaches the aggregate.
func (a *Activation) Matches(hash string) bool {
	if hash == "" {
		return false
	}
	return a.fingerprintHash == hash || a.machineIDHash == hash
}
