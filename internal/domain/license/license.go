package license

import (
	"fmt"
	"time"

	"licentia/internal/shared/biztime"
	"licentia/internal/shared/id"

	"licentia/internal/domain/license/valueobjects"
)

// KeyPrefixLength is the number of leading key characters stored alongside
// the digest. The prefix is not secret; it only bounds the candidate set a
// key lookup has to verify against.
const KeyPrefixLength = 8

// License is the aggregate root for a purchased entitlement.
// The plaintext key is never held by the aggregate: only the bcrypt digest
// and the non-secret prefix are stored.
type License struct {
	id                     uint
	sid                    string // public identifier, lic_xxx
	keyHash                string
	keyPrefix              string
	productID              uint
	orderID                uint
	status                 valueobjects.LicenseStatus
	maxActivations         int  // product default
	maxActivationsOverride *int // per-license override, takes precedence
	activationCount        int
	requireMachineBinding  bool
	expiresAt              *time.Time
	createdAt              time.Time
	updatedAt              time.Time
}

// NewLicense creates a license from an already-hashed key.
func NewLicense(keyHash, keyPrefix string, productID, orderID uint, maxActivations int, requireMachineBinding bool, expiresAt *time.Time) (*License, error) {
	if keyHash == "" {
		return nil, fmt.Errorf("key hash is required")
	}
	if keyPrefix == "" {
		return nil, fmt.Errorf("key prefix is required")
	}
	if productID == 0 {
		return nil, fmt.Errorf("product ID is required")
	}
	if maxActivations <= 0 {
		return nil, fmt.Errorf("max activations must be positive")
	}

	now := biztime.NowUTC()
	return &License{
		sid:                   id.MustGenerateWithPrefix(id.PrefixLicense, id.DefaultLength),
		keyHash:               keyHash,
		keyPrefix:             keyPrefix,
		productID:             productID,
		orderID:               orderID,
		status:                valueobjects.StatusActive,
		maxActivations:        maxActivations,
		requireMachineBinding: requireMachineBinding,
		expiresAt:             expiresAt,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

// ReconstructLicense reconstructs a license from persistence
func ReconstructLicense(
	licenseID uint,
	sid, keyHash, keyPrefix string,
	productID, orderID uint,
	status valueobjects.LicenseStatus,
	maxActivations int,
	maxActivationsOverride *int,
	activationCount int,
	requireMachineBinding bool,
	expiresAt *time.Time,
	createdAt, updatedAt time.Time,
) (*License, error) {
	if licenseID == 0 {
		return nil, fmt.Errorf("license ID cannot be zero")
	}
	if keyHash == "" {
		return nil, fmt.Errorf("key hash is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid license status: %s", status)
	}

	return &License{
		id:                     licenseID,
		sid:                    sid,
		keyHash:                keyHash,
		keyPrefix:              keyPrefix,
		productID:              productID,
		orderID:                orderID,
		status:                 status,
		maxActivations:         maxActivations,
		maxActivationsOverride: maxActivationsOverride,
		activationCount:        activationCount,
		requireMachineBinding:  requireMachineBinding,
		expiresAt:              expiresAt,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}, nil
}

func (l *License) ID() uint                            { return l.id }
func (l *License) SID() string                         { return l.sid }
func (l *License) KeyHash() string                     { return l.keyHash }
func (l *License) KeyPrefix() string                   { return l.keyPrefix }
func (l *License) ProductID() uint                     { return l.productID }
func (l *License) OrderID() uint                       { return l.orderID }
func (l *License) Status() valueobjects.LicenseStatus  { return l.status }
func (l *License) MaxActivations() int                 { return l.maxActivations }
func (l *License) MaxActivationsOverride() *int        { return l.maxActivationsOverride }
func (l *License) ActivationCount() int                { return l.activationCount }
func (l *License) RequireMachineBinding() bool         { return l.requireMachineBinding }
func (l *License) ExpiresAt() *time.Time               { return l.expiresAt }
func (l *License) CreatedAt() time.Time                { return l.createdAt }
func (l *License) UpdatedAt() time.Time                { return l.updatedAt }

// SetID sets the database ID after persistence (used by repositories only).
func (l *License) SetID(dbID uint) {
	if l.id == 0 {
		l.id = dbID
	}
}

// EffectiveMaxActivations returns the activation limit in force:
// the per-license override when set, otherwise the product default.
func (l *License) EffectiveMaxActivations() int {
	if l.maxActivationsOverride != nil && *l.maxActivationsOverride > 0 {
		return *l.maxActivationsOverride
	}
	return l.maxActivations
}

// OverrideMaxActivations sets a per-license activation limit.
func (l *License) OverrideMaxActivations(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("activation limit must be positive")
	}
	l.maxActivationsOverride = &limit
	l.updatedAt = biztime.NowUTC()
	return nil
}

// IsExpired reports whether the license is past its expiry timestamp.
func (l *License) IsExpired() bool {
	return l.expiresAt != nil && biztime.NowUTC().After(*l.expiresAt)
}

// IsUsable reports whether the license may validate or activate right now.
func (l *License) IsUsable() bool {
	return l.status.IsUsable() && !l.IsExpired()
}

// CanActivate checks whether one more activation fits under the effective
// limit given the current number of active, non-revoked activations.
func (l *License) CanActivate(activeCount int) error {
	if !l.IsUsable() {
		return ErrLicenseNotActive
	}
	if activeCount >= l.EffectiveMaxActivations() {
		return ErrMaxActivationsReached
	}
	return nil
}

// RecordActivation increments the activation counter.
func (l *License) RecordActivation() {
	l.activationCount++
	l.updatedAt = biztime.NowUTC()
}

// RecordDeactivation decrements the activation counter.
func (l *License) RecordDeactivation() {
	if l.activationCount > 0 {
		l.activationCount--
	}
	l.updatedAt = biztime.NowUTC()
}

func (l *License) transitionTo(target valueobjects.LicenseStatus) error {
	if !l.status.CanTransitionTo(target) {
		return ErrInvalidStatusTransition(l.status, target)
	}
	l.status = target
	l.updatedAt = biztime.NowUTC()
	return nil
}

// Suspend moves the license to suspended status.
func (l *License) Suspend() error {
	return l.transitionTo(valueobjects.StatusSuspended)
}

// Resume moves a suspended, expired or disputed license back to active.
func (l *License) Resume() error {
	return l.transitionTo(valueobjects.StatusActive)
}

// Revoke permanently revokes the license. Revocation is terminal.
func (l *License) Revoke() error {
	return l.transitionTo(valueobjects.StatusRevoked)
}

// MarkExpired moves the license to expired status.
func (l *License) MarkExpired() error {
	return l.transitionTo(valueobjects.StatusExpired)
}

// Dispute flags the license while a payment dispute is open.
func (l *License) Dispute() error {
	return l.transitionTo(valueobjects.StatusDisputed)
}
