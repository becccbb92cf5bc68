package license

import "context"

// Repository defines the interface for license persistence operations
type Repository interface {
	// Create creates a new license
	Create(ctx context.Context, l *License) error

	// Update updates an existing license
	Update(ctx context.Context, l *License) error

	// GetByID retrieves a license by database ID
	GetByID(ctx context.Context, licenseID uint) (*License, error)

	// GetBySID retrieves a license by public identifier
	GetBySID(ctx context.Context, sid string) (*License, error)

	// GetCandidatesByKeyPrefix retrieves every license whose stored key
	// prefix matches. The prefix is non-secret; the caller still verifies
	// each candidate's digest.
	GetCandidatesByKeyPrefix(ctx context.Context, keyPrefix string) ([]*License, error)

	// ListByOrder retrieves all licenses attached to an order
	ListByOrder(ctx context.Context, orderID uint) ([]*License, error)
}

// ActivationRepository defines the interface for activation persistence operations
type ActivationRepository interface {
	// Create creates a new activation
	Create(ctx context.Context, a *Activation) error

	// Update updates an existing activation
	Update(ctx context.Context, a *Activation) error

	// GetByID retrieves an activation by database ID
	GetByID(ctx context.Context, activationID uint) (*Activation, error)

	// GetBySID retrieves an activation by public identifier
	GetBySID(ctx context.Context, sid string) (*Activation, error)

	// GetActiveByLicense retrieves all active, non-revoked activations
	GetActiveByLicense(ctx context.Context, licenseID uint) ([]*Activation, error)

	// GetActiveByLicenseAndHash retrieves the active activation matching the
	// hashed machine identifier, if any
	GetActiveByLicenseAndHash(ctx context.Context, licenseID uint, hash string) (*Activation, error)

	// CountActiveByLicense counts active, non-revoked activations
	CountActiveByLicense(ctx context.Context, licenseID uint) (int64, error)

	// RevokeAllByLicense deactivates every active activation of a license,
	// recording the given reason. Used when a license is revoked.
	RevokeAllByLicense(ctx context.Context, licenseID uint, reason string) error
}

// KeyHasher hashes and verifies license keys with an adaptive, deliberately
// slow one-way function.
type KeyHasher interface {
	Hash(key string) (string, error)
	Verify(key, hash string) bool
}

// FingerprintHasher hashes machine fingerprints and machine ids with a fast
// keyed hash. Lookups compare hash-vs-hash, never plaintext.
type FingerprintHasher interface {
	Hash(value string) string
}
