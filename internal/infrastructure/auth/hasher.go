package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinLicenseKeyCost is the floor for bcrypt cost on license keys. Keys are
// exposed to offline brute force if the database leaks, so the cost never
// drops below 12 even when misconfigured.
const MinLicenseKeyCost = 12

// BcryptKeyHasher hashes license keys with bcrypt. The salt is embedded in
// the digest; no plaintext or reversible form is ever produced.
type BcryptKeyHasher struct {
	cost int
}

func NewBcryptKeyHasher(cost int) *BcryptKeyHasher {
	if cost < MinLicenseKeyCost {
		cost = MinLicenseKeyCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptKeyHasher{cost: cost}
}

func (h *BcryptKeyHasher) Hash(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate key hash: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether key matches hash. A malformed hash and a
// mismatched key are indistinguishable to the caller.
func (h *BcryptKeyHasher) Verify(key, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
