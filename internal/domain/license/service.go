package license

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Key format: five groups of five characters from a crockford-style
// alphabet (no 0/O/1/I ambiguity), e.g. ABCDE-FGHJK-LMNPQ-RSTVW-XYZ23.
const (
	keyAlphabet   = "ABCDEFGHJKLMNPQRSTVWXYZ23456789"
	keyGroupCount = 5
	keyGroupSize  = 5
)

// GenerateKey produces a new plaintext license key. The plaintext is shown
// to the buyer exactly once; only its hash and prefix are ever persisted.
func GenerateKey() (string, error) {
	alphabetLen := big.NewInt(int64(len(keyAlphabet)))
	groups := make([]string, 0, keyGroupCount)
	var sb strings.Builder
	for g := 0; g < keyGroupCount; g++ {
		sb.Reset()
		for i := 0; i < keyGroupSize; i++ {
			n, err := rand.Int(rand.Reader, alphabetLen)
			if err != nil {
				return "", fmt.Errorf("failed to generate license key: %w", err)
			}
			sb.WriteByte(keyAlphabet[n.Int64()])
		}
		groups = append(groups, sb.String())
	}
	return strings.Join(groups, "-"), nil
}

// NormalizeKey canonicalizes user-supplied key input before hashing or
// prefix extraction: uppercased, surrounding whitespace removed.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// KeyPrefix returns the non-secret leading characters of a key used to
// bound the lookup candidate set.
func KeyPrefix(key string) string {
	key = NormalizeKey(key)
	if len(key) < KeyPrefixLength {
		return key
	}
	return key[:KeyPrefixLength]
}

// Lookup resolves plaintext license keys to license records.
//
// FindByKey deliberately verifies the digest of every candidate sharing the
// key prefix instead of indexing on anything derived from the full
// plaintext. The loop never breaks early on a match, so wall-clock time
// does not correlate with which candidate (if any) matched. The candidate
// set is bounded by the prefix filter; each verification already costs a
// full bcrypt comparison.
type Lookup struct {
	repo   Repository
	hasher KeyHasher
}

// NewLookup creates a key lookup service.
func NewLookup(repo Repository, hasher KeyHasher) *Lookup {
	return &Lookup{repo: repo, hasher: hasher}
}

// FindByKey returns the license whose stored digest verifies against the
// plaintext key, or (nil, nil) when no candidate matches. It never returns
// an error for a plain miss; only storage failures surface.
func (s *Lookup) FindByKey(ctx context.Context, plaintextKey string) (*License, error) {
	normalized := NormalizeKey(plaintextKey)
	if normalized == "" {
		return nil, nil
	}

	candidates, err := s.repo.GetCandidatesByKeyPrefix(ctx, KeyPrefix(normalized))
	if err != nil {
		return nil, fmt.Errorf("failed to load key candidates: %w", err)
	}

	var match *License
	for _, candidate := range candidates {
		if s.hasher.Verify(normalized, candidate.KeyHash()) {
			match = candidate
		}
	}
	return match, nil
}
