package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACFingerprintHasher hashes machine fingerprints and machine ids with
// HMAC-SHA256 under a server-side secret. Unlike license keys these values
// are compared on every validation call, so the hash must be fast; the
// keyed construction still prevents offline dictionary attacks against a
// leaked table.
type HMACFingerprintHasher struct {
	secret []byte
}

func NewHMACFingerprintHasher(secret string) *HMACFingerprintHasher {
	return &HMACFingerprintHasher{secret: []byte(secret)}
}

func (h *HMACFingerprintHasher) Hash(value string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// ConstantTimeEqual compares two strings without early exit. Used for any
// remaining plaintext-vs-plaintext comparison path; hash-vs-hash lookups
// go through the repositories instead.
func ConstantTimeEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
