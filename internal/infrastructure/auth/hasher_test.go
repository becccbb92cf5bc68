package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptKeyHasher_CostFloor(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"below floor is raised", 4, MinLicenseKeyCost},
		{"zero is raised", 0, MinLicenseKeyCost},
		{"at floor", MinLicenseKeyCost, MinLicenseKeyCost},
		{"above max is capped", bcrypt.MaxCost + 1, bcrypt.MaxCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBcryptKeyHasher(tt.cost)
			if h.cost != tt.want {
				t.Errorf("cost = %d, want %d", h.cost, tt.want)
			}
		})
	}
}

func TestBcryptKeyHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptKeyHasher(MinLicenseKeyCost)
	key := "ABCDE-FGHJK-LMNPQ-RSTVW-XYZ23"

	hash, err := h.Hash(key)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if strings.Contains(hash, key) {
		t.Error("digest contains the plaintext key")
	}

	if !h.Verify(key, hash) {
		t.Error("Verify() = false for the matching key")
	}
	if h.Verify("ABCDE-FGHJK-LMNPQ-RSTVW-WRONG", hash) {
		t.Error("Verify() = true for a different key")
	}
	if h.Verify(key, "not-a-bcrypt-digest") {
		t.Error("Verify() = true for a malformed digest")
	}
}
