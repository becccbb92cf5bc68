package license

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"licentia/internal/domain/license/valueobjects"
)

func TestGenerateKey_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[ABCDEFGHJKLMNPQRSTVWXYZ2-9]{5}(-[ABCDEFGHJKLMNPQRSTVWXYZ2-9]{5}){4}$`)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		key, err := GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey() error = %v", err)
		}
		if !pattern.MatchString(key) {
			t.Fatalf("GenerateKey() = %q, does not match expected format", key)
		}
		if seen[key] {
			t.Fatalf("GenerateKey() produced duplicate %q", key)
		}
		seen[key] = true
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"uppercases", "abcde-fghjk-lmnpq-rstvw-xyz23", "ABCDE-FGHJK-LMNPQ-RSTVW-XYZ23"},
		{"trims whitespace", "  ABCDE-FGHJK-LMNPQ-RSTVW-XYZ23\n", "ABCDE-FGHJK-LMNPQ-RSTVW-XYZ23"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.in); got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full key", "ABCDE-FGHJK-LMNPQ-RSTVW-XYZ23", "ABCDE-FG"},
		{"lowercase input", "abcde-fghjk", "ABCDE-FG"},
		{"short input returned whole", "ABC", "ABC"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyPrefix(tt.in); got != tt.want {
				t.Errorf("KeyPrefix(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// fakeKeyHasher treats the digest as "hash:" + plaintext so tests avoid
// real bcrypt work.
type fakeKeyHasher struct{}

func (fakeKeyHasher) Hash(key string) (string, error) { return "hash:" + key, nil }
func (fakeKeyHasher) Verify(key, hash string) bool    { return hash == "hash:"+key }

// countingKeyHasher records how many digests were verified.
type countingKeyHasher struct {
	verifyCalls int
}

func (h *countingKeyHasher) Hash(key string) (string, error) { return "hash:" + key, nil }
func (h *countingKeyHasher) Verify(key, hash string) bool {
	h.verifyCalls++
	return hash == "hash:"+key
}

type fakeLicenseRepo struct {
	candidates []*License
	err        error
}

func (r *fakeLicenseRepo) Create(ctx context.Context, l *License) error { return nil }
func (r *fakeLicenseRepo) Update(ctx context.Context, l *License) error { return nil }
func (r *fakeLicenseRepo) GetByID(ctx context.Context, licenseID uint) (*License, error) {
	return nil, ErrLicenseNotFound
}
func (r *fakeLicenseRepo) GetBySID(ctx context.Context, sid string) (*License, error) {
	return nil, ErrLicenseNotFound
}
func (r *fakeLicenseRepo) GetCandidatesByKeyPrefix(ctx context.Context, keyPrefix string) ([]*License, error) {
	return r.candidates, r.err
}
func (r *fakeLicenseRepo) ListByOrder(ctx context.Context, orderID uint) ([]*License, error) {
	return nil, nil
}

func reconstructCandidate(t *testing.T, id uint, key string) *License {
	t.Helper()
	now := time.Now().UTC()
	l, err := ReconstructLicense(id, "lic_test", "hash:"+key, KeyPrefix(key),
		1, 1, valueobjects.StatusActive, 3, nil, 0, false, nil, now, now)
	if err != nil {
		t.Fatalf("ReconstructLicense() error = %v", err)
	}
	return l
}

func TestLookup_FindByKey(t *testing.T) {
	ctx := context.Background()
	key := "ABCDE-FGHJK-LMNPQ-RSTVW-XYZ23"
	other := "ABCDE-FG999-99999-99999-99999" // same prefix, different key

	t.Run("matches the verifying candidate among prefix collisions", func(t *testing.T) {
		repo := &fakeLicenseRepo{candidates: []*License{
			reconstructCandidate(t, 1, other),
			reconstructCandidate(t, 2, key),
		}}
		lookup := NewLookup(repo, fakeKeyHasher{})

		got, err := lookup.FindByKey(ctx, key)
		if err != nil {
			t.Fatalf("FindByKey() error = %v", err)
		}
		if got == nil || got.ID() != 2 {
			t.Errorf("FindByKey() = %v, want candidate 2", got)
		}
	})

	t.Run("lowercased input still matches", func(t *testing.T) {
		repo := &fakeLicenseRepo{candidates: []*License{reconstructCandidate(t, 1, key)}}
		lookup := NewLookup(repo, fakeKeyHasher{})

		got, err := lookup.FindByKey(ctx, "  abcde-fghjk-lmnpq-rstvw-xyz23 ")
		if err != nil {
			t.Fatalf("FindByKey() error = %v", err)
		}
		if got == nil || got.ID() != 1 {
			t.Errorf("FindByKey() = %v, want candidate 1", got)
		}
	})

	t.Run("verifies every candidate even after a match", func(t *testing.T) {
		// The matching candidate comes first; the loop must still verify
		// the rest so timing does not reveal which candidate matched.
		repo := &fakeLicenseRepo{candidates: []*License{
			reconstructCandidate(t, 1, key),
			reconstructCandidate(t, 2, other),
			reconstructCandidate(t, 3, "ABCDE-FG888-88888-88888-88888"),
		}}
		hasher := &countingKeyHasher{}
		lookup := NewLookup(repo, hasher)

		got, err := lookup.FindByKey(ctx, key)
		if err != nil {
			t.Fatalf("FindByKey() error = %v", err)
		}
		if got == nil || got.ID() != 1 {
			t.Fatalf("FindByKey() = %v, want candidate 1", got)
		}
		if hasher.verifyCalls != len(repo.candidates) {
			t.Errorf("Verify called %d times, want %d", hasher.verifyCalls, len(repo.candidates))
		}
	})

	t.Run("no match is a plain miss, not an error", func(t *testing.T) {
		repo := &fakeLicenseRepo{candidates: []*License{reconstructCandidate(t, 1, other)}}
		lookup := NewLookup(repo, fakeKeyHasher{})

		got, err := lookup.FindByKey(ctx, key)
		if err != nil {
			t.Fatalf("FindByKey() error = %v", err)
		}
		if got != nil {
			t.Errorf("FindByKey() = %v, want nil", got)
		}
	})

	t.Run("empty key short-circuits", func(t *testing.T) {
		lookup := NewLookup(&fakeLicenseRepo{}, fakeKeyHasher{})

		got, err := lookup.FindByKey(ctx, "   ")
		if err != nil || got != nil {
			t.Errorf("FindByKey(blank) = (%v, %v), want (nil, nil)", got, err)
		}
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		repoErr := errors.New("connection refused")
		lookup := NewLookup(&fakeLicenseRepo{err: repoErr}, fakeKeyHasher{})

		_, err := lookup.FindByKey(ctx, key)
		if !errors.Is(err, repoErr) {
			t.Errorf("FindByKey() error = %v, want wrapped %v", err, repoErr)
		}
	})
}
