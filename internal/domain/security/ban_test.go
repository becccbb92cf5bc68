package security

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    string
	}{
		{"lowercases", "User@Example.COM", "user@example.com"},
		{"trims whitespace", "  alice@example.com  ", "alice@example.com"},
		{"already normalized", "bob@example.com", "bob@example.com"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSubject(tt.subject); got != tt.want {
				t.Errorf("NormalizeSubject(%q) = %q, want %q", tt.subject, got, tt.want)
			}
		})
	}
}

func TestNewBan_Validation(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		banCount int
		duration time.Duration
		wantErr  bool
	}{
		{"valid", "user@example.com", 1, 30 * time.Minute, false},
		{"empty subject", "", 1, 30 * time.Minute, true},
		{"whitespace-only subject", "   ", 1, 30 * time.Minute, true},
		{"zero ban count", "user@example.com", 0, 30 * time.Minute, true},
		{"negative ban count", "user@example.com", -1, 30 * time.Minute, true},
		{"zero duration", "user@example.com", 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBan(tt.subject, tt.banCount, tt.duration, "too many failures", "203.0.113.1", "curl/8.0")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBan() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewBan_NormalizesSubject(t *testing.T) {
	b, err := NewBan("  User@Example.COM ", 1, time.Hour, "", "", "")
	if err != nil {
		t.Fatalf("NewBan() error = %v", err)
	}
	if b.Subject() != "user@example.com" {
		t.Errorf("Subject() = %q, want %q", b.Subject(), "user@example.com")
	}
}

func TestBan_IsActiveAndRemaining(t *testing.T) {
	b, err := NewBan("user@example.com", 1, time.Hour, "", "", "")
	if err != nil {
		t.Fatalf("NewBan() error = %v", err)
	}

	if !b.IsActive() {
		t.Error("fresh ban should be active")
	}
	if rem := b.Remaining(); rem <= 0 || rem > time.Hour {
		t.Errorf("Remaining() = %v, want within (0, 1h]", rem)
	}

	expired, err := ReconstructBan(1, "user@example.com", 1,
		time.Now().UTC().Add(-time.Minute), "", "", "", false,
		time.Now().UTC().Add(-2*time.Hour), time.Now().UTC().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("ReconstructBan() error = %v", err)
	}
	if expired.IsActive() {
		t.Error("expired ban should not be active")
	}
	if rem := expired.Remaining(); rem != 0 {
		t.Errorf("Remaining() on expired ban = %v, want 0", rem)
	}
}

func TestBan_ResetCountKeepsLockout(t *testing.T) {
	b, err := NewBan("user@example.com", 4, time.Hour, "", "", "")
	if err != nil {
		t.Fatalf("NewBan() error = %v", err)
	}

	b.ResetCount()

	if b.BanCount() != 0 {
		t.Errorf("BanCount() after reset = %d, want 0", b.BanCount())
	}
	if !b.IsActive() {
		t.Error("resetting the count must not lift the active lockout")
	}
}

func TestBan_RemoveLockoutKeepsCount(t *testing.T) {
	b, err := NewBan("user@example.com", 3, time.Hour, "", "", "")
	if err != nil {
		t.Fatalf("NewBan() error = %v", err)
	}

	if err := b.RemoveLockout(); err != nil {
		t.Fatalf("RemoveLockout() error = %v", err)
	}

	if b.IsActive() {
		t.Error("removed lockout should not be active")
	}
	if b.BanCount() != 3 {
		t.Errorf("BanCount() after removal = %d, want 3 (count is kept for escalation)", b.BanCount())
	}
	if !b.Removed() {
		t.Error("Removed() should be true after RemoveLockout")
	}
}

func TestBan_RemoveLockoutOnInactiveBan(t *testing.T) {
	expired, err := ReconstructBan(1, "user@example.com", 2,
		time.Now().UTC().Add(-time.Minute), "", "", "", false,
		time.Now().UTC(), time.Now().UTC())
	if err != nil {
		t.Fatalf("ReconstructBan() error = %v", err)
	}

	if err := expired.RemoveLockout(); !errors.Is(err, ErrBanNotActive) {
		t.Errorf("RemoveLockout() on expired ban error = %v, want ErrBanNotActive", err)
	}
}

func TestReconstructBan_Validation(t *testing.T) {
	now := time.Now().UTC()

	if _, err := ReconstructBan(0, "user@example.com", 1, now, "", "", "", false, now, now); err == nil {
		t.Error("ReconstructBan() with zero ID should fail")
	}
	if _, err := ReconstructBan(1, "", 1, now, "", "", "", false, now, now); err == nil {
		t.Error("ReconstructBan() with empty subject should fail")
	}
}
