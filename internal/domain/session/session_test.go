package session

import (
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	s, err := NewSession(42, "203.0.113.1", "Mozilla/5.0 Chrome/120")
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if len(s.ID) != 64 {
		t.Errorf("session ID length = %d, want 64 hex chars", len(s.ID))
	}
	if s.AdminID != 42 {
		t.Errorf("AdminID = %d, want 42", s.AdminID)
	}
	if s.Suspicious {
		t.Error("new session should not be suspicious")
	}

	if _, err := NewSession(0, "", ""); err == nil {
		t.Error("NewSession() with zero admin ID should fail")
	}
}

func TestSession_IsIdleExpired(t *testing.T) {
	s, err := NewSession(1, "", "")
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if s.IsIdleExpired(30 * time.Minute) {
		t.Error("fresh session should not be idle-expired")
	}

	s.LastActivityAt = time.Now().UTC().Add(-time.Hour)
	if !s.IsIdleExpired(30 * time.Minute) {
		t.Error("session idle for an hour should be expired under a 30m timeout")
	}
	if s.IsIdleExpired(2 * time.Hour) {
		t.Error("session idle for an hour should survive a 2h timeout")
	}
}

func TestSession_Rotate(t *testing.T) {
	s, err := NewSession(1, "203.0.113.1", "ua")
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if s.NeedsRotation(time.Hour) {
		t.Error("fresh session should not need rotation")
	}

	s.RotatedAt = time.Now().UTC().Add(-2 * time.Hour)
	if !s.NeedsRotation(time.Hour) {
		t.Error("session rotated two hours ago should need rotation")
	}

	s.AnomalyCount = 2
	before := s.ID
	oldID, err := s.Rotate()
	if err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if oldID != before {
		t.Errorf("Rotate() returned %q, want previous ID %q", oldID, before)
	}
	if s.ID == before {
		t.Error("Rotate() should issue a new identifier")
	}
	if s.NeedsRotation(time.Hour) {
		t.Error("just-rotated session should not need rotation")
	}
	if s.AnomalyCount != 2 {
		t.Error("anomaly state must carry over across rotation")
	}
}

func TestSession_RecordAnomalies(t *testing.T) {
	tests := []struct {
		name           string
		scores         []int
		threshold      int
		wantCount      int
		wantSuspicious bool
	}{
		{"below threshold accumulates", []int{1, 1}, 3, 2, false},
		{"single evaluation at threshold flags", []int{3}, 3, 3, true},
		{"accumulation alone does not flag", []int{2, 2}, 3, 4, false},
		{"flag is sticky", []int{3, 0}, 3, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSession(1, "", "")
			if err != nil {
				t.Fatalf("NewSession() error = %v", err)
			}
			for _, score := range tt.scores {
				s.RecordAnomalies(score, tt.threshold)
			}
			if s.AnomalyCount != tt.wantCount {
				t.Errorf("AnomalyCount = %d, want %d", s.AnomalyCount, tt.wantCount)
			}
			if s.Suspicious != tt.wantSuspicious {
				t.Errorf("Suspicious = %v, want %v", s.Suspicious, tt.wantSuspicious)
			}
		})
	}
}
