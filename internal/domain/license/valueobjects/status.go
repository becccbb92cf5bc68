package valueobjects

import "fmt"

// LicenseStatus represents the lifecycle status of a license
type LicenseStatus string

const (
	StatusActive    LicenseStatus = "active"
	StatusSuspended LicenseStatus = "suspended"
	StatusRevoked   LicenseStatus = "revoked"
	StatusExpired   LicenseStatus = "expired"
	StatusDisputed  LicenseStatus = "disputed"
)

// IsValid checks if the status is a known value
func (s LicenseStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusRevoked, StatusExpired, StatusDisputed:
		return true
	}
	return false
}

func (s LicenseStatus) String() string {
	return string(s)
}

// IsUsable reports whether a license in this status may validate or activate.
func (s LicenseStatus) IsUsable() bool {
	return s == StatusActive
}

// validTransitions maps each status to the statuses it may move to.
// Revoked is terminal.
var validTransitions = map[LicenseStatus][]LicenseStatus{
	StatusActive:    {StatusSuspended, StatusRevoked, StatusExpired, StatusDisputed},
	StatusSuspended: {StatusActive, StatusRevoked, StatusExpired},
	StatusExpired:   {StatusActive, StatusRevoked},
	StatusDisputed:  {StatusActive, StatusSuspended, StatusRevoked},
	StatusRevoked:   {},
}

// CanTransitionTo checks if the status can move to the target status
func (s LicenseStatus) CanTransitionTo(target LicenseStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ParseLicenseStatus parses a string into a LicenseStatus
func ParseLicenseStatus(s string) (LicenseStatus, error) {
	status := LicenseStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid license status: %s", s)
	}
	return status, nil
}
