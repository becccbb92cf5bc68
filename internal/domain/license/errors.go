package license

import (
	"errors"
	"fmt"

	"licentia/internal/domain/license/valueobjects"
)

var (
	// ErrLicenseNotFound is returned when a license is not found
	ErrLicenseNotFound = errors.New("license not found")

	// ErrActivationNotFound is returned when an activation is not found
	ErrActivationNotFound = errors.New("activation not found")

	// ErrMaxActivationsReached is returned when a license has no free activation slots
	ErrMaxActivationsReached = errors.New("maximum activations reached")

	// ErrLicenseNotActive is returned when a license is expired, suspended, revoked or disputed
	ErrLicenseNotActive = errors.New("license is not active")

	// ErrActivationAlreadyRevoked is returned when revoking an already-revoked activation
	ErrActivationAlreadyRevoked = errors.New("activation already revoked")

	// ErrMachineBindingRequired is returned when a license requires a machine
	// identifier and none was supplied
	ErrMachineBindingRequired = errors.New("machine binding required")
)

// ErrInvalidStatusTransition returns an error for invalid status transitions
func ErrInvalidStatusTransition(from, to valueobjects.LicenseStatus) error {
	return fmt.Errorf("invalid status transition from %s to %s", from, to)
}
