package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// Security-specific error types
const (
	ErrorTypeInvalidCredential     ErrorType = "invalid_credential"
	ErrorTypeAccountLocked         ErrorType = "account_locked"
	ErrorTypeRateLimited           ErrorType = "rate_limited"
	ErrorTypeMaxActivations        ErrorType = "max_activations_reached"
	ErrorTypeLicenseInvalidState   ErrorType = "license_invalid_state"
	ErrorTypeStorageUnavailable    ErrorType = "storage_unavailable"
	ErrorTypeSessionExpired        ErrorType = "session_expired"
	ErrorTypeSessionSuspicious     ErrorType = "session_suspicious"
)

// SecurityError wraps AppError with security handling context.
type SecurityError struct {
	*AppError
	// ShouldLog determines if this error should be logged.
	// Expected failures (invalid key on a public endpoint) stay out of the
	// error log; the audit trail still records them.
	ShouldLog bool
	// SecurityEvent indicates if this should be tracked for alerting
	SecurityEvent bool
}

// Error implements the error interface
func (e *SecurityError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *SecurityError) Unwrap() error {
	return e.AppError
}

// NewInvalidCredentialError creates an error for an unknown or wrong
// license key or password. The message never reveals which of the two it
// was, so callers cannot enumerate valid subjects.
func NewInvalidCredentialError() *SecurityError {
	return &SecurityError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidCredential,
			Message: "Invalid credentials",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: true,
	}
}

// NewAccountLockedError creates an error for an active progressive ban.
// remaining is rendered into the user-facing detail text.
func NewAccountLockedError(remaining time.Duration) *SecurityError {
	return &SecurityError{
		AppError: &AppError{
			Type:    ErrorTypeAccountLocked,
			Message: "Account is temporarily locked",
			Code:    http.StatusForbidden,
			Details: fmt.Sprintf("Too many failed attempts. Try again in %s", formatRemaining(remaining)),
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewRateLimitedError creates an error for an exhausted rate-limit window.
func NewRateLimitedError(resetAt time.Time) *SecurityError {
	return &SecurityError{
		AppError: &AppError{
			Type:    ErrorTypeRateLimited,
			Message: "Too many requests",
			Code:    http.StatusTooManyRequests,
			Details: fmt.Sprintf("Rate limit exceeded. Resets at %s", resetAt.UTC().Format(time.RFC3339)),
		},
		ShouldLog:     false,
		SecurityEvent: true,
	}
}

// NewMaxActivationsError creates an error when a license has no free
// activation slots left.
func NewMaxActivationsError(maxActivations int) *SecurityError {
	return &SecurityError{
		AppError: &AppError{
			Type:    ErrorTypeMaxActivations,
			Message: "Maximum activations reached",
			Code:    http.StatusConflict,
			Details: fmt.Sprintf("This license allows at most %d active machines", maxActivations),
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewLicenseInvalidStateError creates an error for a license that exists
// but is not usable (expired, suspended, revoked, disputed).
func NewLicenseInvalidStateError(status string) *SecurityError {
	return &SecurityError{
		AppError: &AppError{
			Type:    ErrorTypeLicenseInvalidState,
			Message: "License is not active",
			Code:    http.StatusForbidden,
			Details: fmt.Sprintf("License status is %s", status),
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewStorageUnavailableError creates an error for an unreachable backing
// store. Cache-layer occurrences are recovered by fallback and never reach
// the caller; relational-layer occurrences are fatal to the request.
func NewStorageUnavailableError(backend string, cause error) *SecurityError {
	detail := backend + " unavailable"
	if cause != nil {
		detail = fmt.Sprintf("%s unavailable: %v", backend, cause)
	}
	return &SecurityError{
		AppError: &AppError{
			Type:    ErrorTypeStorageUnavailable,
			Message: "Service temporarily unavailable",
			Code:    http.StatusServiceUnavailable,
			Details: detail,
		},
		ShouldLog:     true,
		SecurityEvent: false,
	}
}

// NewSessionExpiredError creates an error for an expired or idle session.
func NewSessionExpiredError() *SecurityError {
	return &SecurityError{
		AppError: &AppError{
			Type:    ErrorTypeSessionExpired,
			Message: "Session has expired",
			Code:    http.StatusUnauthorized,
			Details: "Please login again",
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewSessionSuspiciousError creates an error for a session that crossed the
// anomaly threshold and must re-authenticate.
func NewSessionSuspiciousError() *SecurityError {
	return &SecurityError{
		AppError: &AppError{
			Type:    ErrorTypeSessionSuspicious,
			Message: "Session verification required",
			Code:    http.StatusUnauthorized,
			Details: "Please login again",
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// IsSecurityError checks if the error is a SecurityError (supports wrapped errors)
func IsSecurityError(err error) bool {
	var secErr *SecurityError
	return stderrors.As(err, &secErr)
}

// GetSecurityError extracts a SecurityError from the error chain
func GetSecurityError(err error) *SecurityError {
	var secErr *SecurityError
	if stderrors.As(err, &secErr) {
		return secErr
	}
	return nil
}

// ShouldLogSecurityError returns true if the error should be logged.
// Defaults to logging for anything that is not a SecurityError.
func ShouldLogSecurityError(err error) bool {
	if secErr := GetSecurityError(err); secErr != nil {
		return secErr.ShouldLog
	}
	return true
}

// IsSecurityEvent returns true if the error should be tracked for alerting
func IsSecurityEvent(err error) bool {
	if secErr := GetSecurityError(err); secErr != nil {
		return secErr.SecurityEvent
	}
	return false
}

// formatRemaining renders a lockout duration in the coarsest sensible unit.
func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "a moment"
	}
	switch {
	case d >= 48*time.Hour:
		return fmt.Sprintf("%d days", int(d.Hours()/24))
	case d >= 2*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d >= 2*time.Minute:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	default:
		return "1 minute"
	}
}
