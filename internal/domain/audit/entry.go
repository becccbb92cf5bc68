package audit

import (
	"fmt"
	"time"

	"licentia/internal/shared/biztime"
	"licentia/internal/shared/utils"
)

// Action identifies a security-relevant operation in the audit trail.
type Action string

const (
	ActionLicenseIssued      Action = "license_issued"
	ActionLicenseValidated   Action = "license_validated"
	ActionLicenseActivated   Action = "license_activated"
	ActionLicenseDeactivated Action = "license_deactivated"
	ActionLicenseRevoked     Action = "license_revoked"
	ActionLicenseSuspended   Action = "license_suspended"
	ActionLicenseResumed     Action = "license_resumed"
	ActionLoginFailed        Action = "login_failed"
	ActionAccountBanned      Action = "account_banned"
	ActionBanReset           Action = "ban_reset"
	ActionBanRemoved         Action = "ban_removed"
	ActionRateLimited        Action = "rate_limited"
	ActionSessionCreated     Action = "session_created"
	ActionSessionRotated     Action = "session_rotated"
	ActionSessionExpired     Action = "session_expired"
	ActionSessionSuspicious  Action = "session_suspicious"
	ActionCacheDegraded      Action = "cache_degraded"
)

// Entry is one append-only audit record. Sensitive values must pass through
// the redacting setters; full plaintext secrets never appear in any field.
type Entry struct {
	id            uint
	action        Action
	success       bool
	failureReason string
	subject       string // masked email or redacted identifier
	licenseSID    string
	ipAddress     string
	userAgent     string
	metadata      map[string]any
	createdAt     time.Time
}

// NewEntry creates an audit entry for the given action.
func NewEntry(action Action, success bool) (*Entry, error) {
	if action == "" {
		return nil, fmt.Errorf("action is required")
	}
	return &Entry{
		action:    action,
		success:   success,
		metadata:  make(map[string]any),
		createdAt: biztime.NowUTC(),
	}, nil
}

// ReconstructEntry reconstructs an entry from persistence
func ReconstructEntry(
	entryID uint,
	action Action,
	success bool,
	failureReason, subject, licenseSID, ipAddress, userAgent string,
	metadata map[string]any,
	createdAt time.Time,
) *Entry {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &Entry{
		id:            entryID,
		action:        action,
		success:       success,
		failureReason: failureReason,
		subject:       subject,
		licenseSID:    licenseSID,
		ipAddress:     ipAddress,
		userAgent:     userAgent,
		metadata:      metadata,
		createdAt:     createdAt,
	}
}

func (e *Entry) ID() uint              { return e.id }
func (e *Entry) Action() Action        { return e.action }
func (e *Entry) Success() bool         { return e.success }
func (e *Entry) FailureReason() string { return e.failureReason }
func (e *Entry) Subject() string       { return e.subject }
func (e *Entry) LicenseSID() string    { return e.licenseSID }
func (e *Entry) IPAddress() string     { return e.ipAddress }
func (e *Entry) UserAgent() string     { return e.userAgent }
func (e *Entry) CreatedAt() time.Time  { return e.createdAt }

// Metadata returns a copy of the free-form metadata.
func (e *Entry) Metadata() map[string]any {
	out := make(map[string]any, len(e.metadata))
	for k, v := range e.metadata {
		out[k] = v
	}
	return out
}

// WithFailureReason records why the operation failed.
func (e *Entry) WithFailureReason(reason string) *Entry {
	e.failureReason = reason
	return e
}

// WithSubjectEmail records a masked email as the acting subject.
func (e *Entry) WithSubjectEmail(email string) *Entry {
	e.subject = utils.MaskEmail(email)
	return e
}

// WithLicense records the license's public identifier. SIDs are not
// secrets; they carry no key material.
func (e *Entry) WithLicense(licenseSID string) *Entry {
	e.licenseSID = licenseSID
	return e
}

// WithRequest records the requester's network metadata.
func (e *Entry) WithRequest(ipAddress, userAgent string) *Entry {
	e.ipAddress = ipAddress
	e.userAgent = userAgent
	return e
}

// WithMeta attaches a non-sensitive metadata value.
func (e *Entry) WithMeta(key string, value any) *Entry {
	e.metadata[key] = value
	return e
}

// WithSecretMeta attaches a sensitive value, truncated to its correlation
// prefix before it ever reaches storage.
func (e *Entry) WithSecretMeta(key, value string) *Entry {
	e.metadata[key] = utils.Redact(value)
	return e
}
