package alert

import "time"

// EventType identifies the class of security event behind an alert.
type EventType string

const (
	EventAccountBanned      EventType = "account_banned"
	EventSessionSuspicious  EventType = "session_suspicious"
	EventRepeatedInvalidKey EventType = "repeated_invalid_key"
	EventCacheDegraded      EventType = "cache_degraded"
)

// Event is one security occurrence worth surfacing to operators.
type Event struct {
	Type       EventType         `json:"type"`
	Subject    string            `json:"subject,omitempty"`
	LicenseSID string            `json:"license_sid,omitempty"`
	IPAddress  string            `json:"ip_address,omitempty"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Notifier delivers one event over a single channel.
type Notifier interface {
	Notify(event Event) error
}
