package utils

import "strings"

// MaskEmail masks an email address for safe logging.
// Example: "user@example.com" -> "u***@example.com"
func MaskEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return "***"
	}
	local := parts[0]
	if len(local) <= 1 {
		return local + "***@" + parts[1]
	}
	return string(local[0]) + "***@" + parts[1]
}

// RedactPrefixLength is the number of leading characters retained when a
// sensitive value is written to logs or the audit trail. Long enough to
// correlate entries, far too short to reconstruct the value.
const RedactPrefixLength = 12

// Redact truncates a sensitive value to its correlation prefix.
// Returns "***" for values too short to truncate meaningfully.
func Redact(value string) string {
	if len(value) <= RedactPrefixLength {
		return "***"
	}
	return value[:RedactPrefixLength] + "..."
}
