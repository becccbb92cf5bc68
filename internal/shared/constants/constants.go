package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderUserAgent     = "User-Agent"
	HeaderAttestation   = "X-Auth-Attestation"

	// Content Types
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"

	// Context keys
	ContextKeyAdminID   = "admin_id"
	ContextKeySessionID = "session_id"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableLicenses       = "licenses"
	TableActivations    = "license_activations"
	TableBans           = "account_bans"
	TableFailedAttempts = "failed_login_attempts"
	TableRateLimits     = "rate_limits"
	TableAuditLogs      = "license_audit_logs"
	TableAdminSessions  = "admin_sessions"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
)
