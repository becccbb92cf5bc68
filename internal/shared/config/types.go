package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// HashingConfig controls license key and machine fingerprint hashing.
// FingerprintSecret is the server-side secret used to salt fingerprint
// hashes; it must never be exposed to clients.
type HashingConfig struct {
	BcryptCost        int    `mapstructure:"bcrypt_cost" validate:"min=4,max=31"`
	FingerprintSecret string `mapstructure:"fingerprint_secret" validate:"required"`
}

// LockoutConfig tunes the progressive ban engine.
// BanDurationsMinutes is the escalating schedule; the last entry is the
// plateau applied to all subsequent bans.
type LockoutConfig struct {
	MaxFailedAttempts   int   `mapstructure:"max_failed_attempts" validate:"min=1"`
	LookbackMinutes     int   `mapstructure:"lookback_minutes" validate:"min=1"`
	BanDurationsMinutes []int `mapstructure:"ban_durations_minutes" validate:"min=1,dive,min=1"`
}

// RateLimitRule is one endpoint-class limit.
type RateLimitRule struct {
	MaxRequests   int `mapstructure:"max_requests" validate:"min=1"`
	WindowSeconds int `mapstructure:"window_seconds" validate:"min=1"`
}

type RateLimitConfig struct {
	Validation RateLimitRule `mapstructure:"validation"`
	Activation RateLimitRule `mapstructure:"activation"`
	Login      RateLimitRule `mapstructure:"login"`
}

// SessionConfig tunes admin session rotation, expiry and anomaly scoring.
// AttestationSecret is shared with the upstream authenticator; session
// creation refuses requests that do not carry it.
type SessionConfig struct {
	RotationMinutes    int      `mapstructure:"rotation_minutes" validate:"min=1"`
	IdleTimeoutMinutes int      `mapstructure:"idle_timeout_minutes" validate:"min=1"`
	SuspicionThreshold int      `mapstructure:"suspicion_threshold" validate:"min=1"`
	JWTSecret          string   `mapstructure:"jwt_secret" validate:"required"`
	AttestationSecret  string   `mapstructure:"attestation_secret" validate:"required"`
	MaliciousCIDRs     []string `mapstructure:"malicious_cidrs" validate:"dive,cidr"`
}

type SecurityConfig struct {
	Hashing   HashingConfig   `mapstructure:"hashing"`
	Lockout   LockoutConfig   `mapstructure:"lockout"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Session   SessionConfig   `mapstructure:"session"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

// AlertConfig configures outbound security alerting. Both channels are
// fire-and-forget; delivery failure never fails the triggering request.
type AlertConfig struct {
	WebhookURL     string   `mapstructure:"webhook_url"`
	WebhookTimeout int      `mapstructure:"webhook_timeout_seconds"`
	EmailTo        string   `mapstructure:"email_to"`
	EnabledEvents  []string `mapstructure:"enabled_events"`
}
