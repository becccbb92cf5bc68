package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	sharedConfig "licentia/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Security sharedConfig.SecurityConfig `mapstructure:"security"`
	Email    sharedConfig.EmailConfig    `mapstructure:"email"`
	Alert    sharedConfig.AlertConfig    `mapstructure:"alert"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex

	validate = validator.New()
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("LICENTIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env vars are enough to run.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "licentia_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.enabled", true)

	// Security defaults
	viper.SetDefault("security.hashing.bcrypt_cost", 12)
	viper.SetDefault("security.hashing.fingerprint_secret", "change-me-in-production")
	viper.SetDefault("security.lockout.max_failed_attempts", 5)
	viper.SetDefault("security.lockout.lookback_minutes", 15)
	viper.SetDefault("security.lockout.ban_durations_minutes", []int{30, 120, 480, 1440, 4320, 10080})
	viper.SetDefault("security.rate_limit.validation.max_requests", 60)
	viper.SetDefault("security.rate_limit.validation.window_seconds", 60)
	viper.SetDefault("security.rate_limit.activation.max_requests", 10)
	viper.SetDefault("security.rate_limit.activation.window_seconds", 60)
	viper.SetDefault("security.rate_limit.login.max_requests", 5)
	viper.SetDefault("security.rate_limit.login.window_seconds", 60)
	viper.SetDefault("security.session.rotation_minutes", 120)
	viper.SetDefault("security.session.idle_timeout_minutes", 480)
	viper.SetDefault("security.session.suspicion_threshold", 3)
	viper.SetDefault("security.session.jwt_secret", "change-me-in-production")
	viper.SetDefault("security.session.attestation_secret", "change-me-in-production")

	// Email defaults
	viper.SetDefault("email.smtp_host", "localhost")
	viper.SetDefault("email.smtp_port", 1025)
	viper.SetDefault("email.smtp_user", "")
	viper.SetDefault("email.smtp_password", "")
	viper.SetDefault("email.from_address", "noreply@licentia.local")
	viper.SetDefault("email.from_name", "Licentia")

	// Alert defaults
	viper.SetDefault("alert.webhook_url", "")
	viper.SetDefault("alert.webhook_timeout_seconds", 5)
	viper.SetDefault("alert.email_to", "")
	viper.SetDefault("alert.enabled_events", []string{
		"account_banned", "session_suspicious", "repeated_invalid_key", "cache_degraded",
	})
}
