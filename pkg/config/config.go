package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	Server     ServerConfig
	Auth       AuthConfig
	Pagination PaginationConfig
	Logging    LoggingConfig
	Telemetry  TelemetryConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL     string
	Enabled bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	MaxBodyBytes int64
}

// AuthConfig holds credential and token configuration
type AuthConfig struct {
	Secret           string
	TokenTTL         time.Duration
	PasswordLength   int
	RequireReplyAuth bool
}

// PaginationConfig holds pagination configuration
type PaginationConfig struct {
	PageSize int
	MaxLimit int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// TelemetryConfig holds observability configuration
type TelemetryConfig struct {
	Enabled           bool
	JaegerURL         string
	PrometheusEnabled bool
	PrometheusPort    int
	ServiceName       string
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	// Load from environment
	viper.SetEnvPrefix("LETTERBOX")
	viper.AutomaticEnv()

	// Load from config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.letterbox")
	viper.AddConfigPath("/etc/letterbox")

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found; this is OK if we have env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Path: getString("database_path", "letterbox.db"),
		},
		Redis: RedisConfig{
			URL:     getString("redis_url", ""),
			Enabled: getString("redis_url", "") != "",
		},
		Server: ServerConfig{
			Port:         getInt("http_server_port", 8080),
			Host:         getString("http_server_host", "0.0.0.0"),
			MaxBodyBytes: int64(getInt("max_body_bytes", 128*1024)),
		},
		Auth: AuthConfig{
			Secret:           getString("auth_secret", ""),
			TokenTTL:         time.Duration(getInt("token_ttl_hours", 168)) * time.Hour,
			PasswordLength:   getInt("password_length", 20),
			RequireReplyAuth: getBool("require_reply_auth", false),
		},
		Pagination: PaginationConfig{
			PageSize: getInt("page_size", 20),
			MaxLimit: getInt("max_limit", 100),
		},
		Logging: LoggingConfig{
			Level:  getString("log_level", "INFO"),
			Format: getString("log_format", "json"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           getBool("telemetry_enabled", false),
			JaegerURL:         getString("jaeger_url", ""),
			PrometheusEnabled: getBool("prometheus_enabled", false),
			PrometheusPort:    getInt("prometheus_port", 9090),
			ServiceName:       getString("service_name", "letterbox"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("database_path", "letterbox.db")
	viper.SetDefault("http_server_port", 8080)
	viper.SetDefault("http_server_host", "0.0.0.0")
	viper.SetDefault("max_body_bytes", 128*1024)
	viper.SetDefault("token_ttl_hours", 168)
	viper.SetDefault("password_length", 20)
	viper.SetDefault("require_reply_auth", false)
	viper.SetDefault("page_size", 20)
	viper.SetDefault("max_limit", 100)
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("log_format", "json")
	viper.SetDefault("telemetry_enabled", false)
	viper.SetDefault("prometheus_enabled", false)
	viper.SetDefault("prometheus_port", 9090)
	viper.SetDefault("service_name", "letterbox")
}

func getString(key, defaultValue string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	// Also check environment variable directly
	if val := os.Getenv("LETTERBOX_" + toEnvKey(key)); val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	if val := os.Getenv("LETTERBOX_" + toEnvKey(key)); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	if val := os.Getenv("LETTERBOX_" + toEnvKey(key)); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultValue
}

func toEnvKey(key string) string {
	// Convert snake_case to UPPER_SNAKE_CASE
	result := ""
	for i, r := range key {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result += "_"
		}
		if r == '-' || r == '_' {
			result += "_"
		} else {
			result += string(r)
		}
	}
	return result
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth_secret is required")
	}
	if c.Auth.PasswordLength < 12 || c.Auth.PasswordLength > 128 {
		return fmt.Errorf("password_length must be between 12 and 128")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl_hours must be positive")
	}
	if c.Pagination.PageSize <= 0 || c.Pagination.PageSize > 1000 {
		return fmt.Errorf("page_size must be between 1 and 1000")
	}
	if c.Pagination.MaxLimit < 1 || c.Pagination.MaxLimit > 1000 {
		return fmt.Errorf("max_limit must be between 1 and 1000")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}

// GetDuration returns a duration from config key, with default
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return defaultValue
}
