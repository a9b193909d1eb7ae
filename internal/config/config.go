package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	API      APIConfig      `mapstructure:"api" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
// ShutdownTimeoutSeconds bounds how long in-flight requests may run after a
// shutdown signal. CORSAllowedOrigins is comma-separated in the environment.
type ServerConfig struct {
	Port                   int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
	CORSAllowedOrigins     []string `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// APIConfig bounds request sizes and listing pages.
type APIConfig struct {
	MaxBatchSize    int `mapstructure:"max_batch_size" validate:"gte=1"`
	DefaultPageSize int `mapstructure:"default_page_size" validate:"gte=1,ltefield=MaxPageSize"`
	MaxPageSize     int `mapstructure:"max_page_size" validate:"gte=1"`
	DueListLimit    int `mapstructure:"due_list_limit" validate:"gte=1"`
}
