package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SCRY_SERVER_PORT.
const EnvPrefix = "SCRY"

var defaults = map[string]interface{}{
	"server.port":                        8080,
	"server.log_level":                   "info",
	"server.shutdown_timeout_seconds":    15,
	"server.cors_allowed_origins":        []string{"*"},
	"database.url":                       "",
	"database.max_open_conns":            25,
	"database.max_idle_conns":            25,
	"database.conn_max_lifetime_minutes": 5,
	"api.max_batch_size":                 100,
	"api.default_page_size":              50,
	"api.max_page_size":                  200,
	"api.due_list_limit":                 100,
}

// Options controls where Load looks for configuration besides the environment.
type Options struct {
	// ConfigFile is an explicit YAML file. Empty means look for config.yaml
	// in ConfigPaths and skip it when missing.
	ConfigFile  string
	ConfigPaths []string
	// EnvFiles are loaded with godotenv before reading the environment.
	// Missing files are ignored. Variables already set are not overridden.
	EnvFiles []string
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithOptions(Options{
		ConfigPaths: []string{"."},
		EnvFiles:    []string{".env"},
	})
}

// LoadWithOptions is Load with explicit file locations.
func LoadWithOptions(opts Options) (*Config, error) {
	for _, f := range opts.EnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	} else if len(opts.ConfigPaths) > 0 {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range opts.ConfigPaths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
