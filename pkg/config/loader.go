package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/nimburion/zipcodes/pkg/observability/logger"
)

// Loader defines the interface for loading configuration.
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper.
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a new ViperLoader.
// configFile is optional; envPrefix is the prefix for environment variables
// (e.g. "ZIPCODES").
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
	}
}

// Load loads configuration with precedence: ENV > file > defaults.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	l.setDefaults(v, defaults)

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded configuration for values the service cannot run with.
func (l *ViperLoader) Validate(cfg *Config) error {
	if cfg.Service.Name == "" {
		return fmt.Errorf("service.name is required")
	}
	switch cfg.RouterType {
	case "gin", "gorilla":
	default:
		return fmt.Errorf("router_type must be gin or gorilla, got %q", cfg.RouterType)
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", cfg.HTTP.Port)
	}
	if _, err := logger.ParseLogLevel(string(cfg.Logging.Level)); err != nil {
		return err
	}
	if _, err := logger.ParseLogFormat(string(cfg.Logging.Format)); err != nil {
		return err
	}
	if cfg.MongoDB.URL == "" {
		return fmt.Errorf("mongodb.url is required")
	}
	if cfg.MongoDB.Database == "" {
		return fmt.Errorf("mongodb.database is required")
	}
	if cfg.Pagination.DefaultPerPage < 1 {
		return fmt.Errorf("pagination.default_per_page must be at least 1, got %d", cfg.Pagination.DefaultPerPage)
	}
	if cfg.Pagination.MaxPerPage < cfg.Pagination.DefaultPerPage {
		return fmt.Errorf("pagination.max_per_page must not be below default_per_page")
	}
	return nil
}

// setDefaults seeds viper with the default configuration so that partial
// config files and environments still produce a complete Config.
func (l *ViperLoader) setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("service.name", defaults.Service.Name)
	v.SetDefault("service.environment", defaults.Service.Environment)
	v.SetDefault("router_type", defaults.RouterType)
	v.SetDefault("http.port", defaults.HTTP.Port)
	v.SetDefault("http.read_timeout", defaults.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", defaults.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", defaults.HTTP.IdleTimeout)
	v.SetDefault("logging.level", string(defaults.Logging.Level))
	v.SetDefault("logging.format", string(defaults.Logging.Format))
	v.SetDefault("mongodb.url", defaults.MongoDB.URL)
	v.SetDefault("mongodb.database", defaults.MongoDB.Database)
	v.SetDefault("mongodb.connect_timeout", defaults.MongoDB.ConnectTimeout)
	v.SetDefault("mongodb.operation_timeout", defaults.MongoDB.OperationTimeout)
	v.SetDefault("pagination.default_per_page", defaults.Pagination.DefaultPerPage)
	v.SetDefault("pagination.max_per_page", defaults.Pagination.MaxPerPage)
}

// bindEnvVars explicitly binds environment variables for nested keys.
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	v.BindEnv("service.name", l.prefixedEnv("SERVICE_NAME"))
	v.BindEnv("service.environment", l.prefixedEnv("SERVICE_ENVIRONMENT"), l.prefixedEnv("ENVIRONMENT"))
	v.BindEnv("router_type", l.prefixedEnv("ROUTER_TYPE"))

	v.BindEnv("http.port", l.prefixedEnv("HTTP_PORT"))
	v.BindEnv("http.read_timeout", l.prefixedEnv("HTTP_READ_TIMEOUT"))
	v.BindEnv("http.write_timeout", l.prefixedEnv("HTTP_WRITE_TIMEOUT"))
	v.BindEnv("http.idle_timeout", l.prefixedEnv("HTTP_IDLE_TIMEOUT"))

	v.BindEnv("logging.level", l.prefixedEnv("LOG_LEVEL"))
	v.BindEnv("logging.format", l.prefixedEnv("LOG_FORMAT"))

	v.BindEnv("mongodb.url", l.prefixedEnv("MONGODB_URL"))
	v.BindEnv("mongodb.database", l.prefixedEnv("MONGODB_DATABASE"))
	v.BindEnv("mongodb.connect_timeout", l.prefixedEnv("MONGODB_CONNECT_TIMEOUT"))
	v.BindEnv("mongodb.operation_timeout", l.prefixedEnv("MONGODB_OPERATION_TIMEOUT"))

	v.BindEnv("pagination.default_per_page", l.prefixedEnv("PAGINATION_DEFAULT_PER_PAGE"))
	v.BindEnv("pagination.max_per_page", l.prefixedEnv("PAGINATION_MAX_PER_PAGE"))
}

func (l *ViperLoader) prefixedEnv(name string) string {
	if l.envPrefix == "" {
		return name
	}
	return strings.ToUpper(l.envPrefix) + "_" + name
}
