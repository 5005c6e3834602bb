// Package config defines the service configuration and its loader.
package config

import (
	"time"

	"github.com/nimburion/zipcodes/pkg/observability/logger"
	mongostore "github.com/nimburion/zipcodes/pkg/store/mongodb"
)

// Config is the root configuration for the service.
type Config struct {
	Service    ServiceConfig    `mapstructure:"service"`
	RouterType string           `mapstructure:"router_type"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Logging    logger.Config    `mapstructure:"logging"`
	MongoDB    mongostore.Config `mapstructure:"mongodb"`
	Pagination PaginationConfig `mapstructure:"pagination"`
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig holds the public HTTP server settings.
type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// PaginationConfig bounds the list endpoint's page size.
type PaginationConfig struct {
	DefaultPerPage int `mapstructure:"default_per_page"`
	MaxPerPage     int `mapstructure:"max_per_page"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			Name:        "zipcodes",
			Environment: "development",
		},
		RouterType: "gin",
		HTTP: HTTPConfig{
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Logging: logger.DefaultConfig(),
		MongoDB: mongostore.Config{
			URL:              "mongodb://localhost:27017",
			Database:         "zipcodes",
			ConnectTimeout:   5 * time.Second,
			OperationTimeout: 5 * time.Second,
		},
		Pagination: PaginationConfig{
			DefaultPerPage: 30,
			MaxPerPage:     100,
		},
	}
}
