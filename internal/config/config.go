// Package config provides configuration management for the planwatch
// application. It handles loading, validation, and access to process-level
// configuration values from YAML files and environment variables via Viper.
// Watch parameters (URLs, group pattern, loop interval) and mail credentials
// are not process configuration: they live in the persisted documents managed
// by internal/store.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/planwatch/internal/config/app"
	"github.com/jonesrussell/planwatch/internal/config/logging"
	"github.com/jonesrussell/planwatch/internal/config/server"
	"github.com/jonesrussell/planwatch/internal/config/store"
	"github.com/jonesrussell/planwatch/internal/config/useragent"
)

// Interface defines the interface for configuration management.
type Interface interface {
	// GetAppConfig returns the application configuration.
	GetAppConfig() *app.Config
	// GetLoggerConfig returns the logging configuration.
	GetLoggerConfig() *logging.Config
	// GetServerConfig returns the HTTP server configuration.
	GetServerConfig() *server.Config
	// GetStoreConfig returns the document store configuration.
	GetStoreConfig() *store.Config
	// GetUserAgentConfig returns the user-agent lookup configuration.
	GetUserAgentConfig() *useragent.Config
	// Validate validates the configuration.
	Validate() error
}

// Ensure Config implements Interface
var _ Interface = (*Config)(nil)

// Config represents the application configuration.
type Config struct {
	// App holds application-specific configuration
	App *app.Config `yaml:"app"`
	// Logger holds logging configuration
	Logger *logging.Config `yaml:"logger"`
	// Server holds HTTP server configuration
	Server *server.Config `yaml:"server"`
	// Store holds document store configuration
	Store *store.Config `yaml:"store"`
	// UserAgent holds user-agent lookup configuration
	UserAgent *useragent.Config `yaml:"useragent"`
}

// LoadConfig builds the typed configuration from the current Viper state.
// InitializeViper must have been called first so defaults, config file
// values and environment overrides are all in place.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		App: &app.Config{
			Name:        viper.GetString("app.name"),
			Version:     viper.GetString("app.version"),
			Environment: viper.GetString("app.environment"),
			Debug:       viper.GetBool("app.debug"),
		},
		Logger: &logging.Config{
			Level:       viper.GetString("logger.level"),
			Encoding:    viper.GetString("logger.encoding"),
			File:        viper.GetString("logger.file"),
			MaxSize:     viper.GetInt("logger.max_size"),
			MaxBackups:  viper.GetInt("logger.max_backups"),
			MaxAge:      viper.GetInt("logger.max_age"),
			Compress:    viper.GetBool("logger.compress"),
			Development: viper.GetBool("logger.development"),
		},
		Server: &server.Config{
			Address:      viper.GetString("server.address"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
			IdleTimeout:  viper.GetDuration("server.idle_timeout"),
		},
		Store: &store.Config{
			Backend:   viper.GetString("store.backend"),
			ConfigDir: viper.GetString("store.config_dir"),
			WorkDir:   viper.GetString("store.work_dir"),
			DSN:       viper.GetString("store.dsn"),
		},
		UserAgent: &useragent.Config{
			Bypass:  viper.GetBool("useragent.bypass"),
			URL:     viper.GetString("useragent.url"),
			Timeout: viper.GetDuration("useragent.timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// GetAppConfig returns the application configuration.
func (c *Config) GetAppConfig() *app.Config {
	if c.App == nil {
		return app.NewConfig()
	}
	return c.App
}

// GetLoggerConfig returns the logging configuration.
func (c *Config) GetLoggerConfig() *logging.Config {
	if c.Logger == nil {
		return logging.NewConfig()
	}
	return c.Logger
}

// GetServerConfig returns the HTTP server configuration.
func (c *Config) GetServerConfig() *server.Config {
	if c.Server == nil {
		return server.NewConfig()
	}
	return c.Server
}

// GetStoreConfig returns the document store configuration.
func (c *Config) GetStoreConfig() *store.Config {
	if c.Store == nil {
		return store.NewConfig()
	}
	return c.Store
}

// GetUserAgentConfig returns the user-agent lookup configuration.
func (c *Config) GetUserAgentConfig() *useragent.Config {
	if c.UserAgent == nil {
		return useragent.NewConfig()
	}
	return c.UserAgent
}
