package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonesrussell/planwatch/internal/config/store"
	"github.com/jonesrussell/planwatch/internal/config/useragent"
)

// Log rotation defaults
const (
	defaultLogMaxSize    = 1  // MB before rotation
	defaultLogMaxBackups = 5  // old log files to retain
	defaultLogMaxAge     = 30 // days to retain old files
)

// InitializeViper initializes Viper configuration from environment variables and config files.
// This must be called before LoadConfig() to ensure Viper is properly configured.
func InitializeViper() error {
	loadEnvFile()
	setupViper()
	setDefaults()
	readConfigFile()

	if err := bindEnvironmentVariables(); err != nil {
		return fmt.Errorf("failed to bind environment variables: %w", err)
	}

	setupDevelopmentLogging()
	return nil
}

// loadEnvFile loads .env file (ignores error if file doesn't exist).
func loadEnvFile() {
	_ = godotenv.Load()
}

// setupViper configures Viper for environment variable and config file reading.
func setupViper() {
	viper.SetEnvPrefix("PLANWATCH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.planwatch")
}

// readConfigFile reads config file (ignores error if file doesn't exist).
func readConfigFile() {
	_ = viper.ReadInConfig()
}

// bindEnvironmentVariables binds all environment variables to config keys.
func bindEnvironmentVariables() error {
	if err := bindAppEnvVars(); err != nil {
		return fmt.Errorf("failed to bind app env vars: %w", err)
	}
	if err := bindStoreEnvVars(); err != nil {
		return fmt.Errorf("failed to bind store env vars: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults - production safe
	viper.SetDefault("app", map[string]any{
		"name":        "planwatch",
		"version":     "1.0.0",
		"environment": "production",
		"debug":       false,
	})

	// Logger defaults - production safe
	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "json",
		"file":        "",
		"max_size":    defaultLogMaxSize,    // MB before rotation
		"max_backups": defaultLogMaxBackups, // old log files to retain
		"max_age":     defaultLogMaxAge,     // days to retain old files
		"compress":    true,
	})

	// Server defaults - production safe
	viper.SetDefault("server", map[string]any{
		"address":       ":8080",
		"read_timeout":  "15s",
		"write_timeout": "15s",
		"idle_timeout":  "60s",
	})

	// Store defaults: file backend with the sibling config/ and work/ dirs
	viper.SetDefault("store", map[string]any{
		"backend":    store.BackendFile,
		"config_dir": "./config",
		"work_dir":   "./work",
		"dsn":        "",
	})

	// User-agent lookup defaults
	viper.SetDefault("useragent", map[string]any{
		"bypass":  false,
		"url":     useragent.DefaultLookupURL,
		"timeout": "16s",
	})
}

// bindAppEnvVars binds application and logger environment variables to config keys.
func bindAppEnvVars() error {
	if err := viper.BindEnv("app.environment", "APP_ENV"); err != nil {
		return fmt.Errorf("failed to bind APP_ENV: %w", err)
	}
	if err := viper.BindEnv("app.debug", "APP_DEBUG"); err != nil {
		return fmt.Errorf("failed to bind APP_DEBUG: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("logger.encoding", "LOG_FORMAT"); err != nil {
		return fmt.Errorf("failed to bind LOG_FORMAT: %w", err)
	}
	if err := viper.BindEnv("logger.file", "LOG_FILE"); err != nil {
		return fmt.Errorf("failed to bind LOG_FILE: %w", err)
	}
	return nil
}

// bindStoreEnvVars binds document store environment variables to config keys.
func bindStoreEnvVars() error {
	if err := viper.BindEnv("store.backend", "PLANWATCH_STORE_BACKEND"); err != nil {
		return fmt.Errorf("failed to bind PLANWATCH_STORE_BACKEND: %w", err)
	}
	if err := viper.BindEnv("store.config_dir", "PLANWATCH_CONFIG_DIR"); err != nil {
		return fmt.Errorf("failed to bind PLANWATCH_CONFIG_DIR: %w", err)
	}
	if err := viper.BindEnv("store.work_dir", "PLANWATCH_WORK_DIR"); err != nil {
		return fmt.Errorf("failed to bind PLANWATCH_WORK_DIR: %w", err)
	}
	// Support both PLANWATCH_STORE_DSN and the conventional POSTGRES_DSN
	if err := viper.BindEnv("store.dsn", "PLANWATCH_STORE_DSN", "POSTGRES_DSN"); err != nil {
		return fmt.Errorf("failed to bind store DSN: %w", err)
	}
	return nil
}

// setupDevelopmentLogging configures logging settings based on environment variables.
// It separates concerns: debug level (controlled by APP_DEBUG) vs development formatting (controlled by APP_ENV).
func setupDevelopmentLogging() {
	debugFlag := viper.GetBool("app.debug")
	isDev := viper.GetString("app.environment") == "development"

	// Always set debug level when APP_DEBUG=true, regardless of environment (production, staging, development)
	// This allows enabling debug logs in production for troubleshooting
	if debugFlag {
		viper.Set("logger.level", "debug")
	}

	// Set development mode features (console encoding, human-readable output) only in development environment
	// These formatting options are separate from log level - you can have debug logs with production formatting
	if isDev {
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}
}
