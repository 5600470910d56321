// Package store provides document store configuration types and functions.
package store

import (
	"errors"
	"fmt"
)

// Supported store backends.
const (
	// BackendFile persists documents as JSON files on disk.
	BackendFile = "file"
	// BackendPostgres persists documents in a Postgres table.
	BackendPostgres = "postgres"
)

// Config represents document store configuration settings.
type Config struct {
	// Backend selects the persistence backend (file, postgres)
	Backend string `env:"PLANWATCH_STORE_BACKEND" yaml:"backend"`
	// ConfigDir is the directory for the config and secret documents (file backend)
	ConfigDir string `env:"PLANWATCH_CONFIG_DIR" yaml:"config_dir"`
	// WorkDir is the directory for the plan and cancel documents (file backend)
	WorkDir string `env:"PLANWATCH_WORK_DIR" yaml:"work_dir"`
	// DSN is the Postgres connection string (postgres backend)
	DSN string `env:"PLANWATCH_STORE_DSN" yaml:"dsn"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.ConfigDir == "" {
			return errors.New("config_dir must be specified for the file backend")
		}
		if c.WorkDir == "" {
			return errors.New("work_dir must be specified for the file backend")
		}
	case BackendPostgres:
		if c.DSN == "" {
			return errors.New("dsn must be specified for the postgres backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s", c.Backend)
	}
	return nil
}

// NewConfig creates a new Config instance with default values.
func NewConfig() *Config {
	return &Config{
		Backend:   BackendFile,
		ConfigDir: "./config",
		WorkDir:   "./work",
	}
}
