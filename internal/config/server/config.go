// Package server provides server configuration types and functions.
package server

import (
	"errors"
	"time"
)

// Default timeouts applied when the corresponding field is zero.
const (
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 15 * time.Second
	DefaultIdleTimeout  = 60 * time.Second
)

// Config represents server-specific configuration settings.
type Config struct {
	// Address is the address to listen on (e.g., ":8080")
	Address string `env:"PLANWATCH_SERVER_ADDRESS" yaml:"address"`
	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration `env:"PLANWATCH_SERVER_READ_TIMEOUT" yaml:"read_timeout"`
	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration `env:"PLANWATCH_SERVER_WRITE_TIMEOUT" yaml:"write_timeout"`
	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration `env:"PLANWATCH_SERVER_IDLE_TIMEOUT" yaml:"idle_timeout"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	return nil
}

// NewConfig creates a new Config instance with default values.
func NewConfig() *Config {
	return &Config{
		Address:      ":8080",
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}
}
