// Package useragent provides user-agent lookup configuration.
package useragent

import "time"

// DefaultLookupURL is the page listing current Chrome user-agent strings.
const DefaultLookupURL = "https://www.whatismybrowser.com/guides/the-latest-user-agent/chrome"

// DefaultTimeout bounds the lookup request.
const DefaultTimeout = 16 * time.Second

// Config represents user-agent lookup configuration settings.
type Config struct {
	// Bypass skips the online lookup and uses the built-in fallback
	Bypass bool `env:"PLANWATCH_UA_BYPASS" yaml:"bypass"`
	// URL is the page the current user-agent string is scraped from
	URL string `yaml:"url"`
	// Timeout bounds the lookup request
	Timeout time.Duration `yaml:"timeout"`
}

// NewConfig creates a new Config instance with default values.
func NewConfig() *Config {
	return &Config{
		Bypass:  false,
		URL:     DefaultLookupURL,
		Timeout: DefaultTimeout,
	}
}
