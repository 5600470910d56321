// Package logger provides logging functionality for the application.
package logger

// Default configuration values.
const (
	// DefaultLevel is the default logging level.
	DefaultLevel = InfoLevel
	// DefaultEncoding is the default log encoding format.
	DefaultEncoding = "console"
	// DefaultMaxSize is the default rotation size in megabytes.
	DefaultMaxSize = 1
	// DefaultMaxBackups is the default number of rotated files to keep.
	DefaultMaxBackups = 5
	// DefaultMaxAge is the default retention of rotated files in days.
	DefaultMaxAge = 30
)
