// Package logger provides logging functionality for the application.
package logger

// Level represents the logging level.
type Level string

const (
	// DebugLevel logs debug messages.
	DebugLevel Level = "debug"
	// InfoLevel logs info messages.
	InfoLevel Level = "info"
	// WarnLevel logs warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel logs error messages.
	ErrorLevel Level = "error"
	// FatalLevel logs fatal messages and exits.
	FatalLevel Level = "fatal"
)

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level.
	Level Level `yaml:"level" json:"level"`
	// Development enables development mode.
	Development bool `yaml:"development" json:"development"`
	// Encoding sets the logger's encoding ("console" or "json").
	Encoding string `yaml:"encoding" json:"encoding"`
	// File is an optional log file path. When set, output goes both to
	// stdout and to the rotating file.
	File string `yaml:"file" json:"file"`
	// MaxSize is the maximum size of the log file in megabytes before it
	// is rotated.
	MaxSize int `yaml:"max_size" json:"max_size"`
	// MaxBackups is the number of rotated log files to keep.
	MaxBackups int `yaml:"max_backups" json:"max_backups"`
	// MaxAge is the maximum number of days to retain rotated files.
	MaxAge int `yaml:"max_age" json:"max_age"`
	// Compress enables gzip compression of rotated files.
	Compress bool `yaml:"compress" json:"compress"`
}
