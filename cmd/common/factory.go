package common

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/planwatch/internal/config"
	"github.com/jonesrussell/planwatch/internal/logger"
)

// NewCommandDeps creates CommandDeps by loading config and creating logger.
// This consolidates the common initialization code from Execute().
func NewCommandDeps() (CommandDeps, error) {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.GetLoggerConfig()

	logLevel := strings.ToLower(logCfg.Level)
	if logLevel == "" {
		logLevel = "info"
	}

	log, err := logger.New(&logger.Config{
		Level:       logger.Level(logLevel),
		Development: logCfg.Development,
		Encoding:    logCfg.Encoding,
		File:        logCfg.File,
		MaxSize:     logCfg.MaxSize,
		MaxBackups:  logCfg.MaxBackups,
		MaxAge:      logCfg.MaxAge,
		Compress:    logCfg.Compress,
	})
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	deps := CommandDeps{
		Logger: log,
		Config: cfg,
	}

	if validateErr := deps.Validate(); validateErr != nil {
		return CommandDeps{}, fmt.Errorf("validate deps: %w", validateErr)
	}

	return deps, nil
}
