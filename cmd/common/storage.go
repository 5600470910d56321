package common

import (
	"context"
	"fmt"

	"github.com/jonesrussell/planwatch/internal/config"
	storeconfig "github.com/jonesrussell/planwatch/internal/config/store"
	"github.com/jonesrussell/planwatch/internal/logger"
	"github.com/jonesrussell/planwatch/internal/store"
)

// CreateStore opens the document store named by the configuration. Opening
// creates any missing document, so commands can rely on all four documents
// existing afterwards.
func CreateStore(ctx context.Context, cfg config.Interface, log logger.Interface) (store.Interface, error) {
	storeCfg := cfg.GetStoreConfig()
	switch storeCfg.Backend {
	case storeconfig.BackendFile:
		s, err := store.NewFileStore(ctx, storeCfg, log)
		if err != nil {
			return nil, fmt.Errorf("create file store: %w", err)
		}
		return s, nil
	case storeconfig.BackendPostgres:
		s, err := store.NewPostgresStore(ctx, storeCfg, log)
		if err != nil {
			return nil, fmt.Errorf("create postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", storeCfg.Backend)
	}
}
