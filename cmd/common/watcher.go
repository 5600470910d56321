package common

import (
	"context"
	"fmt"

	"github.com/jonesrussell/planwatch/internal/fetch"
	"github.com/jonesrussell/planwatch/internal/notify"
	"github.com/jonesrussell/planwatch/internal/store"
	"github.com/jonesrussell/planwatch/internal/useragent"
	"github.com/jonesrussell/planwatch/internal/watcher"
)

// CreateWatcher assembles the full poll pipeline: a document store, the two
// page sources sharing one HTTP client, the mailer, and the watcher on top.
// The returned store is open; the caller owns closing it.
func CreateWatcher(ctx context.Context, deps CommandDeps) (*watcher.Watcher, store.Interface, error) {
	s, err := CreateStore(ctx, deps.Config, deps.Logger)
	if err != nil {
		return nil, nil, err
	}

	watchCfg, err := s.Config(ctx)
	if err != nil {
		closeStore(s, deps)
		return nil, nil, fmt.Errorf("failed to load watch config: %w", err)
	}

	agents := useragent.NewProvider(deps.Config.GetUserAgentConfig(), deps.Logger)
	client := fetch.NewClient(agents, deps.Logger)

	planSource, err := fetch.NewPlanSource(client, watchCfg.URL.Plan, watchCfg.Target.GroupPattern, deps.Logger)
	if err != nil {
		closeStore(s, deps)
		return nil, nil, fmt.Errorf("failed to create plan source: %w", err)
	}
	cancelSource := fetch.NewCancelSource(client, watchCfg.URL.Cancel, deps.Logger)

	w := watcher.New(s, planSource, cancelSource, notify.NewMailer(deps.Logger), deps.Logger)
	return w, s, nil
}

func closeStore(s store.Interface, deps CommandDeps) {
	if err := s.Close(); err != nil {
		deps.Logger.Error("failed to close store", "error", err)
	}
}
