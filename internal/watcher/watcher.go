// Package watcher drives the poll cycle: download the watched pages, compare
// them against the stored snapshots, and hand detected changes to the
// notifier. One cycle covers the lesson plan first and the class
// cancellations second, with a short random pause between the two halves.
package watcher

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/planwatch/internal/detect"
	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
	"github.com/jonesrussell/planwatch/internal/notify"
	"github.com/jonesrussell/planwatch/internal/store"
)

const (
	// rateLimitMinSeconds is the shortest pause between the two page
	// downloads of one cycle.
	rateLimitMinSeconds = 2
	// rateLimitMaxSeconds is the longest such pause.
	rateLimitMaxSeconds = 5
)

// PlanFeed yields the lesson plan facts. *fetch.PlanSource implements it.
type PlanFeed interface {
	Color(ctx context.Context) (string, error)
	Link(ctx context.Context) (string, error)
	Table(ctx context.Context) (*domain.WeekTable, error)
	Reset()
}

// CancelFeed yields the cancellation entries. *fetch.CancelSource
// implements it.
type CancelFeed interface {
	Entries(ctx context.Context) (map[string]string, error)
	Reset()
}

// Stats is a point-in-time view of the watcher's progress.
type Stats struct {
	Cycles         int    `json:"cycles"`
	PlanEvents     int    `json:"plan_events"`
	CancelEvents   int    `json:"cancel_events"`
	NotifyFailures int    `json:"notify_failures"`
	LastCycleAt    string `json:"last_cycle_at,omitempty"`
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithClock overrides the time source used for change timestamps.
func WithClock(fn func() time.Time) Option {
	return func(w *Watcher) { w.now = fn }
}

// WithSleep overrides how the watcher waits between fetches and cycles.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(w *Watcher) { w.sleep = fn }
}

// WithRand overrides the jitter source for the rate-limit pause.
func WithRand(fn func(n int) int) Option {
	return func(w *Watcher) { w.randInt = fn }
}

// Watcher owns one poll target: two feeds, their detectors and the notifier.
type Watcher struct {
	store      store.Interface
	planFeed   PlanFeed
	cancelFeed CancelFeed
	log        logger.Interface

	planDetect   *detect.PlanDetector
	cancelDetect *detect.CancelDetector
	notifier     *notify.Notifier

	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
	randInt func(n int) int

	statsMu sync.RWMutex
	stats   Stats
}

// New wires a watcher from its feeds, building the detectors and the
// notifier on top of the shared store.
func New(
	s store.Interface,
	plan PlanFeed,
	cancelFeed CancelFeed,
	sender notify.Sender,
	log logger.Interface,
	opts ...Option,
) *Watcher {
	w := &Watcher{
		store:      s,
		planFeed:   plan,
		cancelFeed: cancelFeed,
		log:        log,
		now:        time.Now,
		sleep:      sleepContext,
		randInt:    rand.Intn,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.planDetect = detect.NewPlanDetector(s, log, detect.WithPlanClock(w.now))
	w.cancelDetect = detect.NewCancelDetector(s, log, detect.WithCancelClock(w.now))
	w.notifier = notify.NewNotifier(s, sender, log)
	return w
}

// Run polls until ctx is done. A loop time of zero means one cycle and
// return; a cron expression in the config replaces the fixed interval.
func (w *Watcher) Run(ctx context.Context) error {
	cfg, err := w.store.Config(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Runtime.Cron != "" {
		return w.runCron(ctx, cfg.Runtime.Cron)
	}
	return w.runInterval(ctx, cfg.Runtime.LoopSeconds)
}

// RunOnce performs a single poll cycle.
func (w *Watcher) RunOnce(ctx context.Context) error {
	return w.cycle(ctx, 1)
}

// Stats returns a copy of the progress counters.
func (w *Watcher) Stats() Stats {
	w.statsMu.RLock()
	stats := w.stats
	w.statsMu.RUnlock()
	stats.NotifyFailures = w.notifier.Failures()
	return stats
}

func (w *Watcher) runInterval(ctx context.Context, loopSeconds int) error {
	num := 0
	for {
		num++
		if err := w.cycle(ctx, num); err != nil {
			return err
		}
		if loopSeconds == 0 {
			w.log.Info("quitting after one loop", "loop_time_in_seconds", loopSeconds)
			return nil
		}
		w.log.Info("waiting between loops", "seconds", loopSeconds)
		if err := w.sleep(ctx, time.Duration(loopSeconds)*time.Second); err != nil {
			return err
		}
		w.log.Info("ok: running again", "waited_seconds", loopSeconds)
		w.planFeed.Reset()
		w.cancelFeed.Reset()
	}
}

func (w *Watcher) runCron(ctx context.Context, spec string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err := c.AddFunc(spec, func() {
		num := w.Stats().Cycles + 1
		if cycleErr := w.cycle(ctx, num); cycleErr != nil {
			w.log.Error("poll cycle aborted", "error", cycleErr)
			return
		}
		w.planFeed.Reset()
		w.cancelFeed.Reset()
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	w.log.Info("starting cron schedule", "cron", spec)
	c.Start()
	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return ctx.Err()
}

// cycle runs one full check: plan half, rate-limit pause, cancel half. Fetch
// and check failures are logged and swallowed so a flaky page never stops
// the loop.
func (w *Watcher) cycle(ctx context.Context, num int) error {
	w.log.Info("running loop", "no", num)

	w.checkPlan(ctx)

	// The pause keeps the two downloads apart. When a document was just
	// created from defaults everything is new anyway, so don't stall the
	// very first results.
	if w.store.FirstRun() {
		w.log.Info("skipping sleep because this is the first run")
	} else if err := w.rateLimitPause(ctx); err != nil {
		return err
	}

	w.checkCancel(ctx)
	w.recordCycle()
	return ctx.Err()
}

func (w *Watcher) checkPlan(ctx context.Context) {
	facts, err := w.collectPlan(ctx)
	if err != nil {
		w.log.Info("failed to download lesson plan", "error", err)
		return
	}

	events, err := w.planDetect.Check(ctx, facts)
	if err != nil {
		w.log.Error("failed to check lesson plan", "error", err)
	}
	if len(events) == 0 {
		return
	}

	w.addEvents(len(events), 0)
	w.notifier.HandlePlan(ctx, events)
}

func (w *Watcher) checkCancel(ctx context.Context) {
	entries, err := w.cancelFeed.Entries(ctx)
	if err != nil {
		w.log.Info("failed to download class cancellations", "error", err)
		return
	}

	events, err := w.cancelDetect.Check(ctx, entries)
	if err != nil {
		w.log.Error("failed to check class cancellations", "error", err)
	}
	if len(events) == 0 {
		return
	}

	w.addEvents(0, len(events))
	w.notifier.HandleCancel(ctx, events)
}

func (w *Watcher) collectPlan(ctx context.Context) (detect.PlanFacts, error) {
	color, err := w.planFeed.Color(ctx)
	if err != nil {
		return detect.PlanFacts{}, err
	}
	link, err := w.planFeed.Link(ctx)
	if err != nil {
		return detect.PlanFacts{}, err
	}
	table, err := w.planFeed.Table(ctx)
	if err != nil {
		return detect.PlanFacts{}, err
	}
	return detect.PlanFacts{Color: color, Link: link, Table: *table}, nil
}

func (w *Watcher) rateLimitPause(ctx context.Context) error {
	seconds := rateLimitMinSeconds + w.randInt(rateLimitMaxSeconds-rateLimitMinSeconds+1)
	w.log.Info("waiting to prevent rate-limiting", "seconds", seconds)
	return w.sleep(ctx, time.Duration(seconds)*time.Second)
}

func (w *Watcher) recordCycle() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.Cycles++
	w.stats.LastCycleAt = w.now().Format(domain.TimeLayout)
}

func (w *Watcher) addEvents(plan, cancel int) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.PlanEvents += plan
	w.stats.CancelEvents += cancel
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
