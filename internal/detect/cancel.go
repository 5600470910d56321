package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
	"github.com/jonesrussell/planwatch/internal/store"
)

// CancelOption configures a CancelDetector.
type CancelOption func(*CancelDetector)

// WithCancelClock sets a custom clock function (for testing).
func WithCancelClock(fn func() time.Time) CancelOption {
	return func(d *CancelDetector) { d.now = fn }
}

// CancelDetector diffs the fetched cancellation list against the stored
// snapshot.
type CancelDetector struct {
	store store.Interface
	log   logger.Interface
	now   func() time.Time
}

// NewCancelDetector creates a cancellations detector backed by the given
// store.
func NewCancelDetector(s store.Interface, log logger.Interface, opts ...CancelOption) *CancelDetector {
	d := &CancelDetector{
		store: s,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Check compares the fetched entries against the stored current map, keys
// and values both. Any difference, removals included, moves current to
// previous, bumps the revision and persists. The returned event's
// NewEntries holds only the keys absent from the previous state, so it can
// be empty when entries were merely removed or reworded.
func (d *CancelDetector) Check(ctx context.Context, entries map[string]string) ([]domain.Event, error) {
	snap, err := d.store.Cancel(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cancel snapshot: %w", err)
	}

	if domain.EqualEntries(snap.Current, entries) {
		d.log.Info("no change found: class cancellations' content",
			"iteration", snap.Metadata.CurrentIteration)
		return nil, nil
	}

	now := d.now().Format(domain.TimeLayout)
	added := domain.NewEntries(snap.Current, entries)
	snap.Previous = snap.Current
	snap.Current = cloneEntries(entries)
	snap.Metadata.CurrentIteration++
	snap.Metadata.LastChange = now
	if err := d.store.SaveCancel(ctx, snap); err != nil {
		return nil, fmt.Errorf("save cancel snapshot: %w", err)
	}
	d.log.Info("found change: class cancellations' content",
		"iteration", snap.Metadata.CurrentIteration,
		"new_entries", len(added))

	event := domain.NewEvent(domain.KindCancellationsChanged, now, snap.Metadata.CurrentIteration)
	event.NewEntries = added
	return []domain.Event{event}, nil
}

func cloneEntries(entries map[string]string) map[string]string {
	out := make(map[string]string, len(entries))
	for k, v := range entries {
		out[k] = v
	}
	return out
}
