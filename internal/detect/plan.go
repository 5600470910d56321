package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
	"github.com/jonesrussell/planwatch/internal/store"
)

// PlanOption configures a PlanDetector.
type PlanOption func(*PlanDetector)

// WithPlanClock sets a custom clock function (for testing).
func WithPlanClock(fn func() time.Time) PlanOption {
	return func(d *PlanDetector) { d.now = fn }
}

// PlanDetector diffs fetched plan facts against the stored plan snapshot.
type PlanDetector struct {
	store store.Interface
	log   logger.Interface
	now   func() time.Time
}

// NewPlanDetector creates a plan detector backed by the given store.
func NewPlanDetector(s store.Interface, log logger.Interface, opts ...PlanOption) *PlanDetector {
	d := &PlanDetector{
		store: s,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// planCycle carries the snapshot and the once-per-cycle revision bump
// through the three field checks of one Check call.
type planCycle struct {
	snap   *domain.PlanSnapshot
	bumped bool
	events []domain.Event
}

// bump increments the revision counter, at most once per cycle.
func (c *planCycle) bump() {
	if c.bumped {
		return
	}
	c.snap.Metadata.CurrentIteration++
	c.bumped = true
}

// Check compares the fetched facts field by field against the stored
// snapshot. Each changed field is persisted before the next comparison
// runs. The revision counter is bumped by the first field found changed;
// every event of the same cycle carries the post-increment revision.
// Events detected before an error are already persisted and are returned
// alongside it.
func (d *PlanDetector) Check(ctx context.Context, facts PlanFacts) ([]domain.Event, error) {
	snap, err := d.store.Plan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load plan snapshot: %w", err)
	}

	cycle := &planCycle{snap: snap}
	if checkErr := d.checkColor(ctx, cycle, facts.Color); checkErr != nil {
		return cycle.events, checkErr
	}
	if checkErr := d.checkLink(ctx, cycle, facts.Link); checkErr != nil {
		return cycle.events, checkErr
	}
	if checkErr := d.checkTable(ctx, cycle, facts.Table); checkErr != nil {
		return cycle.events, checkErr
	}
	return cycle.events, nil
}

func (d *PlanDetector) checkColor(ctx context.Context, c *planCycle, newColor string) error {
	old := c.snap.Metadata.CurrentColor
	if newColor == old {
		d.log.Info("no change found: background color",
			"color", old,
			"iteration", c.snap.Metadata.CurrentIteration)
		return nil
	}

	now := d.timestamp()
	c.snap.Metadata.CurrentColor = newColor
	c.snap.Metadata.LastChangeColor = now
	c.bump()
	if old != domain.Sentinel {
		// Placeholder values stay out of the history.
		if c.snap.Metadata.PreviousColors == nil {
			c.snap.Metadata.PreviousColors = map[string]string{}
		}
		c.snap.Metadata.PreviousColors[now] = old
	}
	if err := d.store.SavePlan(ctx, c.snap); err != nil {
		return fmt.Errorf("save plan snapshot: %w", err)
	}
	d.log.Info("found change: background color",
		"old", old,
		"new", newColor,
		"iteration", c.snap.Metadata.CurrentIteration)
	c.events = append(c.events,
		domain.NewEvent(domain.KindColorChanged, now, c.snap.Metadata.CurrentIteration))
	return nil
}

func (d *PlanDetector) checkLink(ctx context.Context, c *planCycle, newLink string) error {
	old := c.snap.Metadata.CurrentLink
	if newLink == old {
		d.log.Info("no change found: link to target lesson plan",
			"link", old,
			"iteration", c.snap.Metadata.CurrentIteration)
		return nil
	}

	now := d.timestamp()
	c.snap.Metadata.CurrentLink = newLink
	c.snap.Metadata.LastChangeLink = now
	c.bump()
	if old != domain.Sentinel {
		if c.snap.Metadata.PreviousLinks == nil {
			c.snap.Metadata.PreviousLinks = map[string]string{}
		}
		c.snap.Metadata.PreviousLinks[now] = old
	}
	if err := d.store.SavePlan(ctx, c.snap); err != nil {
		return fmt.Errorf("save plan snapshot: %w", err)
	}
	d.log.Info("found change: link to target lesson plan",
		"old", old,
		"new", newLink,
		"iteration", c.snap.Metadata.CurrentIteration)
	c.events = append(c.events,
		domain.NewEvent(domain.KindLinkChanged, now, c.snap.Metadata.CurrentIteration))
	return nil
}

func (d *PlanDetector) checkTable(ctx context.Context, c *planCycle, table domain.WeekTable) error {
	if c.snap.Current.Equal(&table) {
		d.log.Info("no change found: target lesson plan's content",
			"iteration", c.snap.Metadata.CurrentIteration)
		return nil
	}

	now := d.timestamp()
	c.snap.Previous = c.snap.Current
	c.snap.Current = table.Clone()
	c.snap.Metadata.LastChangeTable = now
	c.bump()
	if err := d.store.SavePlan(ctx, c.snap); err != nil {
		return fmt.Errorf("save plan snapshot: %w", err)
	}
	d.log.Info("found change: target lesson plan's content",
		"iteration", c.snap.Metadata.CurrentIteration)
	c.events = append(c.events,
		domain.NewEvent(domain.KindTableChanged, now, c.snap.Metadata.CurrentIteration))
	return nil
}

func (d *PlanDetector) timestamp() string {
	return d.now().Format(domain.TimeLayout)
}
