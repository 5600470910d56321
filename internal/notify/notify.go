// Package notify turns detected change events into e-mail messages: it
// loads the freshly persisted snapshots, renders the message bodies and
// hands them to the SMTP mailer. Notification failures are logged and never
// propagated back into the poll cycle; the change itself is already on
// disk.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
	"github.com/jonesrussell/planwatch/internal/store"
)

// defaultStripPrefix is removed from links shown in message headlines.
const defaultStripPrefix = "https://"

// Sender is the mail transport behind the notifier.
type Sender interface {
	Send(ctx context.Context, secret *domain.Secret, subject, body string) error
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithStripPrefix overrides the prefix stripped from displayed links.
func WithStripPrefix(prefix string) Option {
	return func(n *Notifier) { n.strip = prefix }
}

// Notifier renders and sends notification mail for change events.
type Notifier struct {
	store  store.Interface
	sender Sender
	log    logger.Interface
	strip  string

	mu       sync.Mutex
	failures int
}

// NewNotifier creates a notifier reading snapshots and credentials from the
// given store.
func NewNotifier(s store.Interface, sender Sender, log logger.Interface, opts ...Option) *Notifier {
	n := &Notifier{
		store:  s,
		sender: sender,
		log:    log,
		strip:  defaultStripPrefix,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Failures reports how many notification messages could not be delivered.
func (n *Notifier) Failures() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.failures
}

func (n *Notifier) recordFailure() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures++
}

// HandlePlan sends mail for the plan events of one poll cycle: a single
// change gets its own subject, several changes at once are combined into
// one message with numbered sections.
func (n *Notifier) HandlePlan(ctx context.Context, events []domain.Event) {
	planEvents := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if event.PlanKind() {
			planEvents = append(planEvents, event)
		}
	}
	if len(planEvents) == 0 {
		return
	}

	cfg, err := n.store.Config(ctx)
	if err != nil {
		n.log.Error("failed to load config for notification", "error", err.Error())
		return
	}
	if !cfg.Runtime.SendEmailPlan {
		n.log.Debug("plan e-mail notifications are disabled")
		return
	}
	snap, err := n.store.Plan(ctx)
	if err != nil {
		n.log.Error("failed to load plan snapshot for notification", "error", err.Error())
		return
	}

	subject, body := n.composePlan(snap, planEvents)
	n.send(ctx, subject, body)
}

// HandleCancel sends mail for cancellation events. An event whose NewEntries
// is empty (entries were only removed or reworded) produces no mail.
func (n *Notifier) HandleCancel(ctx context.Context, events []domain.Event) {
	cancelEvents := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if event.Kind == domain.KindCancellationsChanged {
			cancelEvents = append(cancelEvents, event)
		}
	}
	if len(cancelEvents) == 0 {
		return
	}

	cfg, err := n.store.Config(ctx)
	if err != nil {
		n.log.Error("failed to load config for notification", "error", err.Error())
		return
	}
	if !cfg.Runtime.SendEmailCancel {
		n.log.Debug("cancellation e-mail notifications are disabled")
		return
	}
	snap, err := n.store.Cancel(ctx)
	if err != nil {
		n.log.Error("failed to load cancel snapshot for notification", "error", err.Error())
		return
	}

	for _, event := range cancelEvents {
		body, ok := CancelBody(snap, event.NewEntries)
		if !ok {
			n.log.Warn("no new cancellation keys, skipping e-mail",
				"iteration", event.Iteration)
			continue
		}
		n.send(ctx, SubjectCancel, body)
	}
}

// Debug sends the test message used to verify credentials end to end.
func (n *Notifier) Debug(ctx context.Context) error {
	secret, err := n.store.Secret(ctx)
	if err != nil {
		return fmt.Errorf("load secret: %w", err)
	}
	n.log.Info("sending debug e-mail")
	return n.sender.Send(ctx, secret, SubjectDebug, debugBody)
}

func (n *Notifier) composePlan(snap *domain.PlanSnapshot, events []domain.Event) (subject, body string) {
	subjects := make([]string, 0, len(events))
	bodies := make([]string, 0, len(events))
	for _, event := range events {
		switch event.Kind {
		case domain.KindColorChanged:
			subjects = append(subjects, SubjectColor)
			bodies = append(bodies, PlanColorBody(snap))
		case domain.KindLinkChanged:
			subjects = append(subjects, SubjectLink)
			bodies = append(bodies, PlanLinkBody(snap, n.strip))
		case domain.KindTableChanged:
			subjects = append(subjects, SubjectTable)
			bodies = append(bodies, PlanTableBody(snap))
		}
	}
	if len(bodies) == 1 {
		return subjects[0], bodies[0]
	}

	parts := make([]string, 0, len(bodies))
	for i, part := range bodies {
		parts = append(parts, fmt.Sprintf("[%d/%d] %s", i+1, len(bodies), part))
	}
	subject = fmt.Sprintf("planwatch: lesson plan has changed (%d updates)", len(bodies))
	return subject, strings.Join(parts, "\n\n---\n\n")
}

// send loads the credentials and hands one message to the transport,
// logging failures instead of returning them.
func (n *Notifier) send(ctx context.Context, subject, body string) {
	secret, err := n.store.Secret(ctx)
	if err != nil {
		n.log.Error("failed to load secret for notification", "error", err.Error())
		n.recordFailure()
		return
	}
	n.log.Info("sending e-mail", "subject", subject)
	if sendErr := n.sender.Send(ctx, secret, subject, body); sendErr != nil {
		n.recordFailure()
		if errors.Is(sendErr, ErrSenderUnconfigured) {
			// Already logged by the mailer.
			return
		}
		n.log.Warn("failed to send notification", "subject", subject, "error", sendErr.Error())
	}
}
