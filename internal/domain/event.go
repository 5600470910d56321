package domain

import "github.com/google/uuid"

// Kind names what a change event is about.
type Kind string

const (
	// KindColorChanged reports a new plan-page background color.
	KindColorChanged Kind = "color_changed"
	// KindLinkChanged reports a new sub-page link for the watched group.
	KindLinkChanged Kind = "link_changed"
	// KindTableChanged reports a new timetable grid.
	KindTableChanged Kind = "table_changed"
	// KindCancellationsChanged reports a changed cancellation list.
	KindCancellationsChanged Kind = "cancellations_changed"
)

// Event is one detected change. NewEntries is populated only for
// cancellation events and holds the keys added since the previous snapshot.
type Event struct {
	ID         string            `json:"id"`
	Kind       Kind              `json:"kind"`
	At         string            `json:"at"`
	Iteration  int               `json:"iteration"`
	NewEntries map[string]string `json:"new_entries,omitempty"`
}

// NewEvent stamps a change event with a fresh ID.
func NewEvent(kind Kind, at string, iteration int) Event {
	return Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		At:        at,
		Iteration: iteration,
	}
}

// PlanKind reports whether the event belongs to the lesson plan (and so is
// batched with the other plan events of the same poll cycle).
func (e Event) PlanKind() bool {
	switch e.Kind {
	case KindColorChanged, KindLinkChanged, KindTableChanged:
		return true
	default:
		return false
	}
}
