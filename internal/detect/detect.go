// Package detect compares freshly fetched facts against the persisted
// snapshots, updates the snapshots, and emits one event per changed fact.
// Every change is written back before the next comparison runs, so a crash
// mid-cycle never loses a change that was already seen.
package detect

import "github.com/jonesrussell/planwatch/internal/domain"

// PlanFacts are the three facts one poll of the plan pages yields.
type PlanFacts struct {
	Color string
	Link  string
	Table domain.WeekTable
}
