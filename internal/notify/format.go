package notify

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/planwatch/internal/domain"
)

// Subjects of the outgoing notification mails.
const (
	SubjectColor  = "planwatch: lesson plan's color has changed"
	SubjectLink   = "planwatch: lesson plan's link has changed"
	SubjectTable  = "planwatch: lesson plan's table has changed"
	SubjectCancel = "planwatch: class cancellations has changed"
	SubjectDebug  = "planwatch: debug message"
)

const debugBody = "this is a debug message to see if everything works"

// PlanColorBody renders the color-change message from the stored snapshot.
// With no recorded history the "from" clause and the history block are
// omitted.
func PlanColorBody(snap *domain.PlanSnapshot) string {
	meta := snap.Metadata
	history := domain.History(meta.PreviousColors)
	if len(history) == 0 {
		return fmt.Sprintf("lesson plan's color has changed to '%s' at '%s' (iteration: %d)",
			meta.CurrentColor, meta.LastChangeColor, meta.CurrentIteration)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "lesson plan's color has changed from '%s' to '%s' at '%s' (iteration: %d)",
		history[len(history)-1].Value, meta.CurrentColor, meta.LastChangeColor, meta.CurrentIteration)
	b.WriteString("\n\nfull colors history:")
	for i, entry := range history {
		fmt.Fprintf(&b, "\n* [%d] %s - '%s'", i+1, entry.At, entry.Value)
	}
	return b.String()
}

// PlanLinkBody renders the link-change message. Links in the headline are
// shown without the strip prefix; the raw link and the history values stay
// untouched.
func PlanLinkBody(snap *domain.PlanSnapshot, stripPrefix string) string {
	meta := snap.Metadata
	display := strings.ReplaceAll(meta.CurrentLink, stripPrefix, "")
	history := domain.History(meta.PreviousLinks)
	if len(history) == 0 {
		return fmt.Sprintf("lesson plan's link has changed to '%s' at '%s'\n\nyou can view it here: %s",
			display, meta.LastChangeLink, meta.CurrentLink)
	}

	previous := strings.ReplaceAll(history[len(history)-1].Value, stripPrefix, "")
	var b strings.Builder
	fmt.Fprintf(&b, "lesson plan's link has changed from '%s' to '%s' at '%s'\n\nyou can view it here: %s",
		previous, display, meta.LastChangeLink, meta.CurrentLink)
	b.WriteString("\n\nfull links history:")
	for i, entry := range history {
		fmt.Fprintf(&b, "\n* [%d] %s - '%s'", i+1, entry.At, entry.Value)
	}
	return b.String()
}

// PlanTableBody renders the table-change message: one line per differing
// cell, newlines flattened to semicolons.
func PlanTableBody(snap *domain.PlanSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "lesson plan's table has changed at '%s', here are the differences:",
		snap.Metadata.LastChangeTable)
	for _, diff := range snap.Previous.Diff(&snap.Current) {
		fmt.Fprintf(&b, "\n* [%s @ %s] '%s' --> '%s'",
			diff.Day, diff.Hour, domain.FlattenCell(diff.Old), domain.FlattenCell(diff.New))
	}
	return b.String()
}

// CancelBody renders the cancellations message: the new entries followed by
// the whole current list, both newest first. It reports false when no keys
// were added, in which case no mail should go out.
func CancelBody(snap *domain.CancelSnapshot, newEntries map[string]string) (string, bool) {
	if len(newEntries) == 0 {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "class cancellation has changed at '%s' (iteration: %d)",
		snap.Metadata.LastChange, snap.Metadata.CurrentIteration)
	b.WriteString("\n\nnew entries only:")
	for i, entry := range domain.EntriesNewestFirst(newEntries) {
		fmt.Fprintf(&b, "\n* [%d] %s - '%s'", i+1, entry.Date, entry.Title)
	}
	b.WriteString("\n\nall class cancellations:")
	for i, entry := range domain.EntriesNewestFirst(snap.Current) {
		fmt.Fprintf(&b, "\n* [%d] %s - '%s'", i+1, entry.Date, entry.Title)
	}
	return b.String(), true
}
