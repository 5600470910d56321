package domain

import (
	"fmt"
	"sort"
)

// CancelSnapshot is the persisted state of the class-cancellations list:
// entries keyed by date string, value is the free-text notice.
type CancelSnapshot struct {
	Current  map[string]string `json:"current" mapstructure:"current"`
	Previous map[string]string `json:"previous" mapstructure:"previous"`
	Metadata CancelMetadata    `json:"metadata" mapstructure:"metadata"`
}

// CancelMetadata tracks the cancellation list's change counter and the last
// time its content changed.
type CancelMetadata struct {
	CurrentIteration int    `json:"current_iteration" mapstructure:"current_iteration"`
	LastChange       string `json:"last_change" mapstructure:"last_change"`
}

// CancelEntry is one cancellation notice with its date key.
type CancelEntry struct {
	Date  string
	Title string
}

// EntriesNewestFirst returns the entries of a cancellation map sorted
// newest to oldest by date key.
func EntriesNewestFirst(entries map[string]string) []CancelEntry {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	out := make([]CancelEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, CancelEntry{Date: k, Title: entries[k]})
	}
	return out
}

// NewEntries returns the entries whose keys are present in current but
// absent from previous. Values of removed keys are not reported.
func NewEntries(previous, current map[string]string) map[string]string {
	diff := map[string]string{}
	for k, v := range current {
		if _, ok := previous[k]; !ok {
			diff[k] = v
		}
	}
	return diff
}

// EqualEntries reports full map equality over keys and values.
func EqualEntries(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if other, ok := b[k]; !ok || other != v {
			return false
		}
	}
	return true
}

// DefaultCancel returns the factory placeholder snapshot written on first
// run or after a schema mismatch.
func DefaultCancel() *CancelSnapshot {
	placeholder := func() map[string]string {
		entries := make(map[string]string, 20)
		for i := 1; i <= 20; i++ {
			entries[fmt.Sprintf("1970-01-01 00:%02d", i)] = Sentinel
		}
		return entries
	}
	return &CancelSnapshot{
		Current:  placeholder(),
		Previous: placeholder(),
		Metadata: CancelMetadata{
			CurrentIteration: 0,
			LastChange:       epochTimestamp,
		},
	}
}
