package domain

import "sort"

// PlanSnapshot is the persisted state of the watched lesson plan: the two
// most recent timetable grids plus change-tracking metadata.
type PlanSnapshot struct {
	Current  WeekTable    `json:"current" mapstructure:"current"`
	Previous WeekTable    `json:"previous" mapstructure:"previous"`
	Metadata PlanMetadata `json:"metadata" mapstructure:"metadata"`
}

// PlanMetadata tracks the plan's change counters, latest values and
// append-only value histories keyed by change timestamp.
type PlanMetadata struct {
	CurrentIteration int               `json:"current_iteration" mapstructure:"current_iteration"`
	CurrentColor     string            `json:"current_color" mapstructure:"current_color"`
	CurrentLink      string            `json:"current_link" mapstructure:"current_link"`
	PreviousColors   map[string]string `json:"previous_colors" mapstructure:"previous_colors"`
	PreviousLinks    map[string]string `json:"previous_links" mapstructure:"previous_links"`
	LastChangeColor  string            `json:"last_change_color" mapstructure:"last_change_color"`
	LastChangeTable  string            `json:"last_change_table" mapstructure:"last_change_table"`
	LastChangeLink   string            `json:"last_change_link" mapstructure:"last_change_link"`
}

// HistoryEntry is one recorded prior value with the timestamp at which it
// was superseded.
type HistoryEntry struct {
	At    string
	Value string
}

// History returns the entries of a previous-values map sorted oldest to
// newest.
func History(values map[string]string) []HistoryEntry {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]HistoryEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, HistoryEntry{At: k, Value: values[k]})
	}
	return entries
}

// DefaultPlan returns the factory placeholder snapshot written on first run
// or after a schema mismatch. It is always superseded by the first poll.
func DefaultPlan() *PlanSnapshot {
	return &PlanSnapshot{
		Current:  placeholderWeek(),
		Previous: placeholderWeek(),
		Metadata: PlanMetadata{
			CurrentIteration: 0,
			CurrentColor:     Sentinel,
			CurrentLink:      Sentinel,
			PreviousColors:   map[string]string{},
			PreviousLinks:    map[string]string{},
			LastChangeColor:  epochTimestamp,
			LastChangeTable:  epochTimestamp,
			LastChangeLink:   epochTimestamp,
		},
	}
}

func placeholderWeek() WeekTable {
	slots := []string{"08:00", "09:45", "11:30", "13:15", "15:00", "16:45", "18:30"}
	day := func() []string {
		cells := make([]string, len(slots))
		for i := range cells {
			cells[i] = Sentinel
		}
		return cells
	}
	return WeekTable{
		Time:      slots,
		Monday:    day(),
		Tuesday:   day(),
		Wednesday: day(),
		Thursday:  day(),
		Friday:    day(),
	}
}
