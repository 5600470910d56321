// Package domain provides the records persisted and compared by planwatch.
package domain

import "strings"

// Sentinel marks "no real value recorded yet". It is used for placeholder
// colors, links and timetable cells and is never written into history maps.
const Sentinel = "null"

// TimeLayout is the timestamp layout used in metadata and history keys.
// Lexical order of formatted timestamps equals chronological order.
const TimeLayout = "2006-01-02 15:04:05"

// epochTimestamp is the last-change value before any change was observed.
const epochTimestamp = "1970-01-01 00:00"

// WeekTable is one fetched timetable grid. Time holds the canonical "HH:MM"
// slot labels; every day column has exactly len(Time) cells.
type WeekTable struct {
	Time      []string `json:"time" mapstructure:"time"`
	Monday    []string `json:"monday" mapstructure:"monday"`
	Tuesday   []string `json:"tuesday" mapstructure:"tuesday"`
	Wednesday []string `json:"wednesday" mapstructure:"wednesday"`
	Thursday  []string `json:"thursday" mapstructure:"thursday"`
	Friday    []string `json:"friday" mapstructure:"friday"`
}

// DayColumn is one named day column of a WeekTable.
type DayColumn struct {
	Name  string
	Cells []string
}

// CellDiff describes a single timetable cell whose text differs between two
// tables.
type CellDiff struct {
	Day  string
	Hour string
	Old  string
	New  string
}

// Days returns the five weekday columns in monday..friday order.
func (w *WeekTable) Days() []DayColumn {
	return []DayColumn{
		{Name: "monday", Cells: w.Monday},
		{Name: "tuesday", Cells: w.Tuesday},
		{Name: "wednesday", Cells: w.Wednesday},
		{Name: "thursday", Cells: w.Thursday},
		{Name: "friday", Cells: w.Friday},
	}
}

// Columns returns all six columns, time first, in table order.
func (w *WeekTable) Columns() []DayColumn {
	return append([]DayColumn{{Name: "time", Cells: w.Time}}, w.Days()...)
}

// Equal reports whether both tables hold exactly the same cells.
func (w *WeekTable) Equal(other *WeekTable) bool {
	if other == nil {
		return false
	}
	if !equalCells(w.Time, other.Time) {
		return false
	}
	theirs := other.Days()
	for i, day := range w.Days() {
		if !equalCells(day.Cells, theirs[i].Cells) {
			return false
		}
	}
	return true
}

// Diff returns the cells whose text differs between w (old) and other
// (new), in table column order (time first, then monday..friday) and slot
// order within each column. Hour labels come from the new table. Cell text
// is compared verbatim; newline flattening is a presentation concern.
func (w *WeekTable) Diff(other *WeekTable) []CellDiff {
	var diffs []CellDiff
	theirs := other.Columns()
	for i, col := range w.Columns() {
		newCells := theirs[i].Cells
		for slot := 0; slot < len(col.Cells) && slot < len(newCells); slot++ {
			if col.Cells[slot] == newCells[slot] {
				continue
			}
			hour := ""
			if slot < len(other.Time) {
				hour = other.Time[slot]
			}
			diffs = append(diffs, CellDiff{
				Day:  col.Name,
				Hour: hour,
				Old:  col.Cells[slot],
				New:  newCells[slot],
			})
		}
	}
	return diffs
}

// Clone returns a deep copy so snapshot mutation never aliases fetched data.
func (w *WeekTable) Clone() WeekTable {
	return WeekTable{
		Time:      cloneCells(w.Time),
		Monday:    cloneCells(w.Monday),
		Tuesday:   cloneCells(w.Tuesday),
		Wednesday: cloneCells(w.Wednesday),
		Thursday:  cloneCells(w.Thursday),
		Friday:    cloneCells(w.Friday),
	}
}

// FlattenCell renders one cell on a single line for plain-text output.
func FlattenCell(text string) string {
	return strings.ReplaceAll(text, "\n", "; ")
}

func equalCells(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneCells(cells []string) []string {
	if cells == nil {
		return nil
	}
	out := make([]string, len(cells))
	copy(out, cells)
	return out
}
