package domain_test

import (
	"testing"

	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWeek() domain.WeekTable {
	return domain.WeekTable{
		Time:      []string{"08:00", "09:45"},
		Monday:    []string{"maths", "physics"},
		Tuesday:   []string{"", "chemistry"},
		Wednesday: []string{"biology", ""},
		Thursday:  []string{"", ""},
		Friday:    []string{"history", "art"},
	}
}

func TestWeekTable_Equal(t *testing.T) {
	t.Parallel()

	a := testWeek()
	b := testWeek()
	assert.True(t, a.Equal(&b))

	b.Wednesday[1] = "ONLINE CLASS"
	assert.False(t, a.Equal(&b))

	assert.False(t, a.Equal(nil))
}

func TestWeekTable_Equal_LengthMismatch(t *testing.T) {
	t.Parallel()

	a := testWeek()
	b := testWeek()
	b.Friday = b.Friday[:1]
	assert.False(t, a.Equal(&b))
}

func TestWeekTable_Diff(t *testing.T) {
	t.Parallel()

	old := testWeek()
	updated := testWeek()
	updated.Monday[0] = "maths\nroom 12"
	updated.Friday[1] = "drawing"

	diffs := old.Diff(&updated)
	require.Len(t, diffs, 2)

	assert.Equal(t, domain.CellDiff{
		Day:  "monday",
		Hour: "08:00",
		Old:  "maths",
		New:  "maths\nroom 12",
	}, diffs[0])
	assert.Equal(t, domain.CellDiff{
		Day:  "friday",
		Hour: "09:45",
		Old:  "art",
		New:  "drawing",
	}, diffs[1])
}

func TestWeekTable_Diff_TimeColumn(t *testing.T) {
	t.Parallel()

	old := testWeek()
	updated := testWeek()
	updated.Time[1] = "10:00"

	diffs := old.Diff(&updated)
	require.Len(t, diffs, 1)
	assert.Equal(t, domain.CellDiff{
		Day:  "time",
		Hour: "10:00",
		Old:  "09:45",
		New:  "10:00",
	}, diffs[0])
}

func TestWeekTable_Diff_Identical(t *testing.T) {
	t.Parallel()

	a := testWeek()
	b := testWeek()
	assert.Empty(t, a.Diff(&b))
}

func TestWeekTable_Diff_ExactCells(t *testing.T) {
	t.Parallel()

	// Every differing cell is reported, no more, no fewer.
	old := testWeek()
	updated := testWeek()
	updated.Tuesday[0] = "latin"
	updated.Tuesday[1] = "greek"
	updated.Thursday[0] = "gym"

	diffs := old.Diff(&updated)
	require.Len(t, diffs, 3)
	got := map[string]string{}
	for _, d := range diffs {
		got[d.Day+"@"+d.Hour] = d.New
	}
	assert.Equal(t, map[string]string{
		"tuesday@08:00":  "latin",
		"tuesday@09:45":  "greek",
		"thursday@08:00": "gym",
	}, got)
}

func TestWeekTable_Clone(t *testing.T) {
	t.Parallel()

	a := testWeek()
	b := a.Clone()
	b.Monday[0] = "changed"
	assert.Equal(t, "maths", a.Monday[0])
	assert.False(t, a.Equal(&b))
}

func TestFlattenCell(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "maths; room 12", domain.FlattenCell("maths\nroom 12"))
	assert.Equal(t, "plain", domain.FlattenCell("plain"))
}
