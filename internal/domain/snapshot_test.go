package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlan(t *testing.T) {
	t.Parallel()

	plan := domain.DefaultPlan()

	require.Len(t, plan.Current.Time, 7)
	assert.Equal(t, "08:00", plan.Current.Time[0])
	assert.Equal(t, "18:30", plan.Current.Time[6])
	for _, day := range plan.Current.Days() {
		require.Len(t, day.Cells, len(plan.Current.Time), day.Name)
		for _, cell := range day.Cells {
			assert.Equal(t, domain.Sentinel, cell)
		}
	}

	assert.Zero(t, plan.Metadata.CurrentIteration)
	assert.Equal(t, domain.Sentinel, plan.Metadata.CurrentColor)
	assert.Equal(t, domain.Sentinel, plan.Metadata.CurrentLink)
	assert.Empty(t, plan.Metadata.PreviousColors)
	assert.Empty(t, plan.Metadata.PreviousLinks)
	assert.Equal(t, "1970-01-01 00:00", plan.Metadata.LastChangeColor)
}

func TestDefaultCancel(t *testing.T) {
	t.Parallel()

	cancel := domain.DefaultCancel()

	require.Len(t, cancel.Current, 20)
	assert.Equal(t, domain.Sentinel, cancel.Current["1970-01-01 00:01"])
	assert.Equal(t, domain.Sentinel, cancel.Current["1970-01-01 00:20"])
	assert.True(t, domain.EqualEntries(cancel.Current, cancel.Previous))
	assert.Zero(t, cancel.Metadata.CurrentIteration)
	assert.Equal(t, "1970-01-01 00:00", cancel.Metadata.LastChange)
}

func TestHistory_SortedOldestFirst(t *testing.T) {
	t.Parallel()

	entries := domain.History(map[string]string{
		"2022-10-03 09:00:00": "CCDDEE",
		"2022-09-01 12:00:00": "AABBCC",
		"2022-09-15 08:30:00": "BBCCDD",
	})

	require.Len(t, entries, 3)
	assert.Equal(t, "AABBCC", entries[0].Value)
	assert.Equal(t, "BBCCDD", entries[1].Value)
	assert.Equal(t, "CCDDEE", entries[2].Value)
}

func TestNewEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		previous map[string]string
		current  map[string]string
		want     map[string]string
	}{
		{
			name:     "one added",
			previous: map[string]string{"d1": "a"},
			current:  map[string]string{"d1": "a", "d2": "b"},
			want:     map[string]string{"d2": "b"},
		},
		{
			name:     "removal only",
			previous: map[string]string{"d1": "a", "d2": "b"},
			current:  map[string]string{"d1": "a"},
			want:     map[string]string{},
		},
		{
			name:     "value change is not a new entry",
			previous: map[string]string{"d1": "a"},
			current:  map[string]string{"d1": "changed"},
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.NewEntries(tt.previous, tt.current))
		})
	}
}

func TestEqualEntries(t *testing.T) {
	t.Parallel()

	a := map[string]string{"d1": "a", "d2": "b"}
	assert.True(t, domain.EqualEntries(a, map[string]string{"d2": "b", "d1": "a"}))
	assert.False(t, domain.EqualEntries(a, map[string]string{"d1": "a"}))
	assert.False(t, domain.EqualEntries(a, map[string]string{"d1": "a", "d2": "x"}))
	assert.False(t, domain.EqualEntries(a, map[string]string{"d1": "a", "d3": "b"}))
}

func TestEntriesNewestFirst(t *testing.T) {
	t.Parallel()

	entries := domain.EntriesNewestFirst(map[string]string{
		"2022-09-08": "XYZ cancels their classes",
		"2022-10-01": "ABC cancels their classes",
		"2022-08-20": "older notice",
	})

	require.Len(t, entries, 3)
	assert.Equal(t, "2022-10-01", entries[0].Date)
	assert.Equal(t, "2022-09-08", entries[1].Date)
	assert.Equal(t, "2022-08-20", entries[2].Date)
}

func TestPlanSnapshot_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	plan := domain.DefaultPlan()
	plan.Metadata.CurrentIteration = 3
	plan.Metadata.CurrentColor = "AABBCC"
	plan.Metadata.PreviousColors["2022-09-01 12:00:00"] = "001122"

	raw, err := json.Marshal(plan)
	require.NoError(t, err)

	var got domain.PlanSnapshot
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, *plan, got)
}

func TestEvent(t *testing.T) {
	t.Parallel()

	e := domain.NewEvent(domain.KindColorChanged, "2022-09-01 12:00:00", 2)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, domain.KindColorChanged, e.Kind)
	assert.Equal(t, 2, e.Iteration)
	assert.True(t, e.PlanKind())

	c := domain.NewEvent(domain.KindCancellationsChanged, "2022-09-01 12:00:00", 1)
	assert.False(t, c.PlanKind())
}
