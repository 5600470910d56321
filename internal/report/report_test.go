package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/report"
)

func reportSnapshot() *domain.PlanSnapshot {
	snap := domain.DefaultPlan()
	snap.Metadata.LastChangeTable = "2024-03-01 12:30:05"
	snap.Current.Monday[0] = "MATH\nROOM 12"
	snap.Current.Friday[2] = "PHYSICS"
	return snap
}

func TestRender_Layout(t *testing.T) {
	t.Parallel()
	page, err := report.Render(reportSnapshot())
	require.NoError(t, err)

	assert.Contains(t, page, "<title> lesson plan </title>")
	assert.Contains(t, page, "<h1>--- current plan @ 2024-03-01 12:30:05 ---</h1>")
	assert.Contains(t, page, "<h1>--- previous plan ---</h1>")
	assert.Contains(t, page, "tr:nth-child(even)")
	assert.True(t, strings.HasSuffix(page, "</html>\n"))

	for _, header := range []string{"Time", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		assert.Contains(t, page, "<th>"+header+"</th>")
	}
	assert.Less(t, strings.Index(page, "<th>Time</th>"), strings.Index(page, "<th>Monday</th>"))
}

func TestRender_RowsPerSlot(t *testing.T) {
	t.Parallel()
	page, err := report.Render(reportSnapshot())
	require.NoError(t, err)

	// Two tables, each with one header row and seven slot rows.
	assert.Equal(t, 16, strings.Count(page, "<tr>"))
	assert.Equal(t, 2, strings.Count(page, "<td>08:00</td>"))
}

func TestRender_NewlinesBecomeLineBreaks(t *testing.T) {
	t.Parallel()
	page, err := report.Render(reportSnapshot())
	require.NoError(t, err)

	assert.Contains(t, page, "<td>MATH<br>ROOM 12</td>")
}

func TestRender_EscapesCellText(t *testing.T) {
	t.Parallel()
	snap := reportSnapshot()
	snap.Current.Tuesday[0] = "<script>alert(1)</script>"

	page, err := report.Render(snap)
	require.NoError(t, err)

	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestRender_RaggedColumns(t *testing.T) {
	t.Parallel()
	snap := reportSnapshot()
	snap.Current.Monday = []string{"MATH"}

	page, err := report.Render(snap)
	require.NoError(t, err)

	// The current table shrinks to the shortest column, the previous one
	// keeps its seven rows.
	assert.Equal(t, 10, strings.Count(page, "<tr>"))
}

func TestSave_WritesPage(t *testing.T) {
	t.Parallel()
	snap := reportSnapshot()
	path := filepath.Join(t.TempDir(), "output.html")

	require.NoError(t, report.Save(path, snap))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	rendered, err := report.Render(snap)
	require.NoError(t, err)
	assert.Equal(t, rendered, string(body))
}
