package extract_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/planwatch/internal/extract"
)

// planIndexHTML is a group index page with a background color rule and a
// table of group links.
const planIndexHTML = `<!DOCTYPE html>
<html>
<head>
  <style>
    body { margin: 0; }
    td { Background-Color:#CD61B8; }
  </style>
</head>
<body>
  <table>
    <tr><td><a href="o1.html">2 BA-DUT</a></td></tr>
    <tr><td><a href="o2.html">1 ba-lmt</a></td></tr>
    <tr><td><a href="o3.html">3 MA-ENG</a></td></tr>
  </table>
</body>
</html>`

// unanchoredHTML has a link whose text contains but does not start with the
// group name.
const unanchoredHTML = `<!DOCTYPE html>
<html>
<body>
  <table>
    <tr><td><a href="o9.html">group 1 BA-LMT</a></td></tr>
  </table>
</body>
</html>`

// timetableHTML is a weekly grid with a header row, dotted hours, and a cell
// with a line break.
const timetableHTML = `<!DOCTYPE html>
<html>
<body>
  <table>
    <tr><td>Hour</td><td>Mon</td><td>Tue</td><td>Wed</td><td>Thu</td><td>Fri</td></tr>
    <tr><td>8.00</td><td>MATH<br>ROOM 12</td><td></td><td>PE</td><td></td><td></td></tr>
    <tr><td>9.45</td><td></td><td>IT</td><td></td><td>LAB</td><td></td></tr>
  </table>
</body>
</html>`

// shortRowHTML has a data row with too few cells.
const shortRowHTML = `<!DOCTYPE html>
<html>
<body>
  <table>
    <tr><td>Hour</td><td>Mon</td><td>Tue</td><td>Wed</td><td>Thu</td><td>Fri</td></tr>
    <tr><td>8.00</td><td>MATH</td></tr>
  </table>
</body>
</html>`

// cancelHTML is a cancellation list with two well-formed items, one
// malformed item without an anchor, and one unrelated list item.
const cancelHTML = `<!DOCTYPE html>
<html>
<body>
  <div id="tresc_wlasciwa">
    <ul>
      <li class="views-row views-row-1 views-row-odd">
        <span>icon</span>
        <a href="/node/1">Dr Kowalski cancels classes...</a>
        <span>2022-09-08</span>
      </li>
      <li class="views-row views-row-2 views-row-even">
        <a href="/node/2">Office closed</a>
        <span>badge</span>
        <span>2022-09-09</span>
      </li>
      <li class="views-row views-row-3">
        <span>only</span>
        <span>2022-09-10</span>
      </li>
      <li class="menu-item"><a href="/other">Unrelated</a></li>
    </ul>
  </div>
</body>
</html>`

// minimalHTML has neither style, table, nor cancellation container.
const minimalHTML = `<!DOCTYPE html><html><head></head><body></body></html>`

func parseDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	return doc
}

func TestBackgroundColor(t *testing.T) {
	t.Parallel()

	color, err := extract.BackgroundColor(parseDoc(t, planIndexHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if color != "CD61B8" {
		t.Errorf("expected color CD61B8, got %q", color)
	}
}

func TestBackgroundColor_NoStyle(t *testing.T) {
	t.Parallel()

	_, err := extract.BackgroundColor(parseDoc(t, minimalHTML))
	if !errors.Is(err, extract.ErrNoStyle) {
		t.Errorf("expected ErrNoStyle, got %v", err)
	}
}

func TestBackgroundColor_NoRule(t *testing.T) {
	t.Parallel()

	const page = `<html><head><style>body { margin: 0; }</style></head><body></body></html>`

	_, err := extract.BackgroundColor(parseDoc(t, page))
	if !errors.Is(err, extract.ErrNoBackgroundColor) {
		t.Errorf("expected ErrNoBackgroundColor, got %v", err)
	}
}

func TestGroupHref_CaseInsensitiveMatch(t *testing.T) {
	t.Parallel()

	pattern, err := extract.CompileGroupPattern("^1.*LMT")
	if err != nil {
		t.Fatalf("compile pattern: %v", err)
	}

	href, err := extract.GroupHref(parseDoc(t, planIndexHTML), pattern)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if href != "o2.html" {
		t.Errorf("expected href o2.html, got %q", href)
	}
}

func TestGroupHref_AnchoredAtStart(t *testing.T) {
	t.Parallel()

	pattern, err := extract.CompileGroupPattern("1.*LMT")
	if err != nil {
		t.Fatalf("compile pattern: %v", err)
	}

	_, err = extract.GroupHref(parseDoc(t, unanchoredHTML), pattern)
	if !errors.Is(err, extract.ErrNoGroupLink) {
		t.Errorf("expected ErrNoGroupLink for mid-text match, got %v", err)
	}
}

func TestGroupHref_NoMatch(t *testing.T) {
	t.Parallel()

	pattern, err := extract.CompileGroupPattern("^9.*XYZ")
	if err != nil {
		t.Fatalf("compile pattern: %v", err)
	}

	_, err = extract.GroupHref(parseDoc(t, planIndexHTML), pattern)
	if !errors.Is(err, extract.ErrNoGroupLink) {
		t.Errorf("expected ErrNoGroupLink, got %v", err)
	}
}

func TestGroupHref_NoTable(t *testing.T) {
	t.Parallel()

	pattern, err := extract.CompileGroupPattern("^1")
	if err != nil {
		t.Fatalf("compile pattern: %v", err)
	}

	_, err = extract.GroupHref(parseDoc(t, minimalHTML), pattern)
	if !errors.Is(err, extract.ErrNoTable) {
		t.Errorf("expected ErrNoTable, got %v", err)
	}
}

func TestCompileGroupPattern_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := extract.CompileGroupPattern("["); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestTimetable(t *testing.T) {
	t.Parallel()

	week, err := extract.Timetable(parseDoc(t, timetableHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSlice(t, "Time", []string{"08:00", "09:45"}, week.Time)
	assertSlice(t, "Monday", []string{"MATH\nROOM 12", ""}, week.Monday)
	assertSlice(t, "Tuesday", []string{"", "IT"}, week.Tuesday)
	assertSlice(t, "Wednesday", []string{"PE", ""}, week.Wednesday)
	assertSlice(t, "Thursday", []string{"", "LAB"}, week.Thursday)
	assertSlice(t, "Friday", []string{"", ""}, week.Friday)
}

func TestTimetable_ShortRow(t *testing.T) {
	t.Parallel()

	if _, err := extract.Timetable(parseDoc(t, shortRowHTML)); err == nil {
		t.Error("expected error for row with wrong cell count")
	}
}

func TestTimetable_NoTable(t *testing.T) {
	t.Parallel()

	_, err := extract.Timetable(parseDoc(t, minimalHTML))
	if !errors.Is(err, extract.ErrNoTable) {
		t.Errorf("expected ErrNoTable, got %v", err)
	}
}

func TestCancellations(t *testing.T) {
	t.Parallel()

	entries, skipped, err := extract.Cancellations(parseDoc(t, cancelHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if skipped != 1 {
		t.Errorf("expected 1 skipped item, got %d", skipped)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}

	// Trailing dots are stripped from titles; the date is the second span.
	if entries["2022-09-08"] != "Dr Kowalski cancels classes" {
		t.Errorf("unexpected title for 2022-09-08: %q", entries["2022-09-08"])
	}

	if entries["2022-09-09"] != "Office closed" {
		t.Errorf("unexpected title for 2022-09-09: %q", entries["2022-09-09"])
	}
}

func TestCancellations_MissingContainer(t *testing.T) {
	t.Parallel()

	_, _, err := extract.Cancellations(parseDoc(t, minimalHTML))
	if !errors.Is(err, extract.ErrNoCancelContainer) {
		t.Errorf("expected ErrNoCancelContainer, got %v", err)
	}
}

// --- test helpers ---

func assertSlice(t *testing.T, field string, expected, actual []string) {
	t.Helper()

	if len(actual) != len(expected) {
		t.Errorf("%s: expected %d items, got %d (%v)", field, len(expected), len(actual), actual)
		return
	}

	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("%s[%d]: expected %q, got %q", field, i, expected[i], actual[i])
		}
	}
}
