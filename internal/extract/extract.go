// Package extract pulls the watched facts out of fetched HTML pages:
// the plan page's background color, the link to a group's timetable,
// the timetable grid itself, and the class-cancellation list.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/planwatch/internal/domain"
)

// Extraction errors.
var (
	// ErrNoStyle is returned when the page has no <style> element.
	ErrNoStyle = errors.New("no style element in page")

	// ErrNoBackgroundColor is returned when the style sheet has no background color rule.
	ErrNoBackgroundColor = errors.New("no background color in style")

	// ErrNoGroupLink is returned when no group link matches the pattern.
	ErrNoGroupLink = errors.New("no group link matches pattern")

	// ErrNoTable is returned when the page has no <table> element.
	ErrNoTable = errors.New("no table element in page")

	// ErrNoCancelContainer is returned when the cancellations container is missing.
	ErrNoCancelContainer = errors.New("no cancellations container in page")
)

// backgroundColorRe matches the inline style rule carrying the plan color,
// e.g. "background-color:#CD61B8;". The captured group is the bare hex value.
var backgroundColorRe = regexp.MustCompile(`(?i)background-color:#(.{6});`)

// cancelRowRe matches the class attribute of cancellation list items.
var cancelRowRe = regexp.MustCompile(`views-row views-row-.*`)

// timetableColumns is the expected cell count per data row (hour + 5 weekdays).
const timetableColumns = 6

// CompileGroupPattern compiles a group pattern the way the index page is
// searched: case-insensitive and anchored to the start of the link text.
func CompileGroupPattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("compile group pattern %q: %w", pattern, err)
	}
	return re, nil
}

// BackgroundColor extracts the page background color from the first <style>
// element. Returns the 6-character hex value without the leading '#'.
func BackgroundColor(doc *goquery.Document) (string, error) {
	style := doc.Find("style").First()
	if style.Length() == 0 {
		return "", ErrNoStyle
	}

	matches := backgroundColorRe.FindStringSubmatch(style.Text())
	if matches == nil {
		return "", ErrNoBackgroundColor
	}

	return matches[1], nil
}

// GroupHref finds the href of the first anchor in the first table whose text
// matches the compiled group pattern.
func GroupHref(doc *goquery.Document, pattern *regexp.Regexp) (string, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return "", ErrNoTable
	}

	var href string
	var found bool

	table.Find("td > a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !pattern.MatchString(a.Text()) {
			return true
		}

		value, exists := a.Attr("href")
		if !exists {
			return true
		}

		href = value
		found = true
		return false
	})

	if !found {
		return "", ErrNoGroupLink
	}

	return href, nil
}

// Timetable parses the first <table> into a weekly grid. The header row is
// skipped; every data row must carry exactly an hour cell plus one cell per
// weekday. Line breaks inside cells become newlines in the cell text.
func Timetable(doc *goquery.Document) (*domain.WeekTable, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	week := &domain.WeekTable{}

	var rowErr error
	table.Find("tr").EachWithBreak(func(rowNum int, row *goquery.Selection) bool {
		// The first row holds the day names.
		if rowNum == 0 {
			return true
		}

		cells := row.Find("td")
		if cells.Length() != timetableColumns {
			rowErr = fmt.Errorf("table row %d has %d cells, want %d (hour + 5 weekdays)",
				rowNum, cells.Length(), timetableColumns)
			return false
		}

		week.Time = append(week.Time, normalizeHour(cellText(cells.Eq(0))))
		week.Monday = append(week.Monday, cellText(cells.Eq(1)))
		week.Tuesday = append(week.Tuesday, cellText(cells.Eq(2)))
		week.Wednesday = append(week.Wednesday, cellText(cells.Eq(3)))
		week.Thursday = append(week.Thursday, cellText(cells.Eq(4)))
		week.Friday = append(week.Friday, cellText(cells.Eq(5)))
		return true
	})

	if rowErr != nil {
		return nil, rowErr
	}

	return week, nil
}

// Cancellations parses the class-cancellation list into a date-keyed map.
// Malformed list items are skipped; the skipped count is returned so callers
// can log it.
func Cancellations(doc *goquery.Document) (entries map[string]string, skipped int, err error) {
	container := doc.Find("div#tresc_wlasciwa").First()
	if container.Length() == 0 {
		return nil, 0, ErrNoCancelContainer
	}

	entries = make(map[string]string)

	container.Find("li").Each(func(_ int, li *goquery.Selection) {
		class, _ := li.Attr("class")
		if !cancelRowRe.MatchString(class) {
			return
		}

		anchor := li.Find("a").First()
		spans := li.Find("span")
		if anchor.Length() == 0 || spans.Length() < 2 {
			skipped++
			return
		}

		title := strings.TrimRight(strings.TrimSpace(anchor.Text()), ".")
		date := strings.TrimSpace(spans.Eq(1).Text())
		entries[date] = title
	})

	return entries, skipped, nil
}

// normalizeHour canonicalizes an hour label: dots become colons and a
// single-digit hour gains a leading zero ("9.45" -> "09:45").
func normalizeHour(text string) string {
	text = strings.ReplaceAll(text, ".", ":")
	hour, _, _ := strings.Cut(text, ":")
	if len(hour) == 1 {
		text = "0" + text
	}
	return text
}

// cellText renders a cell's text with element boundaries (like <br>) as
// newlines: each text node is trimmed, empty ones are dropped, and the rest
// are joined with "\n".
func cellText(cell *goquery.Selection) string {
	var parts []string

	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, node *goquery.Selection) {
			if goquery.NodeName(node) == "#text" {
				if text := strings.TrimSpace(node.Text()); text != "" {
					parts = append(parts, text)
				}
				return
			}
			walk(node)
		})
	}
	walk(cell)

	return strings.Join(parts, "\n")
}
