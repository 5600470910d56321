package fetch

import (
	"context"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/extract"
	"github.com/jonesrussell/planwatch/internal/logger"
)

// PlanSource resolves the plan facts: the index page's background color, the
// link to the watched group's timetable, and the timetable grid. The two
// page downloads happen at most once per cycle; Reset purges everything.
type PlanSource struct {
	client  *Client
	url     string
	pattern *regexp.Regexp
	log     logger.Interface

	indexPage *goquery.Document
	subLink   string
	subPage   *goquery.Document
	color     string
	table     *domain.WeekTable
}

// NewPlanSource compiles the group pattern and prepares a source reading
// from the given plan index URL.
func NewPlanSource(client *Client, indexURL, groupPattern string, log logger.Interface) (*PlanSource, error) {
	pattern, err := extract.CompileGroupPattern(groupPattern)
	if err != nil {
		return nil, err
	}

	return &PlanSource{
		client:  client,
		url:     indexURL,
		pattern: pattern,
		log:     log,
	}, nil
}

// Color returns the index page's background color, fetching on first use.
func (s *PlanSource) Color(ctx context.Context) (string, error) {
	if s.color != "" {
		return s.color, nil
	}

	if err := s.downloadPages(ctx); err != nil {
		return "", err
	}

	color, err := extract.BackgroundColor(s.indexPage)
	if err != nil {
		return "", fmt.Errorf("extract background color: %w", err)
	}

	s.color = color
	return s.color, nil
}

// Link returns the resolved timetable link, fetching on first use.
func (s *PlanSource) Link(ctx context.Context) (string, error) {
	if s.subLink != "" {
		return s.subLink, nil
	}

	if err := s.downloadPages(ctx); err != nil {
		return "", err
	}

	return s.subLink, nil
}

// Table returns the timetable grid, fetching on first use.
func (s *PlanSource) Table(ctx context.Context) (*domain.WeekTable, error) {
	if s.table != nil {
		return s.table, nil
	}

	if err := s.downloadPages(ctx); err != nil {
		return nil, err
	}

	table, err := extract.Timetable(s.subPage)
	if err != nil {
		return nil, fmt.Errorf("extract timetable: %w", err)
	}

	s.table = table
	return s.table, nil
}

// Reset purges all cached pages and facts so the next access re-fetches.
func (s *PlanSource) Reset() {
	s.indexPage = nil
	s.subLink = ""
	s.subPage = nil
	s.color = ""
	s.table = nil
	s.log.Debug("plan source cache purged")
}

// downloadPages fetches the index page, resolves the group link from it, and
// fetches the timetable page behind that link.
func (s *PlanSource) downloadPages(ctx context.Context) error {
	if s.indexPage != nil && s.subPage != nil {
		return nil
	}

	indexPage, err := s.client.Get(ctx, s.url)
	if err != nil {
		return fmt.Errorf("download plan index: %w", err)
	}

	href, err := extract.GroupHref(indexPage, s.pattern)
	if err != nil {
		return fmt.Errorf("find group link: %w", err)
	}

	subLink := CombineURL(s.url, href)

	subPage, err := s.client.Get(ctx, subLink)
	if err != nil {
		return fmt.Errorf("download timetable page: %w", err)
	}

	s.indexPage = indexPage
	s.subLink = subLink
	s.subPage = subPage
	s.log.Debug("downloaded plan pages", "index_url", s.url, "timetable_url", subLink)

	return nil
}
