package fetch

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/planwatch/internal/extract"
	"github.com/jonesrussell/planwatch/internal/logger"
)

// CancelSource resolves the class-cancellation entries. The page download
// happens at most once per cycle; Reset purges it.
type CancelSource struct {
	client *Client
	url    string
	log    logger.Interface

	page    *goquery.Document
	entries map[string]string
}

// NewCancelSource prepares a source reading from the cancellations page URL.
func NewCancelSource(client *Client, pageURL string, log logger.Interface) *CancelSource {
	return &CancelSource{
		client: client,
		url:    pageURL,
		log:    log,
	}
}

// Entries returns the cancellation entries keyed by date, fetching on first
// use. Malformed list items are counted and logged, not fatal.
func (s *CancelSource) Entries(ctx context.Context) (map[string]string, error) {
	if s.entries != nil {
		return s.entries, nil
	}

	if s.page == nil {
		page, err := s.client.Get(ctx, s.url)
		if err != nil {
			return nil, fmt.Errorf("download cancellations page: %w", err)
		}
		s.page = page
	}

	entries, skipped, err := extract.Cancellations(s.page)
	if err != nil {
		return nil, fmt.Errorf("extract cancellations: %w", err)
	}

	if skipped > 0 {
		s.log.Warn("skipped malformed cancellation entries", "skipped", skipped, "url", s.url)
	}

	s.entries = entries
	return s.entries, nil
}

// Reset purges the cached page and entries so the next access re-fetches.
func (s *CancelSource) Reset() {
	s.page = nil
	s.entries = nil
	s.log.Debug("cancellations source cache purged")
}
