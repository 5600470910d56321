// Package fetch downloads the watched pages and exposes their facts through
// sources that cache per poll cycle. A source downloads lazily on first
// access and serves every later access from cache until Reset.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/planwatch/internal/logger"
)

// DefaultTimeout bounds a single page request.
const DefaultTimeout = 16 * time.Second

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// statusSuccessLow is the lower bound (inclusive) for HTTP success status codes.
const statusSuccessLow = 200

// statusSuccessHigh is the upper bound (exclusive) for HTTP success status codes.
const statusSuccessHigh = 300

// indexSuffixWindow is how far from the end of a base URL a trailing
// "/index.html" is still recognized.
const indexSuffixWindow = 15

// AgentProvider supplies the outbound user-agent string.
type AgentProvider interface {
	UserAgent(ctx context.Context) string
}

// Client downloads pages as parsed documents.
type Client struct {
	httpClient *http.Client
	agents     AgentProvider
	log        logger.Interface
}

// NewClient creates a page client with the default request timeout.
func NewClient(agents AgentProvider, log logger.Interface) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		agents:     agents,
		log:        log,
	}
}

// Get downloads the page at pageURL and parses it into a document.
// Non-2xx responses are errors.
func (c *Client) Get(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %w", reqErr)
	}

	req.Header.Set("User-Agent", c.agents.UserAgent(ctx))

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, doErr)
	}
	defer resp.Body.Close()

	if !isSuccessStatus(resp.StatusCode) {
		return nil, fmt.Errorf("unexpected http status %d for %s", resp.StatusCode, pageURL)
	}

	limited := io.LimitReader(resp.Body, maxResponseBodyBytes)

	doc, parseErr := goquery.NewDocumentFromReader(limited)
	if parseErr != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, parseErr)
	}

	c.log.Debug("downloaded page", "url", pageURL)

	return doc, nil
}

// isSuccessStatus returns true if the HTTP status code is in the 2xx range.
func isSuccessStatus(statusCode int) bool {
	return statusCode >= statusSuccessLow && statusCode < statusSuccessHigh
}

// CombineURL joins a base page URL with an extracted href. A trailing
// "/index.html" on the base is dropped, the base gains exactly one trailing
// slash, and one leading slash is stripped from the href.
func CombineURL(base, href string) string {
	tail := base
	if len(tail) > indexSuffixWindow {
		tail = tail[len(tail)-indexSuffixWindow:]
	}
	if strings.Contains(tail, "/index.html") {
		base = strings.ReplaceAll(base, "/index.html", "")
	}

	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return base + strings.TrimPrefix(href, "/")
}
