// Package useragent resolves the browser identity sent with outbound
// requests. The current Chrome user-agent string is scraped once per process
// from a reference page; any failure falls back to a pinned string.
package useragent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	uaconfig "github.com/jonesrussell/planwatch/internal/config/useragent"
	"github.com/jonesrussell/planwatch/internal/logger"
)

// Fallback is the pinned Chrome user agent used when the lookup is bypassed
// or fails. It may grow stale; the watched site does not appear to check.
const Fallback = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/105.0.0.0 Safari/537.36"

// minAgentLength is the shortest string accepted as a plausible user agent.
const minAgentLength = 5

// maxLookupBodyBytes limits the size of the lookup page response.
const maxLookupBodyBytes = 2 * 1024 * 1024 // 2 MB

// Provider resolves and caches the outbound user-agent string.
// The lookup happens at most once per process; the result (scraped or
// fallback) is cached for every later call.
type Provider struct {
	url        string
	bypass     bool
	httpClient *http.Client
	log        logger.Interface

	once   sync.Once
	cached string
}

// NewProvider creates a Provider from the lookup configuration.
func NewProvider(cfg *uaconfig.Config, log logger.Interface) *Provider {
	url := cfg.URL
	if url == "" {
		url = uaconfig.DefaultLookupURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = uaconfig.DefaultTimeout
	}

	return &Provider{
		url:        url,
		bypass:     cfg.Bypass,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// UserAgent returns the cached user-agent string, resolving it on first use.
// It never fails: lookup problems are logged and the fallback is cached.
func (p *Provider) UserAgent(ctx context.Context) string {
	p.once.Do(func() {
		p.cached = p.resolve(ctx)
	})

	return p.cached
}

// resolve performs the one-time lookup and picks the string to cache.
func (p *Provider) resolve(ctx context.Context) string {
	if p.bypass {
		p.log.Warn("user agent lookup bypass is enabled, caching fallback",
			"fallback", Fallback)
		return Fallback
	}

	agent, err := p.lookup(ctx)
	if err != nil {
		p.log.Warn("failed to look up latest user agent, caching fallback",
			"error", err.Error(),
			"fallback", Fallback)
		return Fallback
	}

	p.log.Info("resolved latest user agent", "user_agent", agent)
	return agent
}

// lookup fetches the reference page and extracts the first listed agent.
func (p *Provider) lookup(ctx context.Context) (string, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if reqErr != nil {
		return "", fmt.Errorf("create request: %w", reqErr)
	}

	// The lookup itself goes out with the fallback identity.
	req.Header.Set("User-Agent", Fallback)

	resp, doErr := p.httpClient.Do(req)
	if doErr != nil {
		return "", fmt.Errorf("fetch lookup page: %w", doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("unexpected http status %d from lookup page", resp.StatusCode)
	}

	doc, parseErr := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxLookupBodyBytes))
	if parseErr != nil {
		return "", fmt.Errorf("parse lookup page: %w", parseErr)
	}

	agent := strings.TrimSpace(doc.
		Find("table.listing-of-useragents").First().
		Find("li").First().
		Find("span.code").First().
		Text())

	if err := validateAgent(agent); err != nil {
		return "", err
	}

	return agent, nil
}

// validateAgent rejects scraped strings that cannot be a Chrome user agent.
func validateAgent(agent string) error {
	if len(agent) < minAgentLength {
		return fmt.Errorf("scraped agent %q is shorter than %d characters, probably malformed",
			agent, minAgentLength)
	}

	lower := strings.ToLower(agent)
	for _, name := range []string{"mozilla", "chrome"} {
		if !strings.Contains(lower, name) {
			return fmt.Errorf("scraped agent %q does not contain %q, probably malformed", agent, name)
		}
	}

	return nil
}
