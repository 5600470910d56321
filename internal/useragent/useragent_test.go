package useragent_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	uaconfig "github.com/jonesrussell/planwatch/internal/config/useragent"
	"github.com/jonesrussell/planwatch/internal/logger"
	"github.com/jonesrussell/planwatch/internal/useragent"
)

// lookupPageHTML mimics the reference page listing current user agents.
const lookupPageHTML = `<!DOCTYPE html>
<html>
<body>
  <table class="listing-of-useragents table">
    <tbody>
      <tr><td>
        <ul>
          <li><span class="code">Mozilla/5.0 (X11; Linux x86_64) Chrome/140.0.0.0 Safari/537.36</span></li>
          <li><span class="code">Mozilla/5.0 (older) Chrome/139.0.0.0</span></li>
        </ul>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

// implausiblePageHTML carries an agent string failing the plausibility gate.
const implausiblePageHTML = `<!DOCTYPE html>
<html>
<body>
  <table class="listing-of-useragents">
    <li><span class="code">Lynx/2.9</span></li>
  </table>
</body>
</html>`

func newTestProvider(t *testing.T, url string, bypass bool) *useragent.Provider {
	t.Helper()

	return useragent.NewProvider(&uaconfig.Config{
		Bypass:  bypass,
		URL:     url,
		Timeout: 5 * time.Second,
	}, logger.NewNoOp())
}

func TestUserAgent_ScrapesFirstListedAgent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(lookupPageHTML))
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL, false)

	agent := provider.UserAgent(context.Background())
	expected := "Mozilla/5.0 (X11; Linux x86_64) Chrome/140.0.0.0 Safari/537.36"

	if agent != expected {
		t.Errorf("expected %q, got %q", expected, agent)
	}
}

func TestUserAgent_CachesAcrossCalls(t *testing.T) {
	t.Parallel()

	var requestCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requestCount.Add(1)
		_, _ = w.Write([]byte(lookupPageHTML))
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL, false)

	first := provider.UserAgent(context.Background())
	second := provider.UserAgent(context.Background())

	if first != second {
		t.Errorf("expected identical cached agents, got %q and %q", first, second)
	}

	if actual := requestCount.Load(); actual != 1 {
		t.Errorf("expected 1 lookup request, got %d", actual)
	}
}

func TestUserAgent_FallbackOnServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL, false)

	if agent := provider.UserAgent(context.Background()); agent != useragent.Fallback {
		t.Errorf("expected fallback agent, got %q", agent)
	}
}

func TestUserAgent_FallbackOnImplausibleAgent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(implausiblePageHTML))
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL, false)

	if agent := provider.UserAgent(context.Background()); agent != useragent.Fallback {
		t.Errorf("expected fallback agent, got %q", agent)
	}
}

func TestUserAgent_BypassSkipsLookup(t *testing.T) {
	t.Parallel()

	var requestCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requestCount.Add(1)
		_, _ = w.Write([]byte(lookupPageHTML))
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL, true)

	if agent := provider.UserAgent(context.Background()); agent != useragent.Fallback {
		t.Errorf("expected fallback agent, got %q", agent)
	}

	if actual := requestCount.Load(); actual != 0 {
		t.Errorf("expected no lookup requests with bypass enabled, got %d", actual)
	}
}
