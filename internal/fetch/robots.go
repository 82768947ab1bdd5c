package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
)

// DefaultCrawlDelay is used when robots.txt does not specify a crawl delay
// or when no robots.txt could be loaded.
const DefaultCrawlDelay = 2 * time.Second

// Policy answers "may I fetch path P?" based on the site's robots.txt.
//
// A Policy with a nil handle is valid and allows everything: when
// robots.txt cannot be fetched or parsed we fail open rather than abort the
// run, and the transport's fixed delay compensates with conservative
// behavior. The zero value of Policy is such a fail-open policy.
type Policy struct {
	// data is the parsed robots.txt, or nil when loading failed.
	data *robotstxt.RobotsData

	// userAgent is the agent name matched against robots.txt groups.
	userAgent string
}

// LoadPolicy fetches and parses /robots.txt relative to baseURL.
//
// On any failure (network error, unparsable body, bad base URL) it logs a
// warning and returns a fail-open Policy instead of an error. Refusing to
// crawl because robots.txt is unreachable would be stricter than the
// robots exclusion protocol requires.
//
// The robots.txt fetch deliberately bypasses the rate-limited Client: it
// happens once, before any crawl request, and wraps plain net/http.
func LoadPolicy(ctx context.Context, baseURL, userAgent string, timeout time.Duration, logger *slog.Logger) *Policy {
	policy := &Policy{userAgent: userAgent}

	robotsURL, err := url.JoinPath(baseURL, "/robots.txt")
	if err != nil {
		logger.Warn("could not build robots.txt URL, proceeding fail-open", "baseURL", baseURL, "error", err)
		return policy
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		logger.Warn("could not build robots.txt request, proceeding fail-open", "error", err)
		return policy
	}
	req.Header.Set("User-Agent", userAgent)

	httpClient := &http.Client{Timeout: timeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		logger.Warn("could not load robots.txt, proceeding fail-open", "url", robotsURL, "error", err)
		return policy
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		logger.Warn("could not read robots.txt, proceeding fail-open", "url", robotsURL, "error", err)
		return policy
	}

	// FromStatusAndBytes implements the protocol's status-code rules:
	// 4xx means unrestricted, 5xx means temporarily disallow everything.
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		logger.Warn("could not parse robots.txt, proceeding fail-open", "url", robotsURL, "error", err)
		return policy
	}

	logger.Info("loaded robots.txt", "url", robotsURL)
	policy.data = data
	return policy
}

// CanFetch reports whether robots.txt permits fetching the given path.
// Always true for a fail-open policy.
func (p *Policy) CanFetch(path string) bool {
	if p.data == nil {
		return true
	}
	return p.data.FindGroup(p.userAgent).Test(path)
}

// CrawlDelay returns the crawl delay robots.txt requests for our agent,
// or DefaultCrawlDelay when unspecified or no policy was loaded.
func (p *Policy) CrawlDelay() time.Duration {
	if p.data == nil {
		return DefaultCrawlDelay
	}
	if d := p.data.FindGroup(p.userAgent).CrawlDelay; d > 0 {
		return d
	}
	return DefaultCrawlDelay
}
