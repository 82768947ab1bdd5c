package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrBadStatus is returned (wrapped) when the server answers with a
// non-2xx status. Callers can use errors.Is to distinguish HTTP-level
// failures from network failures.
var ErrBadStatus = errors.New("unexpected HTTP status")

// Client issues rate-limited HTTP GET requests on behalf of the scraper.
// It is the single point through which all crawl traffic flows.
//
// Every successful request is followed by an unconditional pause of the
// configured delay before control returns to the caller. Combined with the
// strictly sequential crawl loop this is the scraper's sole rate-limiting
// mechanism: one request in flight at a time, each separated by the delay.
//
// Design decision: the delay lives in the transport rather than the
// orchestrator so that no code path can issue a request without paying it.
type Client struct {
	// httpClient performs the actual requests. It carries the configured
	// timeout.
	httpClient *http.Client

	// userAgent is sent with every request. A fixed, self-identifying
	// string so the site operator can recognize scraper traffic.
	userAgent string

	// delay is the pause after each response.
	delay time.Duration

	// maxBodySize caps how much of a response body is read.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithDelay sets the post-response delay.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		c.delay = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// Used by tests to avoid real timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client with the given request timeout.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		userAgent:   "AgTalk-Respectful-Scraper/1.0 (Educational Purpose)",
		delay:       2 * time.Second,
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get fetches pageURL and returns the response body.
//
// A non-2xx status is an error. Network failures and timeouts are returned
// as-is; there is no internal retry (retry policy belongs to the caller).
// After a successful response the configured delay is paid before returning,
// unless the context is cancelled first, in which case the context error is
// returned and the body discarded.
func (c *Client) Get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d for %s", ErrBadStatus, resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, err
	}

	// Politeness delay, paid between every two requests unconditionally.
	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.delay):
		}
	}

	return body, nil
}
