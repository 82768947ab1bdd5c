package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpillora/backoff"
	"golang.org/x/net/html"

	"github.com/mxfeinberg/agtalk-scraper/internal/config"
	"github.com/mxfeinberg/agtalk-scraper/internal/extract"
	"github.com/mxfeinberg/agtalk-scraper/internal/model"
)

// forumRootPath is the path checked against robots.txt before any crawl
// request is issued. Every listing and thread URL lives under it.
const forumRootPath = "/forums/"

// ErrRobotsDisallowed is returned when robots.txt forbids fetching the
// forum root. The run aborts before a single crawl request is made.
var ErrRobotsDisallowed = errors.New("scraping not allowed by robots.txt")

// Fetcher retrieves a URL's body. Satisfied by fetch.Client.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// PolicyChecker answers whether a path may be fetched. Satisfied by
// fetch.Policy.
type PolicyChecker interface {
	CanFetch(path string) bool
}

// Store is the persistence surface the crawl needs. Satisfied by
// database.PostDB.
type Store interface {
	ThreadExists(ctx context.Context, threadID string) (bool, error)
	PostExists(ctx context.Context, url string) (bool, error)
	UpsertPost(ctx context.Context, record *model.PostRecord) error
}

// RunStats aggregates per-unit outcomes of one crawl run.
//
// Design decision: failures are tallied here instead of silently swallowed
// at each call site. The crawl is best-effort, so a failed listing page or
// thread is skipped rather than fatal, but the run report should say how
// much was skipped.
type RunStats struct {
	// ListingPages is the number of listing pages fetched successfully.
	ListingPages int

	// ListingFailures is the number of listing pages skipped after
	// fetch or parse failures.
	ListingFailures int

	// ThreadsSkipped is the number of discovered threads already present
	// in the store.
	ThreadsSkipped int

	// ThreadsScraped is the number of new threads walked to completion.
	ThreadsScraped int

	// ThreadFailures is the number of threads abandoned mid-walk after a
	// page fetch failed. Posts stored before the failure are kept.
	ThreadFailures int

	// PostsStored is the number of new post records written. This is the
	// run's primary result.
	PostsStored int

	// PostFailures is the number of records whose upsert failed.
	PostFailures int
}

// Scraper drives the crawl: it enumerates listing pages, discovers threads,
// walks each new thread to completion, and persists extracted posts.
//
// The traversal is strictly sequential with one request in flight at a
// time; the transport's post-response delay is the sole rate limiter and
// only bounds the aggregate rate correctly because requests are serialized.
type Scraper struct {
	cfg       *config.Config
	client    Fetcher
	policy    PolicyChecker
	store     Store
	extractor *extract.Extractor
	logger    *slog.Logger
}

// New creates a Scraper.
func New(cfg *config.Config, client Fetcher, policy PolicyChecker, store Store, logger *slog.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		client: client,
		policy: policy,
		store:  store,
		extractor: extract.New(
			extract.WithMinContentLength(cfg.MinContentLength),
			extract.WithMaxTitleLength(cfg.MaxTitleLength),
		),
		logger: logger,
	}
}

// Run executes one full crawl and returns its statistics.
//
// The robots policy is checked exactly once, up front: a disallowed forum
// root aborts the run with ErrRobotsDisallowed before any crawl request.
// After that, failures are unit-scoped: a bad listing page, thread page or
// record is logged, counted, and skipped. Cancellation is honored between
// units of work; the partial statistics are returned alongside the context
// error.
func (s *Scraper) Run(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{}

	if !s.policy.CanFetch(forumRootPath) {
		return stats, ErrRobotsDisallowed
	}

	endPage := s.cfg.StartPage + s.cfg.MaxPages - 1
	s.logger.Info("starting crawl",
		"forums", s.cfg.ForumIDs,
		"startPage", s.cfg.StartPage,
		"endPage", endPage,
		"delay", s.cfg.RequestDelay,
	)

	// Round-robin across forums: all forums' page 1 before any page 2, so
	// an interrupted run has seen the freshest threads of every forum.
	for page := s.cfg.StartPage; page <= endPage; page++ {
		for _, forumID := range s.cfg.ForumIDs {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			if err := s.scrapeListingPage(ctx, forumID, page, stats); err != nil {
				if isCancellation(err) {
					return stats, err
				}
				stats.ListingFailures++
				s.logger.Error("listing page failed, skipping",
					"forum", forumID, "page", page, "error", err)
			}
		}
	}

	s.logger.Info("crawl finished",
		"postsStored", stats.PostsStored,
		"threadsScraped", stats.ThreadsScraped,
		"threadsSkipped", stats.ThreadsSkipped,
		"listingFailures", stats.ListingFailures,
		"threadFailures", stats.ThreadFailures,
		"postFailures", stats.PostFailures,
	)

	return stats, nil
}

// scrapeListingPage fetches one listing page, extracts its thread links,
// and walks every thread not yet present in the store.
func (s *Scraper) scrapeListingPage(ctx context.Context, forumID, page int, stats *RunStats) error {
	listingURL := ListingPageURL(s.cfg.BaseURL, forumID, page)

	doc, err := s.fetchDocument(ctx, listingURL)
	if err != nil {
		return err
	}
	stats.ListingPages++

	links := s.extractor.ThreadLinks(doc, s.cfg.BaseURL)
	s.logger.Info("listing page scraped", "url", listingURL, "threads", len(links))

	for _, threadURL := range links {
		if err := ctx.Err(); err != nil {
			return err
		}

		threadID := extract.ThreadID(threadURL)
		if threadID == "" {
			// Uncanonicalized topic/reply link; nothing to dedup on, and
			// the thread walker needs a tid to paginate. Skip it.
			s.logger.Debug("thread link without tid, skipping", "url", threadURL)
			continue
		}

		exists, err := s.store.ThreadExists(ctx, threadID)
		if err != nil {
			s.logger.Error("thread existence check failed, skipping", "thread", threadID, "error", err)
			continue
		}
		if exists {
			stats.ThreadsSkipped++
			s.logger.Debug("thread already stored, skipping", "thread", threadID)
			continue
		}

		if err := s.scrapeThread(ctx, threadURL, threadID, stats); err != nil {
			if isCancellation(err) {
				return err
			}
			stats.ThreadFailures++
			s.logger.Error("thread abandoned", "thread", threadID, "error", err)
		}
	}

	return nil
}

// scrapeThread walks every page of a thread's flat view and persists the
// extracted posts.
//
// There is no page cap: once a thread is started it is drained completely,
// so the store never holds a silently truncated thread. The walk stops when
// a page yields zero posts or no navigation link points past the current
// page. Post numbers continue across pages, giving each thread a dense
// 1..N sequence independent of where the forum's 50-post page boundary
// falls.
func (s *Scraper) scrapeThread(ctx context.Context, threadURL, threadID string, stats *RunStats) error {
	accepted := 0

	for page := 1; ; page++ {
		pageURL := ThreadPageURL(s.cfg.BaseURL, threadID, page)

		doc, err := s.fetchDocument(ctx, pageURL)
		if err != nil {
			if accepted > 0 {
				// Keep what we have; the thread counts as failed.
				return fmt.Errorf("thread page %d: %w", page, err)
			}
			return err
		}

		posts := s.extractor.Posts(doc, pageURL)
		if len(posts) == 0 {
			// An empty page signals the end of the thread.
			break
		}

		for i := range posts {
			record := &posts[i]

			// Canonical per-post identity: the thread URL plus a dense
			// post index, stable even if the site's page boundary shifts
			// between runs.
			record.PostNumber = accepted + 1
			record.URL = fmt.Sprintf("%s#post%d", threadURL, record.PostNumber)
			accepted++

			exists, err := s.store.PostExists(ctx, record.URL)
			if err != nil {
				stats.PostFailures++
				s.logger.Error("post existence check failed", "url", record.URL, "error", err)
				continue
			}
			if exists {
				continue
			}

			if err := s.store.UpsertPost(ctx, record); err != nil {
				stats.PostFailures++
				s.logger.Error("post upsert failed", "url", record.URL, "error", err)
				continue
			}
			stats.PostsStored++

			if stats.PostsStored%10 == 0 {
				s.logger.Info("progress", "postsStored", stats.PostsStored)
			}
		}

		if !extract.HasNextPage(doc, nextPageStart(page)) {
			break
		}
	}

	if accepted == 0 {
		s.logger.Warn("no posts extracted from thread", "thread", threadID)
	} else {
		stats.ThreadsScraped++
		s.logger.Debug("thread drained", "thread", threadID, "posts", accepted)
	}

	return nil
}

// fetchDocument retrieves a URL with bounded retry and parses the body as
// HTML.
//
// Retries use exponential backoff seeded from the configured retry delay.
// The request stays serialized: the backoff sleep happens on this single
// crawl goroutine, on top of the transport's own post-response delay.
func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*html.Node, error) {
	b := &backoff.Backoff{
		Min:    s.cfg.RetryDelay,
		Max:    4 * s.cfg.RetryDelay,
		Factor: 2,
		Jitter: true,
	}

	var body []byte
	var err error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		body, err = s.client.Get(ctx, pageURL)
		if err == nil {
			break
		}
		if isCancellation(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < s.cfg.MaxRetries {
			wait := b.Duration()
			s.logger.Warn("fetch failed, retrying",
				"url", pageURL, "attempt", attempt+1, "wait", wait, "error", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// isCancellation reports whether err stems from context cancellation or
// deadline expiry, directly or wrapped.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
