package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mxfeinberg/agtalk-scraper/internal/config"
	"github.com/mxfeinberg/agtalk-scraper/internal/database"
	"github.com/mxfeinberg/agtalk-scraper/internal/fetch"
)

// testLogger returns a logger that discards all output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// forumServer simulates the forum: one listing page linking one thread
// whose flat view spans two pages of posts followed by an empty page.
// It records how often each page was requested.
type forumServer struct {
	mu       sync.Mutex
	requests map[string]int
	server   *httptest.Server
}

func newForumServer(t *testing.T) *forumServer {
	t.Helper()

	fs := &forumServer{requests: make(map[string]int)}
	fs.server = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *forumServer) handle(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	fs.requests[r.URL.Path+"?"+r.URL.RawQuery]++
	fs.mu.Unlock()

	switch {
	case r.URL.Path == "/forums/forum-view.asp":
		fmt.Fprint(w, `<html><body>
		<a href="/forums/thread-view.asp?tid=42&mid=1">Test Thread</a>
		<a href="/forums/thread-view.asp?tid=42&bookmark=51">Test Thread again</a>
		</body></html>`)

	case r.URL.Path == "/forums/thread-view.asp":
		switch r.URL.Query().Get("start") {
		case "":
			fmt.Fprint(w, threadPage(
				[]string{"First post body with plenty of content.", "Second post body with plenty of content."},
				`<a href="thread-view.asp?tid=42&start=51&displaytype=flat">2</a>`,
			))
		case "51":
			fmt.Fprint(w, threadPage(
				[]string{"Third post body with plenty of content."},
				`<a href="thread-view.asp?tid=42&start=101&displaytype=flat">3</a>`,
			))
		default:
			// Page 3 and beyond: no post markers at all.
			fmt.Fprint(w, `<html><head><title>Viewing a thread - Test Thread</title></head><body></body></html>`)
		}

	default:
		http.NotFound(w, r)
	}
}

// threadPage builds one flat-view page with the given post bodies and
// navigation links.
func threadPage(bodies []string, nav string) string {
	page := `<html><head><title>Viewing a thread - Test Thread</title></head><body><table>`
	for i, body := range bodies {
		page += fmt.Sprintf(`
		<tr><td class="messageheader">
			<a href="/members/view-profile.asp?member=%d">Poster%d</a>
			<span class="smalltext">Posted 03/14/2024 9:05</span>
		</td></tr>
		<tr><td class="messagemiddle">chrome</td><td class="messagemiddle">%s</td></tr>`, i+1, i+1, body)
	}
	page += `</table>` + nav + `</body></html>`
	return page
}

// count returns how often the given path+query was requested.
func (fs *forumServer) count(key string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.requests[key]
}

// newTestScraper builds a Scraper against the fixture server with a real
// database in a temp directory.
func newTestScraper(t *testing.T, fs *forumServer, db *database.PostDB) (*Scraper, *config.Config) {
	t.Helper()

	cfg := config.NewConfig()
	cfg.BaseURL = fs.server.URL
	cfg.ForumIDs = []int{3}
	cfg.StartPage = 1
	cfg.MaxPages = 1
	cfg.MaxRetries = 0

	client := fetch.NewClient(cfg.Timeout, fetch.WithDelay(0))
	return New(cfg, client, &fetch.Policy{}, db, testLogger()), cfg
}

// TestRun tests the full crawl state machine against the fixture forum.
func TestRun(t *testing.T) {
	t.Parallel()

	fs := newForumServer(t)
	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	s, cfg := newTestScraper(t, fs, db)

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	t.Run("stores every post of the drained thread", func(t *testing.T) {
		if stats.PostsStored != 3 {
			t.Errorf("expected 3 posts stored, got %d", stats.PostsStored)
		}
		if stats.ThreadsScraped != 1 {
			t.Errorf("expected 1 thread scraped, got %d", stats.ThreadsScraped)
		}
	})

	t.Run("differently decorated links collapse to one thread walk", func(t *testing.T) {
		// The listing links the thread twice with different decoration;
		// page 1 of the thread must still be fetched exactly once.
		if got := fs.count("/forums/thread-view.asp?tid=42&DisplayType=flat"); got != 1 {
			t.Errorf("expected thread page 1 fetched once, got %d", got)
		}
	})

	t.Run("traversal stops at the empty page", func(t *testing.T) {
		if got := fs.count("/forums/thread-view.asp?tid=42&start=101&displaytype=flat"); got != 1 {
			t.Errorf("expected empty page fetched exactly once, got %d", got)
		}
		if got := fs.count("/forums/thread-view.asp?tid=42&start=151&displaytype=flat"); got != 0 {
			t.Errorf("expected no fetch past the empty page, got %d", got)
		}
	})

	t.Run("post numbers are dense across thread pages", func(t *testing.T) {
		posts, err := db.PostsByThread(context.Background(), "42")
		if err != nil {
			t.Fatalf("failed to list posts: %v", err)
		}
		if len(posts) != 3 {
			t.Fatalf("expected 3 posts, got %d", len(posts))
		}
		threadURL := cfg.BaseURL + "/forums/thread-view.asp?tid=42&DisplayType=flat"
		for i, post := range posts {
			if post.PostNumber != i+1 {
				t.Errorf("post %d: expected number %d, got %d", i, i+1, post.PostNumber)
			}
			wantURL := fmt.Sprintf("%s#post%d", threadURL, i+1)
			if post.URL != wantURL {
				t.Errorf("post %d: expected URL %s, got %s", i, wantURL, post.URL)
			}
		}
	})

	t.Run("second run stores nothing new", func(t *testing.T) {
		s2, _ := newTestScraper(t, fs, db)
		stats2, err := s2.Run(context.Background())
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}
		if stats2.PostsStored != 0 {
			t.Errorf("expected 0 new posts on second run, got %d", stats2.PostsStored)
		}
		if stats2.ThreadsSkipped != 1 {
			t.Errorf("expected thread skipped on second run, got %d", stats2.ThreadsSkipped)
		}
		// The thread pages must not have been fetched again.
		if got := fs.count("/forums/thread-view.asp?tid=42&DisplayType=flat"); got != 1 {
			t.Errorf("expected thread page 1 still fetched once, got %d", got)
		}
	})
}

// countingFetcher counts Get invocations and always fails.
type countingFetcher struct {
	mu    sync.Mutex
	calls int
}

func (f *countingFetcher) Get(_ context.Context, _ string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil, errors.New("unexpected fetch")
}

// denyPolicy rejects every path.
type denyPolicy struct{}

func (denyPolicy) CanFetch(string) bool { return false }

// TestRunRobotsDenied tests that a robots denial aborts before any fetch.
func TestRunRobotsDenied(t *testing.T) {
	t.Parallel()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	cfg.BaseURL = "http://127.0.0.1:1"
	fetcher := &countingFetcher{}

	s := New(cfg, fetcher, denyPolicy{}, db, testLogger())

	_, err = s.Run(context.Background())
	if !errors.Is(err, ErrRobotsDisallowed) {
		t.Fatalf("expected ErrRobotsDisallowed, got %v", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("expected zero transport invocations, got %d", fetcher.calls)
	}
}

// TestRunCancellation tests that cancellation returns partial statistics.
func TestRunCancellation(t *testing.T) {
	t.Parallel()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	cfg.BaseURL = "http://127.0.0.1:1"
	fetcher := &countingFetcher{}

	s := New(cfg, fetcher, &fetch.Policy{}, db, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stats == nil {
		t.Fatal("expected partial statistics, got nil")
	}
}
