package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the forum's observed characteristics (50 threads per listing
// page, flat thread display) and conservative politeness settings.
const (
	// DefaultBaseURL is the forum site root. All listing and thread URLs
	// are built relative to this.
	DefaultBaseURL = "https://talk.newagtalk.com"

	// DefaultForumID is the forum section scraped when none is specified.
	DefaultForumID = 3

	// DefaultRequestDelay is the pause after every HTTP response.
	// This is the sole rate-limiting mechanism: requests are strictly
	// serialized, so the delay bounds the aggregate request rate.
	DefaultRequestDelay = 2 * time.Second

	// MinRequestDelay is the enforced floor for the request delay.
	// Anything faster would be impolite to a small community forum.
	MinRequestDelay = 1 * time.Second

	// DefaultMaxPages is the number of listing pages walked per forum.
	DefaultMaxPages = 10

	// DefaultStartPage is the first listing page to fetch (1-indexed).
	DefaultStartPage = 1

	// DefaultTimeout is the per-request HTTP timeout. The forum runs on
	// modest hardware and can be slow under load, so this is generous.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the number of additional attempts for a failed
	// unit fetch before the unit is skipped.
	DefaultMaxRetries = 3

	// DefaultRetryDelay seeds the backoff between retry attempts.
	DefaultRetryDelay = 5 * time.Second

	// DefaultMinContentLength is the threshold below which a post body is
	// replaced by the no-content placeholder.
	DefaultMinContentLength = 10

	// DefaultMaxTitleLength caps stored thread subjects.
	DefaultMaxTitleLength = 200

	// DefaultUserAgent identifies the scraper in HTTP requests.
	// A descriptive User-Agent lets the site operator identify and
	// contact us if the crawl causes problems.
	DefaultUserAgent = "AgTalk-Respectful-Scraper/1.0 (Educational Purpose)"

	// DefaultMaxBodySize limits how much of a response body is read.
	// Forum pages are small; 5MB prevents memory exhaustion from an
	// unexpectedly large response.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths and
	// the default log file name.
	AppName = "agtalk-scraper"

	// DefaultLogFile is the log file written next to the working
	// directory unless file logging is disabled.
	DefaultLogFile = "agtalk_scraper.log"
)

// Config holds all configuration for a scrape run.
// It is populated from the YAML config file and CLI flags, validated once
// before any I/O, and treated as immutable for the rest of the run.
//
// Design decision: a single flat struct rather than nested sub-structs
// (FetchConfig, StoreConfig, ...). The option count is manageable and every
// component receives the same value, so nesting would only add indirection.
type Config struct {
	// BaseURL is the forum site root, scheme included.
	BaseURL string

	// ForumIDs lists the forum sections to scrape. A single forum is
	// simply a one-element list; there is no special-cased single-forum
	// path anywhere in the code.
	ForumIDs []int

	// StartPage is the first listing page to fetch, 1-indexed.
	StartPage int

	// MaxPages is the number of listing pages to walk per forum.
	// Listing pages [StartPage, StartPage+MaxPages-1] are fetched.
	MaxPages int

	// RequestDelay is the mandatory pause after every HTTP response.
	// Validated against MinRequestDelay.
	RequestDelay time.Duration

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts for a failed unit fetch.
	// Zero disables retries; the unit is skipped after the first failure.
	MaxRetries int

	// RetryDelay seeds the exponential backoff between retries.
	RetryDelay time.Duration

	// MinContentLength is the threshold below which extracted post
	// content is replaced by the placeholder text.
	MinContentLength int

	// MaxTitleLength caps stored thread subjects.
	MaxTitleLength int

	// UserAgent is sent with every HTTP request, including the
	// robots.txt fetch.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// DBDir is the directory holding the SQLite database file.
	// Defaults to the XDG data directory.
	DBDir string

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// ResetDB drops and recreates the posts table before scraping.
	ResetDB bool

	// NoFileLog disables the log file; logs go to the terminal only.
	NoFileLog bool

	// LogFile is the log file path when file logging is enabled.
	LogFile string
}

// NewConfig returns a Config populated with defaults.
//
// Design decision: a constructor instead of relying on zero values because
// most defaults are non-zero, and the constructor doubles as documentation
// of what those defaults are.
func NewConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		ForumIDs:         []int{DefaultForumID},
		StartPage:        DefaultStartPage,
		MaxPages:         DefaultMaxPages,
		RequestDelay:     DefaultRequestDelay,
		Timeout:          DefaultTimeout,
		MaxRetries:       DefaultMaxRetries,
		RetryDelay:       DefaultRetryDelay,
		MinContentLength: DefaultMinContentLength,
		MaxTitleLength:   DefaultMaxTitleLength,
		UserAgent:        DefaultUserAgent,
		MaxBodySize:      DefaultMaxBodySize,
		DBDir:            XDGDataDir(),
		LogFile:          DefaultLogFile,
	}
}

// XDGDataDir returns the XDG data directory for the scraper.
// On Linux: ~/.local/share/agtalk-scraper
// On macOS: ~/Library/Application Support/agtalk-scraper
// On Windows: %LOCALAPPDATA%\agtalk-scraper
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns a sentinel error describing
// the first problem found. It is called once after flag parsing, before any
// network or database I/O.
//
// We return the first error rather than collecting all of them because
// fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if len(c.ForumIDs) == 0 {
		return ErrNoForum
	}
	for _, id := range c.ForumIDs {
		if id < 1 {
			return ErrInvalidForumID
		}
	}

	if c.StartPage < 1 {
		return ErrInvalidStartPage
	}
	if c.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	if c.RequestDelay < MinRequestDelay {
		return ErrRequestDelayTooShort
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if c.RetryDelay < 0 {
		return ErrInvalidRetryDelay
	}

	if c.MinContentLength < 0 {
		return ErrInvalidMinContentLength
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
