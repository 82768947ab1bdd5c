package model

import "time"

// PostRecord represents a single forum post extracted from a thread page.
//
// The URL field is the identity of a post: the store enforces a unique
// constraint on it, and re-scraping the same URL overwrites every other
// field while refreshing ScrapedAt. The orchestrator rewrites URL to the
// canonical "{threadURL}#post{n}" form before persisting, so identity does
// not depend on which physical page of the thread the post appeared on.
type PostRecord struct {
	// URL uniquely identifies the post. It is the thread's canonical URL
	// plus a "#post{n}" fragment.
	URL string `json:"url"`

	// Title is the thread subject, shared by all posts in a thread.
	Title string `json:"title"`

	// Author is the poster's display name. Empty when the profile link
	// text could not be parsed; the empty string is stored as-is.
	Author string `json:"author"`

	// PostDate is when the post was made according to the forum.
	// The zero value means the source date format failed to parse.
	PostDate time.Time `json:"post_date,omitempty"`

	// Content is the normalized post body. Always non-empty: extraction
	// substitutes a placeholder for empty or too-short bodies.
	Content string `json:"content"`

	// ThreadID is the numeric thread identifier from the tid query
	// parameter of the thread URL.
	ThreadID string `json:"thread_id"`

	// PostNumber is the 1-indexed position of the post within its thread,
	// counting only accepted posts. Unique per ThreadID, dense, and
	// monotonically increasing across the thread's pages.
	PostNumber int `json:"post_number"`

	// ScrapedAt is set by the store at insert or update time.
	ScrapedAt time.Time `json:"scraped_at,omitempty"`
}

// HasDate reports whether the post carries a parsed post date.
func (p *PostRecord) HasDate() bool {
	return !p.PostDate.IsZero()
}
