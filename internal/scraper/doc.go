// Package scraper contains the crawl orchestrator: the state machine that
// turns a configured page range into stored post records.
//
// # Traversal
//
// For each listing page of each configured forum, the orchestrator fetches
// the page, extracts thread links, and walks every thread not already
// present in the store. Threads are drained completely once started, page
// by page, until a page yields no posts or no next-page navigation link
// exists. Discovered posts are renumbered into a dense per-thread sequence,
// given their canonical "{threadURL}#post{n}" identity, and upserted.
//
// # Failure model
//
// The crawl is best-effort. Only two things abort it: robots.txt denying
// the forum root (before any request) and context cancellation (between
// units of work, returning partial statistics). Everything else (a failed
// listing page, an abandoned thread, a rejected record) is logged, counted
// in RunStats, and skipped.
//
// # Concurrency
//
// None, deliberately. One request is in flight at a time on a single
// goroutine; the transport's post-response delay bounds the request rate
// only because requests are serialized.
package scraper
