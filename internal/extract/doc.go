// Package extract maps parsed HTML documents to normalized scraper data.
//
// It contains every piece of site-structure-specific knowledge: the CSS
// class names of the forum's table layout, the URL shapes of thread links,
// the title prefix, and the date annotation format. Nothing else in the
// codebase knows what the forum's HTML looks like.
//
// # Operations
//
//   - ThreadLinks: listing page document -> ordered, deduplicated thread
//     URLs, with thread-view links rebuilt in canonical flat-display form.
//   - Posts: thread page document -> ordered PostRecords with normalized
//     content.
//
// Design decision: We use golang.org/x/net/html rather than regex over raw
// bytes because:
//  1. It correctly handles the malformed table soup the forum emits
//  2. Provides a proper DOM-like structure for row/sibling navigation
//  3. More maintainable than complex regex patterns
//
// Both operations are pure functions over the document tree. They never
// fail: malformed markers are skipped and missing structure yields empty
// fields, so one broken post cannot lose the rest of the page.
package extract
