package scraper

import "fmt"

// pageSize is the forum's fixed item count per page: listing pages show 50
// threads and flat thread views show 50 posts. Page N>1 is addressed by an
// offset of 1+(N-1)*50, for both listings (bookmark parameter) and threads
// (start parameter).
const pageSize = 50

// pageOffset returns the forum's 1-based item offset for a page number.
// Page 1 has no offset; page 5 maps to 201.
func pageOffset(page int) int {
	return 1 + (page-1)*pageSize
}

// ListingPageURL builds the URL of one listing page of a forum.
// Page 1 uses the unmodified flat view; later pages carry the bookmark
// offset.
func ListingPageURL(baseURL string, forumID, page int) string {
	if page == 1 {
		return fmt.Sprintf("%s/forums/forum-view.asp?fid=%d&displaytype=flat", baseURL, forumID)
	}
	return fmt.Sprintf("%s/forums/forum-view.asp?fid=%d&bookmark=%d&displaytype=flat", baseURL, forumID, pageOffset(page))
}

// ThreadPageURL builds the URL of one page of a thread's flat view.
// Page 1 is the canonical thread URL; later pages carry the start offset.
func ThreadPageURL(baseURL, threadID string, page int) string {
	if page == 1 {
		return fmt.Sprintf("%s/forums/thread-view.asp?tid=%s&DisplayType=flat", baseURL, threadID)
	}
	return fmt.Sprintf("%s/forums/thread-view.asp?tid=%s&start=%d&displaytype=flat", baseURL, threadID, pageOffset(page))
}

// nextPageStart returns the start offset the next thread page would carry.
// A navigation link with a start value at or beyond this offset means more
// pages exist.
func nextPageStart(page int) int {
	return 1 + page*pageSize
}
