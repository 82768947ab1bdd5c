package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/mxfeinberg/agtalk-scraper/internal/model"
)

// HTML structure markers for the forum's table-based layout. All
// site-specific knowledge lives in this package.
const (
	// classMessageHeader marks the table cell heading each post. Headers
	// without an author profile link are navigation chrome, not posts.
	classMessageHeader = "messageheader"

	// classMessageMiddle marks content cells; the second such cell in the
	// row following a post header holds the post body.
	classMessageMiddle = "messagemiddle"

	// classSmallText marks the annotation spans carrying the post date.
	classSmallText = "smalltext"

	// profilePath identifies author profile links inside post headers.
	profilePath = "view-profile.asp"

	// threadViewPath identifies thread links on listing pages.
	threadViewPath = "thread-view.asp"

	// titlePrefix is prepended by the forum to every thread page title.
	titlePrefix = "Viewing a thread - "
)

// threadIDRe extracts the numeric thread identifier from an href.
var threadIDRe = regexp.MustCompile(`tid=(\d+)`)

// Extractor maps parsed HTML documents to thread links or post records.
// Both operations are pure: they touch no I/O and keep no state between
// calls, so a single Extractor is safely shared across the whole run.
type Extractor struct {
	// minContentLength is the threshold below which post content is
	// replaced by the no-content placeholder.
	minContentLength int

	// maxTitleLength caps extracted thread subjects.
	maxTitleLength int
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithMinContentLength sets the minimum accepted content length.
func WithMinContentLength(n int) ExtractorOption {
	return func(e *Extractor) {
		e.minContentLength = n
	}
}

// WithMaxTitleLength sets the maximum thread subject length.
func WithMaxTitleLength(n int) ExtractorOption {
	return func(e *Extractor) {
		e.maxTitleLength = n
	}
}

// New creates an Extractor.
func New(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		minContentLength: 10,
		maxTitleLength:   200,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ThreadLinks scans every anchor in doc and returns the thread URLs found,
// in document order with exact-string duplicates removed (first occurrence
// wins).
//
// Thread-view links are canonicalized: only the numeric tid is kept and the
// URL is rebuilt in flat display mode, dropping bookmark offsets and any
// other query decoration. This makes the URL a stable dedup key across
// crawl runs regardless of how the listing page happened to link to the
// thread. Topic-view and reply-view links are resolved to absolute URLs
// against baseURL but otherwise left as found.
func (e *Extractor) ThreadLinks(doc *html.Node, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	links := make([]string, 0)
	add := func(link string) {
		if link != "" && !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	}

	for _, a := range findAll(doc, func(n *html.Node) bool { return isElement(n, "a") }) {
		href := getAttr(a, "href")
		if href == "" {
			continue
		}

		switch {
		case strings.Contains(href, threadViewPath) && strings.Contains(href, "tid="):
			if m := threadIDRe.FindStringSubmatch(href); m != nil {
				add(CanonicalThreadURL(baseURL, m[1]))
			}
		case strings.Contains(href, "topic-view.asp"), strings.Contains(href, "reply-view.asp"):
			if ref, err := url.Parse(href); err == nil {
				add(base.ResolveReference(ref).String())
			}
		}
	}

	return links
}

// CanonicalThreadURL builds the canonical flat-display URL for a thread.
// This is the identity key used for cross-run thread deduplication.
func CanonicalThreadURL(baseURL, threadID string) string {
	return fmt.Sprintf("%s/forums/thread-view.asp?tid=%s&DisplayType=flat", baseURL, threadID)
}

// ThreadID returns the numeric thread identifier from a thread URL's query
// string, or empty when absent.
func ThreadID(threadURL string) string {
	u, err := url.Parse(threadURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("tid")
}

// Posts extracts all post records from a thread page in document order.
//
// A post is recognized by a messageheader cell containing an author profile
// link; headers without one are navigation chrome and are skipped without
// consuming a post number. A malformed header never aborts extraction of
// the rest of the document: missing structure simply yields an empty field,
// and a record with neither subject nor content is dropped.
func (e *Extractor) Posts(doc *html.Node, pageURL string) []model.PostRecord {
	subject := e.threadSubject(doc)
	threadID := ThreadID(pageURL)

	headers := findAll(doc, func(n *html.Node) bool {
		return isElement(n, "td") && hasClass(n, classMessageHeader)
	})

	posts := make([]model.PostRecord, 0, len(headers))
	for _, header := range headers {
		authorLink := findFirst(header, func(n *html.Node) bool {
			return isElement(n, "a") && strings.Contains(getAttr(n, "href"), profilePath)
		})
		if authorLink == nil {
			continue
		}

		record := model.PostRecord{
			Title:    subject,
			Author:   cleanText(textContent(authorLink)),
			ThreadID: threadID,
		}

		if date, ok := e.postDate(header); ok {
			record.PostDate = date
		}

		record.Content = e.formatContent(e.postContent(header), subject)
		if record.Content == "" {
			// Neither subject nor content: nothing worth storing.
			continue
		}

		record.PostNumber = len(posts) + 1
		record.URL = fmt.Sprintf("%s#post%d", pageURL, record.PostNumber)
		posts = append(posts, record)
	}

	return posts
}

// threadSubject pulls the thread subject from the document's title element,
// stripping the forum's standard prefix.
func (e *Extractor) threadSubject(doc *html.Node) string {
	titleElem := findFirst(doc, func(n *html.Node) bool { return isElement(n, "title") })
	if titleElem == nil {
		return ""
	}

	title := cleanText(textContent(titleElem))
	title = strings.TrimPrefix(title, titlePrefix)
	return truncate(title, e.maxTitleLength)
}

// postDate finds the post's date annotation. It looks in the header's own
// smalltext span first, then falls back to every smalltext span in the
// header's table row; some forum skins place the date next to the author
// rather than inside the header cell.
func (e *Extractor) postDate(header *html.Node) (date time.Time, ok bool) {
	isSmallText := func(n *html.Node) bool {
		return isElement(n, "span") && hasClass(n, classSmallText)
	}

	if span := findFirst(header, isSmallText); span != nil {
		if date, ok = findPostedDate(cleanText(textContent(span))); ok {
			return date, true
		}
	}

	row := parentElement(header, "tr")
	if row == nil {
		return time.Time{}, false
	}
	for _, span := range findAll(row, isSmallText) {
		if date, ok = findPostedDate(cleanText(textContent(span))); ok {
			return date, true
		}
	}

	return time.Time{}, false
}

// postContent locates the post body: the second messagemiddle cell in the
// table row immediately following the header's row. Missing structure
// yields an empty string.
func (e *Extractor) postContent(header *html.Node) string {
	row := parentElement(header, "tr")
	if row == nil {
		return ""
	}

	contentRow := nextSiblingElement(row, "tr")
	if contentRow == nil {
		return ""
	}

	cells := findAll(contentRow, func(n *html.Node) bool {
		return isElement(n, "td") && hasClass(n, classMessageMiddle)
	})
	if len(cells) < 2 {
		return ""
	}

	return cleanText(textContent(cells[1]))
}

// formatContent wraps normalized post content in the canonical
// "Subject: ..., Post: ..." form. Content that is empty or shorter than the
// configured minimum is replaced by the no-content placeholder; when there
// is no subject either, the empty string signals the caller to drop the
// record.
func (e *Extractor) formatContent(content, subject string) string {
	if len(strings.TrimSpace(content)) < e.minContentLength {
		if subject == "" {
			return ""
		}
		return fmt.Sprintf("Subject: %s, Post: [No additional content]", subject)
	}

	if subject == "" {
		subject = "[No subject]"
	}
	return fmt.Sprintf("Subject: %s, Post: %s", subject, content)
}
