package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/mxfeinberg/agtalk-scraper/internal/database"
)

// dateDisplayFormat is how post dates appear in stats output.
const dateDisplayFormat = "2006-01-02 15:04"

// WriteText writes store statistics as plain key/value text.
func WriteText(w io.Writer, stats *database.Stats) error {
	_, err := fmt.Fprintf(w,
		"Total posts:    %d\nUnique authors: %d\nUnique threads: %d\nEarliest post:  %s\nLatest post:    %s\n",
		stats.TotalPosts,
		stats.UniqueAuthors,
		stats.UniqueThreads,
		formatDate(stats.EarliestPost),
		formatDate(stats.LatestPost),
	)
	return err
}

// WriteMarkdown writes store statistics as a GitHub-flavored Markdown
// report.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation: type-safe builders for headers and tables beat hand-
// concatenated strings once tables are involved.
func WriteMarkdown(w io.Writer, stats *database.Stats) error {
	md := markdown.NewMarkdown(w)

	md.H1("AgTalk Scrape Statistics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total posts", strconv.Itoa(stats.TotalPosts)},
			{"Unique authors", strconv.Itoa(stats.UniqueAuthors)},
			{"Unique threads", strconv.Itoa(stats.UniqueThreads)},
			{"Earliest post", formatDate(stats.EarliestPost)},
			{"Latest post", formatDate(stats.LatestPost)},
		},
	})

	return md.Build()
}

// formatDate renders a post date, or "N/A" when no post carried one.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateDisplayFormat)
}
