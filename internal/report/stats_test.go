package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mxfeinberg/agtalk-scraper/internal/database"
)

func sampleStats() *database.Stats {
	return &database.Stats{
		TotalPosts:    150,
		UniqueAuthors: 42,
		UniqueThreads: 17,
		EarliestPost:  time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		LatestPost:    time.Date(2024, 6, 20, 17, 30, 0, 0, time.UTC),
	}
}

// TestWriteText tests the plain text statistics output.
func TestWriteText(t *testing.T) {
	t.Parallel()

	t.Run("renders all metrics", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := WriteText(&buf, sampleStats()); err != nil {
			t.Fatalf("failed to write stats: %v", err)
		}

		got := buf.String()
		for _, want := range []string{"150", "42", "17", "2024-01-10 08:00", "2024-06-20 17:30"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, got)
			}
		}
	})

	t.Run("renders missing dates as N/A", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := WriteText(&buf, &database.Stats{}); err != nil {
			t.Fatalf("failed to write stats: %v", err)
		}
		if !strings.Contains(buf.String(), "N/A") {
			t.Errorf("expected N/A for missing dates, got:\n%s", buf.String())
		}
	})
}

// TestWriteMarkdown tests the Markdown statistics report.
func TestWriteMarkdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, sampleStats()); err != nil {
		t.Fatalf("failed to write markdown stats: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "# AgTalk Scrape Statistics") {
		t.Errorf("expected a top-level heading, got:\n%s", got)
	}
	for _, want := range []string{"Total posts", "150", "Unique authors", "42", "2024-01-10 08:00"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}
