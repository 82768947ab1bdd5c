package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// searchSnippetLength caps how much post content a search hit displays.
const searchSnippetLength = 120

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search stored posts by title or content",
		Long: `Search performs a case-insensitive substring search over stored post
titles and content, most recently scraped first.

Examples:
  agtalk-scraper search "cover crops"
  agtalk-scraper search drought`,
		Args: cobra.ExactArgs(1),
		RunE: runSearchCmd,
	}
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	db, err := openExistingDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	posts, err := db.Search(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(posts) == 0 {
		fmt.Fprintln(out, "No matching posts.")
		return nil
	}

	for _, post := range posts {
		date := "unknown date"
		if post.HasDate() {
			date = post.PostDate.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "%s | %s | %s\n", date, post.Author, post.URL)
		fmt.Fprintf(out, "  %s\n", snippet(post.Content, searchSnippetLength))
	}
	fmt.Fprintf(out, "\n%d matching post(s)\n", len(posts))

	return nil
}

// snippet cuts s to at most n runes, appending an ellipsis when truncated.
func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
