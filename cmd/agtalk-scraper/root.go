package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the scraper.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agtalk-scraper",
		Short: "Respectful scraper for the AgTalk discussion forum",
		Long: `agtalk-scraper incrementally harvests posts from the AgTalk discussion
forum (talk.newagtalk.com) into a local SQLite database.

It is deliberately slow and polite: it honors robots.txt, identifies
itself with a descriptive User-Agent, issues one request at a time, and
pauses after every response. Threads already present in the database are
never re-scraped, so repeated runs only pick up new content.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("db-dir", "", "Directory holding the SQLite database (default: XDG data dir)")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
