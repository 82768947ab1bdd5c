package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mxfeinberg/agtalk-scraper/internal/config"
	"github.com/mxfeinberg/agtalk-scraper/internal/database"
	"github.com/mxfeinberg/agtalk-scraper/internal/report"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics over stored posts",
		Long: `Stats reports how much has been scraped so far: total posts, distinct
authors, distinct threads, and the post date range.

Examples:
  agtalk-scraper stats
  agtalk-scraper stats --markdown`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}

	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown instead of plain text")

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	db, err := openExistingDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.GetStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	markdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	if markdown {
		return report.WriteMarkdown(cmd.OutOrStdout(), stats)
	}
	return report.WriteText(cmd.OutOrStdout(), stats)
}

// openExistingDB opens the database read-style commands use: the file must
// already exist, because an empty database would only mask a wrong --db-dir.
func openExistingDB(cmd *cobra.Command) (*database.PostDB, error) {
	dbDir := getDBDirFlag(cmd)
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database (run scrape first?): %w", err)
	}
	return db, nil
}
