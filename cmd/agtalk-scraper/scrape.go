package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mxfeinberg/agtalk-scraper/internal/config"
	"github.com/mxfeinberg/agtalk-scraper/internal/database"
	"github.com/mxfeinberg/agtalk-scraper/internal/fetch"
	applog "github.com/mxfeinberg/agtalk-scraper/internal/log"
	"github.com/mxfeinberg/agtalk-scraper/internal/scraper"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Crawl forum listing pages and store new posts",
		Long: `Scrape walks the configured listing pages of one or more forums,
discovers threads, and stores every post of each thread not yet present
in the database.

The crawl is incremental: a thread is skipped as soon as any post from it
is already stored, so repeated runs only add new threads. Failures on
individual pages or threads are logged and skipped; partial completion is
a normal outcome and the command reports how many posts were newly
stored.

Examples:
  # Scrape the first 10 listing pages of forum 3
  agtalk-scraper scrape

  # Scrape two forums with a 5 second delay between requests
  agtalk-scraper scrape --forum-id 3 --forum-id 7 --delay 5s

  # Resume deeper into the listing
  agtalk-scraper scrape --start-page 11 --max-pages 10

  # Start over with an empty database
  agtalk-scraper scrape --reset-db`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	cmd.Flags().IntSliceP("forum-id", "f", nil,
		"Forum ID to scrape (repeatable)")
	cmd.Flags().String("forum-ids", "",
		"Comma-separated list of forum IDs to scrape (e.g. 3,7,12)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of listing pages per forum")
	cmd.Flags().Int("start-page", config.DefaultStartPage,
		"Listing page to start from")
	cmd.Flags().DurationP("delay", "d", config.DefaultRequestDelay,
		"Delay after every HTTP response (minimum 1s)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP request timeout")
	cmd.Flags().Int("max-retries", config.DefaultMaxRetries,
		"Retry attempts for a failed page fetch")
	cmd.Flags().Duration("retry-delay", config.DefaultRetryDelay,
		"Initial backoff between retries")
	cmd.Flags().Bool("reset-db", false,
		"Drop and recreate the posts table before scraping")
	cmd.Flags().Bool("no-file-logging", false,
		"Disable the log file (terminal output only)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .agtalk-scraper in current or home directory)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logFile := cfg.LogFile
	if cfg.NoFileLog {
		logFile = ""
	}
	logger, logCloser, err := applog.New(cfg.Verbose, logFile)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	// Cancel the crawl on SIGINT/SIGTERM; the orchestrator stops at the
	// next unit boundary and returns its partial counts.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing current unit...")
		cancel()
	}()

	return runScrape(ctx, cfg, logger, cmd)
}

// buildConfig creates a Config from the config file and command flags.
// Precedence: defaults, then config file, then explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	explicitConfigPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath := config.FindConfigFile(explicitConfigPath)
	if configPath != "" {
		if err := config.LoadFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", explicitConfigPath)
	}

	forumIDs, err := collectForumIDs(cmd)
	if err != nil {
		return nil, err
	}
	if len(forumIDs) > 0 {
		cfg.ForumIDs = forumIDs
	}

	flags := cmd.Flags()
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("start-page") {
		if cfg.StartPage, err = flags.GetInt("start-page"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delay") {
		if cfg.RequestDelay, err = flags.GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-retries") {
		if cfg.MaxRetries, err = flags.GetInt("max-retries"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("retry-delay") {
		if cfg.RetryDelay, err = flags.GetDuration("retry-delay"); err != nil {
			return nil, err
		}
	}

	if cfg.ResetDB, err = flags.GetBool("reset-db"); err != nil {
		return nil, err
	}
	if cfg.NoFileLog, err = flags.GetBool("no-file-logging"); err != nil {
		return nil, err
	}

	if dbDir := getDBDirFlag(cmd); dbDir != "" {
		cfg.DBDir = dbDir
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// collectForumIDs merges the repeatable --forum-id flag and the
// comma-separated --forum-ids flag, deduplicating while preserving order.
func collectForumIDs(cmd *cobra.Command) ([]int, error) {
	ids := make([]int, 0)
	seen := make(map[int]bool)
	add := func(id int) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	fromFlag, err := cmd.Flags().GetIntSlice("forum-id")
	if err != nil {
		return nil, err
	}
	for _, id := range fromFlag {
		add(id)
	}

	csv, err := cmd.Flags().GetString("forum-ids")
	if err != nil {
		return nil, err
	}
	if csv != "" {
		for _, field := range strings.Split(csv, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("invalid forum ID %q in --forum-ids", field)
			}
			add(id)
		}
	}

	return ids, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getDBDirFlag retrieves the db-dir flag from the command or its parent.
func getDBDirFlag(cmd *cobra.Command) string {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		dbDir, err = cmd.Root().PersistentFlags().GetString("db-dir")
		if err != nil {
			return ""
		}
	}
	return dbDir
}

// runScrape wires the components together and executes the crawl.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger, cmd *cobra.Command) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "dir", cfg.DBDir)

	if cfg.ResetDB {
		logger.Info("resetting database...")
		if err := db.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}

	policy := fetch.LoadPolicy(ctx, cfg.BaseURL, cfg.UserAgent, cfg.Timeout, logger)

	// Honor a robots-specified crawl delay when it is stricter than ours.
	delay := cfg.RequestDelay
	if robotsDelay := policy.CrawlDelay(); robotsDelay > delay {
		logger.Info("robots.txt requests a longer crawl delay", "delay", robotsDelay)
		delay = robotsDelay
	}

	client := fetch.NewClient(cfg.Timeout,
		fetch.WithDelay(delay),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)

	s := scraper.New(cfg, client, policy, db, logger)

	stats, err := s.Run(ctx)
	switch {
	case errors.Is(err, scraper.ErrRobotsDisallowed):
		return err
	case errors.Is(err, context.Canceled):
		logger.Info("scrape interrupted", "postsStored", stats.PostsStored)
	case err != nil:
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scraping completed. Total posts scraped: %d\n", stats.PostsStored)
	return nil
}
