// Package main provides the entry point for the AgTalk scraper CLI.
//
// The scraper incrementally harvests posts from the AgTalk discussion
// forum, respecting robots.txt and a mandatory inter-request delay, and
// stores them in a local SQLite database.
//
// Usage:
//
//	agtalk-scraper scrape --forum-id 3 --max-pages 10
//	agtalk-scraper stats
//	agtalk-scraper search "cover crops"
//
// See --help for all available options.
package main

// main is the entry point for the scraper.
func main() {
	Execute()
}
