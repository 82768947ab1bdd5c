package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: package-level sentinel errors rather than error values
// created inside Validate(). Callers can use errors.Is() for programmatic
// handling while the messages stay human-readable. Plain errors.New()
// suffices because none of these need dynamic values.
var (
	// ErrInvalidBaseURL is returned when the base URL is missing a scheme
	// or host. The scraper only speaks http and https.
	ErrInvalidBaseURL = errors.New("invalid base URL: must start with http:// or https://")

	// ErrNoForum is returned when no forum IDs are configured.
	ErrNoForum = errors.New("no forum specified: provide at least one forum ID")

	// ErrInvalidForumID is returned when a forum ID is not positive.
	ErrInvalidForumID = errors.New("invalid forum ID: must be positive")

	// ErrInvalidStartPage is returned when the start page is less than 1.
	// Listing pages are 1-indexed.
	ErrInvalidStartPage = errors.New("invalid start page: must be at least 1")

	// ErrInvalidMaxPages is returned when max pages is less than 1.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be at least 1")

	// ErrRequestDelayTooShort is returned when the request delay is below
	// the politeness floor. The delay is the only rate limiter, so a short
	// delay directly translates to an impolite request rate.
	ErrRequestDelayTooShort = errors.New("request delay too short: must be at least 1 second")

	// ErrInvalidTimeout is returned when the HTTP timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxRetries is returned when the retry count is negative.
	// Use 0 to disable retries.
	ErrInvalidMaxRetries = errors.New("invalid max retries: must be non-negative")

	// ErrInvalidRetryDelay is returned when the retry delay is negative.
	ErrInvalidRetryDelay = errors.New("invalid retry delay: must be non-negative")

	// ErrInvalidMinContentLength is returned when the minimum content
	// length is negative.
	ErrInvalidMinContentLength = errors.New("invalid min content length: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
