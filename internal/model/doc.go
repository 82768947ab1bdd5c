// Package model defines the core data structures shared across the scraper.
//
// The central type is PostRecord, the normalized form of one forum post.
// PostRecords are produced transiently by the extract package from a single
// HTML document, handed to the database package for persistence, and not
// retained in memory beyond that.
//
// Design decision: We keep models in their own package to avoid circular
// dependencies. Both the extract and database packages need PostRecord, so
// centralizing it prevents import cycles.
package model
