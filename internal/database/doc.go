// Package database provides SQLite-based storage for scraped forum posts.
//
// The PostDB stores one row per post keyed by canonical post URL with
// upsert-on-conflict semantics: inserting an existing URL updates every
// mutable field and refreshes scraped_at. Existence checks on canonical
// URLs give the crawl its cross-run idempotence.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a
// server database because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. A single-writer sequential crawl needs no more concurrency than
//     SQLite provides
//  4. WAL mode gives good read performance for the query surface
package database
