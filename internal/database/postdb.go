package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mxfeinberg/agtalk-scraper/internal/model"
)

// dbFileName is the SQLite database file created inside the data directory.
const dbFileName = "agtalk.db"

// PostDB provides SQLite-based storage for forum posts.
//
// Design decision: a single database file holding one posts table rather
// than per-forum files. Threads from different forums share the URL
// namespace anyway, and one file keeps backup and inspection trivial.
type PostDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures PostDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent read
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a PostDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*PostDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; the crawl is single-writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pdb := &PostDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pdb, nil
}

// Close closes the database connection.
func (pdb *PostDB) Close() error {
	return pdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (pdb *PostDB) createTables() error {
	schema := `
	-- One row per forum post, keyed by canonical post URL.
	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		author TEXT,
		post_date DATETIME,
		content TEXT NOT NULL,
		thread_id TEXT,
		post_number INTEGER,
		scraped_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_posts_url ON posts(url);
	CREATE INDEX IF NOT EXISTS idx_posts_thread_id ON posts(thread_id);
	CREATE INDEX IF NOT EXISTS idx_posts_scraped_at ON posts(scraped_at);
	CREATE INDEX IF NOT EXISTS idx_posts_post_date ON posts(post_date);
	`

	_, err := pdb.db.ExecContext(context.Background(), schema)
	return err
}

// UpsertPost inserts a post record or, when the URL already exists, updates
// every mutable field and refreshes scraped_at. The URL itself never
// changes: it is the record's identity.
func (pdb *PostDB) UpsertPost(ctx context.Context, record *model.PostRecord) error {
	query := `
	INSERT INTO posts (url, title, author, post_date, content, thread_id, post_number)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		title = excluded.title,
		author = excluded.author,
		post_date = excluded.post_date,
		content = excluded.content,
		thread_id = excluded.thread_id,
		post_number = excluded.post_number,
		scraped_at = CURRENT_TIMESTAMP
	`

	_, err := pdb.db.ExecContext(ctx, query,
		record.URL,
		record.Title,
		record.Author,
		formatPostDate(record.PostDate),
		record.Content,
		record.ThreadID,
		record.PostNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert post: %w", err)
	}

	return nil
}

// PostExists reports whether a post with the given URL is already stored.
func (pdb *PostDB) PostExists(ctx context.Context, url string) (bool, error) {
	var one int
	err := pdb.db.QueryRowContext(ctx, "SELECT 1 FROM posts WHERE url = ?", url).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return true, nil
}

// ThreadExists reports whether any post of the given thread is already
// stored. Threads are re-walked only when nothing from them has been
// persisted, so a partially stored thread still counts as seen.
func (pdb *PostDB) ThreadExists(ctx context.Context, threadID string) (bool, error) {
	var one int
	err := pdb.db.QueryRowContext(ctx, "SELECT 1 FROM posts WHERE thread_id = ? LIMIT 1", threadID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check thread existence: %w", err)
	}
	return true, nil
}

// Count returns the total number of stored posts.
func (pdb *PostDB) Count(ctx context.Context) (int, error) {
	var count int
	if err := pdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// PostsByThread returns all stored posts for a thread ordered by post
// number.
func (pdb *PostDB) PostsByThread(ctx context.Context, threadID string) ([]model.PostRecord, error) {
	query := `
	SELECT url, title, author, post_date, content, thread_id, post_number, scraped_at
	FROM posts
	WHERE thread_id = ?
	ORDER BY post_number
	`

	rows, err := pdb.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts by thread: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// Search returns posts whose title or content contains the search term,
// most recently scraped first. SQLite's LIKE is case-insensitive for ASCII,
// which is sufficient for a forum that posts in English.
func (pdb *PostDB) Search(ctx context.Context, term string) ([]model.PostRecord, error) {
	query := `
	SELECT url, title, author, post_date, content, thread_id, post_number, scraped_at
	FROM posts
	WHERE title LIKE ? OR content LIKE ?
	ORDER BY scraped_at DESC
	`

	pattern := "%" + term + "%"
	rows, err := pdb.db.QueryContext(ctx, query, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// Stats contains aggregate statistics over the stored posts.
type Stats struct {
	// TotalPosts is the number of stored post records.
	TotalPosts int

	// UniqueAuthors is the number of distinct non-empty author names.
	UniqueAuthors int

	// UniqueThreads is the number of distinct thread identifiers.
	UniqueThreads int

	// EarliestPost is the oldest parsed post date, zero when no post
	// carries a date.
	EarliestPost time.Time

	// LatestPost is the newest parsed post date, zero when no post
	// carries a date.
	LatestPost time.Time
}

// GetStats computes aggregate statistics over the stored posts.
func (pdb *PostDB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := pdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&stats.TotalPosts); err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	err := pdb.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT author) FROM posts WHERE author IS NOT NULL AND author != ''",
	).Scan(&stats.UniqueAuthors)
	if err != nil {
		return nil, fmt.Errorf("failed to count authors: %w", err)
	}

	err = pdb.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT thread_id) FROM posts WHERE thread_id IS NOT NULL AND thread_id != ''",
	).Scan(&stats.UniqueThreads)
	if err != nil {
		return nil, fmt.Errorf("failed to count threads: %w", err)
	}

	var earliest, latest sql.NullString
	err = pdb.db.QueryRowContext(ctx,
		"SELECT MIN(post_date), MAX(post_date) FROM posts WHERE post_date IS NOT NULL",
	).Scan(&earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("failed to get post date range: %w", err)
	}
	if earliest.Valid {
		stats.EarliestPost = parseTimestamp(earliest.String)
	}
	if latest.Valid {
		stats.LatestPost = parseTimestamp(latest.String)
	}

	return stats, nil
}

// Reset drops and recreates the posts table, discarding all stored posts.
func (pdb *PostDB) Reset(ctx context.Context) error {
	if _, err := pdb.db.ExecContext(ctx, "DROP TABLE IF EXISTS posts"); err != nil {
		return fmt.Errorf("failed to drop posts table: %w", err)
	}
	if err := pdb.createTables(); err != nil {
		return fmt.Errorf("failed to recreate posts table: %w", err)
	}
	return nil
}

// scanPosts reads PostRecords from a result set with the standard column
// order used by all queries in this package.
func scanPosts(rows *sql.Rows) ([]model.PostRecord, error) {
	var posts []model.PostRecord
	for rows.Next() {
		var record model.PostRecord
		var author sql.NullString
		var threadID sql.NullString
		var postDate sql.NullString
		var scrapedAt sql.NullString

		err := rows.Scan(
			&record.URL,
			&record.Title,
			&author,
			&postDate,
			&record.Content,
			&threadID,
			&record.PostNumber,
			&scrapedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		record.Author = author.String
		record.ThreadID = threadID.String
		if postDate.Valid {
			record.PostDate = parseTimestamp(postDate.String)
		}
		if scrapedAt.Valid {
			record.ScrapedAt = parseTimestamp(scrapedAt.String)
		}

		posts = append(posts, record)
	}

	return posts, rows.Err()
}

// formatPostDate converts a post date to the SQLite text form, or nil when
// the date is absent so the column stays NULL.
func formatPostDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format("2006-01-02 15:04:05")
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
