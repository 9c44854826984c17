package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBFileName is the name of the cache database inside its directory.
const DBFileName = "pages.db"

// CacheDB provides SQLite-based storage for cached page bodies.
type CacheDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CacheDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CacheDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CacheDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

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

	// mode=rw refuses to create a new file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CacheDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Path returns the database file path.
func (cdb *CacheDB) Path() string {
	return cdb.dbPath
}

// Close closes the database connection.
func (cdb *CacheDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CacheDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		url TEXT PRIMARY KEY,
		body BLOB,
		etag TEXT NOT NULL DEFAULT '',
		last_modified TEXT NOT NULL DEFAULT '',
		status_code INTEGER NOT NULL DEFAULT 0,
		content_type TEXT NOT NULL DEFAULT '',
		fetched_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pages_fetched_at ON pages(fetched_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// Page is a cached response.
type Page struct {
	URL          string
	Body         []byte
	ETag         string
	LastModified string
	StatusCode   int
	ContentType  string
	FetchedAt    time.Time
}

// Put inserts or replaces the cached copy of a URL.
func (cdb *CacheDB) Put(ctx context.Context, page *Page) error {
	query := `
	INSERT INTO pages (url, body, etag, last_modified, status_code, content_type, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		body = excluded.body,
		etag = excluded.etag,
		last_modified = excluded.last_modified,
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		fetched_at = excluded.fetched_at
	`

	_, err := cdb.db.ExecContext(ctx, query,
		page.URL,
		page.Body,
		page.ETag,
		page.LastModified,
		page.StatusCode,
		page.ContentType,
		formatTimestamp(page.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to store page: %w", err)
	}
	return nil
}

// Get retrieves the cached copy of a URL. It returns nil, nil when the URL
// has never been cached.
func (cdb *CacheDB) Get(ctx context.Context, url string) (*Page, error) {
	query := `
	SELECT url, body, etag, last_modified, status_code, content_type, fetched_at
	FROM pages
	WHERE url = ?
	`

	var page Page
	var fetchedAt string

	err := cdb.db.QueryRowContext(ctx, query, url).Scan(
		&page.URL,
		&page.Body,
		&page.ETag,
		&page.LastModified,
		&page.StatusCode,
		&page.ContentType,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	page.FetchedAt = parseTimestamp(fetchedAt)
	return &page, nil
}

// Touch marks the cached copy of a URL as fetched at the given time and
// refreshes its validators when new ones are given. It is used after a 304
// response.
func (cdb *CacheDB) Touch(ctx context.Context, url string, at time.Time, etag, lastModified string) error {
	query := `
	UPDATE pages SET
		fetched_at = ?,
		etag = CASE WHEN ? <> '' THEN ? ELSE etag END,
		last_modified = CASE WHEN ? <> '' THEN ? ELSE last_modified END
	WHERE url = ?
	`

	_, err := cdb.db.ExecContext(ctx, query,
		formatTimestamp(at),
		etag, etag,
		lastModified, lastModified,
		url,
	)
	if err != nil {
		return fmt.Errorf("failed to touch page: %w", err)
	}
	return nil
}

// Delete removes the cached copy of a URL.
func (cdb *CacheDB) Delete(ctx context.Context, url string) error {
	if _, err := cdb.db.ExecContext(ctx, "DELETE FROM pages WHERE url = ?", url); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	return nil
}

// Count returns the number of cached pages.
func (cdb *CacheDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// Prune removes pages fetched before the given time and returns how many
// were removed.
func (cdb *CacheDB) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := cdb.db.ExecContext(ctx, "DELETE FROM pages WHERE fetched_at < ?", formatTimestamp(before))
	if err != nil {
		return 0, fmt.Errorf("failed to prune pages: %w", err)
	}
	return res.RowsAffected()
}

// timestampLayout sorts lexically in time order, which Prune relies on.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the formats accepted when reading timestamps.
// The order matters: the layout written by this package comes first.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05", // SQLite default datetime format
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time, which makes the
// page look stale.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
