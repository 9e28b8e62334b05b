package cache

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

// FileName is the name of the database file inside the cache directory.
const FileName = "responses.db"

// Store is a persistent response cache backed by a single SQLite file.
// One Store is shared by every fetch of a run.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default cache options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Entry is one cached response.
type Entry struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time

	// Size is the body length. List fills it without loading the body.
	Size int64
}

// Stats summarizes the content of the cache.
type Stats struct {
	// Entries is the number of cached responses.
	Entries int

	// Bytes is the total size of the cached bodies.
	Bytes int64

	// Oldest and Newest are the fetch times of the oldest and newest entries.
	// Both are zero when the cache is empty.
	Oldest time.Time
	Newest time.Time
}

// Open opens or creates the cache in dir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("cache not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check cache path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// Fetches are sequential; a single connection is enough.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Path returns the path of the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		url TEXT PRIMARY KEY,
		status_code INTEGER NOT NULL,
		content_type TEXT,
		body BLOB NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_responses_fetched_at ON responses(fetched_at);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Get returns the cached response for url.
// It returns nil without an error when the URL is not cached.
func (s *Store) Get(ctx context.Context, url string) (*Entry, error) {
	query := `
	SELECT url, status_code, content_type, body, fetched_at
	FROM responses
	WHERE url = ?
	`

	var entry Entry
	var contentType sql.NullString
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, query, url).Scan(
		&entry.URL,
		&entry.StatusCode,
		&contentType,
		&entry.Body,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached response: %w", err)
	}

	entry.ContentType = contentType.String
	entry.FetchedAt = parseTimestamp(fetchedAt)
	entry.Size = int64(len(entry.Body))

	return &entry, nil
}

// Put stores a response, replacing any previous entry for the same URL.
func (s *Store) Put(ctx context.Context, entry *Entry) error {
	query := `
	INSERT INTO responses (url, status_code, content_type, body)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		body = excluded.body,
		fetched_at = CURRENT_TIMESTAMP
	`

	body := entry.Body
	if body == nil {
		body = []byte{}
	}

	if _, err := s.db.ExecContext(ctx, query,
		entry.URL,
		entry.StatusCode,
		entry.ContentType,
		body,
	); err != nil {
		return fmt.Errorf("failed to store response: %w", err)
	}

	return nil
}

// List returns every cached entry without its body, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	query := `
	SELECT url, status_code, content_type, length(body), fetched_at
	FROM responses
	ORDER BY fetched_at DESC, url
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached responses: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var contentType sql.NullString
		var fetchedAt string

		if err := rows.Scan(&entry.URL, &entry.StatusCode, &contentType, &entry.Size, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached response: %w", err)
		}

		entry.ContentType = contentType.String
		entry.FetchedAt = parseTimestamp(fetchedAt)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Stats returns the number of entries, their total size and the fetch time range.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	query := `
	SELECT COUNT(*), COALESCE(SUM(length(body)), 0),
		COALESCE(MIN(fetched_at), ''), COALESCE(MAX(fetched_at), '')
	FROM responses
	`

	var stats Stats
	var oldest, newest string
	if err := s.db.QueryRowContext(ctx, query).Scan(&stats.Entries, &stats.Bytes, &oldest, &newest); err != nil {
		return Stats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}

	stats.Oldest = parseTimestamp(oldest)
	stats.Newest = parseTimestamp(newest)

	return stats, nil
}

// Clear removes every cached response and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM responses")
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return result.RowsAffected()
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

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, it returns the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
