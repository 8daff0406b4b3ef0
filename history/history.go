// Package history keeps an optional record of past scrape runs in
// SQLite, one row per (run, tag).
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one tag's outcome within a run.
type Entry struct {
	RunID      uuid.UUID `json:"run_id"`
	Tag        string    `json:"tag"`
	Scraped    int       `json:"scraped"`
	Added      int       `json:"added"`
	Updated    int       `json:"updated"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Store manages the run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT NOT NULL,
		tag TEXT NOT NULL,
		scraped INTEGER NOT NULL,
		added INTEGER NOT NULL,
		updated INTEGER NOT NULL,
		recorded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs (recorded_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one tag's outcome.
func (s *Store) Record(entry Entry) error {
	query := `
		INSERT INTO runs (run_id, tag, scraped, added, updated, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		entry.RunID.String(),
		entry.Tag,
		entry.Scraped,
		entry.Added,
		entry.Updated,
		entry.RecordedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run entry: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first, up to limit.
func (s *Store) Recent(limit int) ([]Entry, error) {
	query := `
		SELECT run_id, tag, scraped, added, updated, recorded_at
		FROM runs
		ORDER BY recorded_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var runIDStr, recordedAtStr string

		if err := rows.Scan(&runIDStr, &entry.Tag, &entry.Scraped,
			&entry.Added, &entry.Updated, &recordedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan run entry: %w", err)
		}

		entry.RunID, _ = uuid.Parse(runIDStr)
		entry.RecordedAt, _ = time.Parse(time.RFC3339, recordedAtStr)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
