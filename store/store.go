// Package store persists per-tag article collections into one JSON
// document per calendar month.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tagtrawl/tagtrawl"
)

// Store is the monthly document: a mapping from tag name to its
// ordered article collection. It is loaded once at startup and
// rewritten after every tag completes, so a crash mid-run loses only
// the in-progress tag.
type Store struct {
	path string
	tags map[string][]tagtrawl.Article
}

// Filename returns the document name for the month containing now,
// e.g. "medium-articles-2024-09.json".
func Filename(now time.Time) string {
	return fmt.Sprintf("medium-articles-%s.json", now.Format("2006-01"))
}

// Open loads the current month's document from dir, creating dir if
// needed. A missing or corrupt document is treated as an empty store,
// never as a fatal error; the next Save rewrites it.
func Open(dir string, now time.Time) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	s := &Store{
		path: filepath.Join(dir, Filename(now)),
		tags: make(map[string][]tagtrawl.Article),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		// First run this month, or unreadable file. Start empty.
		return s, nil
	}
	if err := json.Unmarshal(data, &s.tags); err != nil {
		// Corrupt document: recover with an empty store.
		s.tags = make(map[string][]tagtrawl.Article)
	}
	if s.tags == nil {
		s.tags = make(map[string][]tagtrawl.Article)
	}
	return s, nil
}

// Path returns the document's location on disk.
func (s *Store) Path() string {
	return s.path
}

// Tags returns the tag names present in the store.
func (s *Store) Tags() []string {
	names := make([]string, 0, len(s.tags))
	for name := range s.tags {
		names = append(names, name)
	}
	return names
}

// Collection returns the stored collection for tag, nil when absent.
func (s *Store) Collection(tag string) []tagtrawl.Article {
	return s.tags[tag]
}

// Merge reconciles freshly scraped articles against the stored
// collection for tag and replaces it with the result. A fresh URL
// already present refreshes only the existing record's claps and
// comments (title, createdAt, and publishedAt stay as first captured)
// and counts as updated; an unknown URL is appended and counts as new.
// Stored entries not re-observed are carried over unchanged. The
// merged collection is re-sorted by claps descending and holds each
// URL at most once.
func (s *Store) Merge(tag string, fresh []tagtrawl.Article) (newCount, updatedCount int) {
	existing := s.tags[tag]

	index := make(map[string]tagtrawl.Article, len(existing))
	for _, a := range existing {
		index[a.URL] = a
	}

	merged := make([]tagtrawl.Article, 0, len(existing)+len(fresh))
	pos := make(map[string]int, len(fresh))

	for _, f := range fresh {
		entry := f
		if prior, ok := index[f.URL]; ok {
			prior.Claps = f.Claps
			prior.Comments = f.Comments
			entry = prior
		}

		// A URL repeated within one batch keeps a single slot; the
		// last occurrence wins.
		if at, dup := pos[f.URL]; dup {
			merged[at] = entry
			continue
		}
		pos[f.URL] = len(merged)
		merged = append(merged, entry)

		if _, ok := index[f.URL]; ok {
			updatedCount++
		} else {
			newCount++
		}
	}

	for _, a := range existing {
		if _, ok := pos[a.URL]; !ok {
			merged = append(merged, a)
		}
	}

	tagtrawl.SortByClaps(merged)
	s.tags[tag] = merged
	return newCount, updatedCount
}

// Save rewrites the monthly document with 2-space indentation. Unlike
// read failures, a write failure is fatal to the run's purpose and is
// returned to the caller.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.tags, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}
