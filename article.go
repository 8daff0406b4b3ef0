// Package tagtrawl holds the article record shared by the scrape
// pipeline and the persisted store.
package tagtrawl

import (
	"fmt"
	"net/url"
	"sort"
	"time"
)

// Article is one persisted entry of a tag's collection. URL is the
// identity key and is always canonical (scheme, host, and path only).
// Claps and Comments stay nil when the page gave no usable counter;
// callers must treat nil as "unknown", not zero.
type Article struct {
	URL         string     `json:"url"`
	Title       *string    `json:"title"`
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Claps       *int       `json:"claps"`
	Comments    *int       `json:"comments"`
	Tag         string     `json:"tag"`
}

// ClapValue returns the clap count with nil treated as 0, the ordering
// rule used everywhere a collection is sorted.
func (a Article) ClapValue() int {
	if a.Claps == nil {
		return 0
	}
	return *a.Claps
}

// CanonicalURL strips the query string and fragment from rawURL,
// keeping scheme, host, and path. It is idempotent: canonicalizing an
// already-canonical URL returns it unchanged.
func CanonicalURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("URL %q is not absolute", rawURL)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// SortByClaps orders articles by clap count descending, nil counting
// as 0. The sort is stable so ties keep their relative input order.
func SortByClaps(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].ClapValue() > articles[j].ClapValue()
	})
}
