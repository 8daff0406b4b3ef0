// Package pipeline turns raw scrape candidates into the canonical,
// filtered, ranked article list that gets merged into the store.
package pipeline

import (
	"strings"
	"time"

	"github.com/tagtrawl/tagtrawl"
	"github.com/tagtrawl/tagtrawl/scraper"
)

// Options configures one tag's normalization pass.
type Options struct {
	Tag             string
	IncludeKeywords []string
	ExcludeKeywords []string
	MinClaps        int
	Limit           int
}

// Run converts candidates into articles: canonicalize URLs (dropping
// candidates whose URL fails to parse), stamp capture time and tag,
// apply the include, exclude, and minimum-claps filters, sort by claps
// descending, and truncate to the configured limit.
//
// Candidates with nil claps always survive the minimum-claps filter;
// unknown engagement is never grounds for exclusion. Duplicate URLs
// within one batch are not collapsed here; the store merge is the
// dedup point.
func Run(candidates []scraper.Candidate, opts Options, now time.Time) []tagtrawl.Article {
	articles := make([]tagtrawl.Article, 0, len(candidates))

	for _, c := range candidates {
		canonical, err := tagtrawl.CanonicalURL(c.URL)
		if err != nil {
			continue
		}

		if !matchesInclude(c.Title, opts.IncludeKeywords) {
			continue
		}
		if matchesExclude(c.Title, opts.ExcludeKeywords) {
			continue
		}
		if c.Claps != nil && *c.Claps < opts.MinClaps {
			continue
		}

		var title *string
		if c.Title != "" {
			t := c.Title
			title = &t
		}

		articles = append(articles, tagtrawl.Article{
			URL:         canonical,
			Title:       title,
			CreatedAt:   now,
			PublishedAt: scraper.ParsePublished(c.AbsoluteTime, c.TimeLabel, now),
			Claps:       c.Claps,
			Comments:    c.Comments,
			Tag:         opts.Tag,
		})
	}

	tagtrawl.SortByClaps(articles)

	if opts.Limit > 0 && len(articles) > opts.Limit {
		articles = articles[:opts.Limit]
	}
	return articles
}

// matchesInclude reports whether the title contains at least one of
// the keywords, case-insensitively. An empty keyword list keeps
// everything.
func matchesInclude(title string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lowered := strings.ToLower(title)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// matchesExclude reports whether the title contains any of the
// keywords, case-insensitively.
func matchesExclude(title string, keywords []string) bool {
	lowered := strings.ToLower(title)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
