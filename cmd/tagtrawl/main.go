// Command tagtrawl scrapes a content platform's tag-recommendation
// pages and merges the ranked results into a monthly JSON store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/tagtrawl/tagtrawl/config"
	"github.com/tagtrawl/tagtrawl/feed"
	"github.com/tagtrawl/tagtrawl/history"
	"github.com/tagtrawl/tagtrawl/pipeline"
	"github.com/tagtrawl/tagtrawl/render"
	"github.com/tagtrawl/tagtrawl/scraper"
	"github.com/tagtrawl/tagtrawl/store"
)

const tagPageFormat = "https://medium.com/tag/%s/recommended"

func main() {
	opts, err := config.Parse(os.Args[1:])
	if err != nil {
		// The parser already printed the usage message.
		os.Exit(1)
	}
	if opts == nil {
		// Help was requested.
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *config.Options) error {
	now := time.Now()
	runID := uuid.New()

	profiles, err := config.LoadProfiles(opts.Profiles)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.OutDir, now)
	if err != nil {
		return err
	}

	var hist *history.Store
	if opts.HistoryDB != "" {
		hist, err = history.Open(opts.HistoryDB)
		if err != nil {
			return err
		}
		defer hist.Close()
	}

	renderer := render.NewChrome(render.Options{
		Headless:    !opts.ShowBrowser,
		MaxScrolls:  opts.Scrolls,
		SettleDelay: time.Duration(opts.SettleMs) * time.Millisecond,
		LoadTimeout: time.Duration(opts.Timeout) * time.Second,
	})
	defer renderer.Close()

	var fallback *feed.Fetcher
	if opts.FeedFallback {
		fallback = feed.NewFetcher(time.Duration(opts.Timeout) * time.Second)
	}

	tags := opts.Tags()
	if len(tags) == 0 {
		return fmt.Errorf("no tags given")
	}

	fmt.Printf("Scraping %d tag(s) into %s (run %s)\n", len(tags), st.Path(), runID)

	ctx := context.Background()
	for _, tag := range tags {
		candidates := harvestTag(ctx, renderer, fallback, tag)

		captureTime := time.Now()
		articles := pipeline.Run(candidates, tagOptions(opts, profiles, tag), captureTime)

		newCount, updatedCount := st.Merge(tag, articles)

		// Persist after every tag so an aborted run keeps everything
		// completed so far. Losing the output is the one failure this
		// tool has no answer to.
		if err := st.Save(); err != nil {
			return err
		}

		if hist != nil {
			if err := hist.Record(history.Entry{
				RunID:      runID,
				Tag:        tag,
				Scraped:    len(articles),
				Added:      newCount,
				Updated:    updatedCount,
				RecordedAt: captureTime,
			}); err != nil {
				slog.Warn("failed to record run history", "tag", tag, "error", err)
			}
		}

		fmt.Printf("  %-20s scraped %3d  new %3d  updated %3d  (stored %d)\n",
			tag, len(articles), newCount, updatedCount, len(st.Collection(tag)))
	}

	fmt.Printf("Done. Output: %s\n", st.Path())
	return nil
}

// harvestTag renders one tag page and extracts raw candidates. A
// render failure is scoped to the tag: it is logged and yields an
// empty candidate set (or the feed fallback's, when enabled) so the
// remaining tags still run.
func harvestTag(ctx context.Context, renderer render.Renderer, fallback *feed.Fetcher, tag string) []scraper.Candidate {
	pageURL := fmt.Sprintf(tagPageFormat, url.PathEscape(tag))

	html, err := renderer.Render(ctx, pageURL)
	if err != nil {
		slog.Warn("render failed", "tag", tag, "error", err)
		if fallback == nil {
			return nil
		}

		candidates, ferr := fallback.FetchTag(ctx, tag)
		if ferr != nil {
			slog.Warn("feed fallback failed", "tag", tag, "error", ferr)
			return nil
		}
		slog.Info("used feed fallback", "tag", tag, "candidates", len(candidates))
		return candidates
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("failed to parse rendered page", "tag", tag, "error", err)
		return nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	return scraper.Extract(doc, base)
}

// tagOptions builds one tag's pipeline options: the CLI values,
// overridden field by field by the tag's profile when one is loaded.
func tagOptions(opts *config.Options, profiles *config.ProfileFile, tag string) pipeline.Options {
	p := profiles.Resolve(tag)

	out := pipeline.Options{
		Tag:             tag,
		IncludeKeywords: opts.IncludeKeywords(),
		ExcludeKeywords: opts.ExcludeKeywords(),
		MinClaps:        opts.MinClaps,
		Limit:           opts.Limit,
	}
	if len(p.Include) > 0 {
		out.IncludeKeywords = p.Include
	}
	if len(p.Exclude) > 0 {
		out.ExcludeKeywords = p.Exclude
	}
	if p.MinClaps != nil {
		out.MinClaps = *p.MinClaps
	}
	if p.Limit != nil {
		out.Limit = *p.Limit
	}
	return out
}
