package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// timeSelectors are tried in order. A machine-readable datetime
// attribute is preferred over the element's visible label.
var timeSelectors = []string{
	"time",
	"[datetime]",
	"[data-testid*='storyPublishDate']",
	"[data-testid*='published']",
}

// extractTimeSignal returns the container's raw time signal: the
// machine-readable timestamp when one exists, and the human-visible
// label otherwise.
func extractTimeSignal(container *goquery.Selection) (absolute, label string) {
	for _, selector := range timeSelectors {
		el := container.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		if dt, ok := el.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			return strings.TrimSpace(dt), collapseSpace(el.Text())
		}
		if text := collapseSpace(el.Text()); text != "" {
			return "", text
		}
	}
	return "", ""
}

// relativeLabel matches human labels like "3 hours ago" or
// "about 2 days ago".
var relativeLabel = regexp.MustCompile(`(?i)^(?:about\s+|over\s+)?(\d+)\s*(second|sec|minute|min|hour|hr|day|week|month|year)s?\s+ago$`)

// ParsePublished recovers a publish time from the raw time signal.
// The machine-readable timestamp wins when it parses; otherwise the
// human label is tried, first as a relative phrase and then as a fuzzy
// absolute date ("Sep 5", which carries no year, is anchored to the
// most recent occurrence before now). Returns nil when nothing parses.
func ParsePublished(absolute, label string, now time.Time) *time.Time {
	if absolute != "" {
		if t, err := dateparse.ParseAny(absolute); err == nil {
			return &t
		}
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}

	switch strings.ToLower(label) {
	case "just now":
		return &now
	case "yesterday":
		t := now.AddDate(0, 0, -1)
		return &t
	}

	if m := relativeLabel.FindStringSubmatch(label); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		t := now
		switch strings.ToLower(m[2]) {
		case "second", "sec":
			t = now.Add(-time.Duration(n) * time.Second)
		case "minute", "min":
			t = now.Add(-time.Duration(n) * time.Minute)
		case "hour", "hr":
			t = now.Add(-time.Duration(n) * time.Hour)
		case "day":
			t = now.AddDate(0, 0, -n)
		case "week":
			t = now.AddDate(0, 0, -7*n)
		case "month":
			t = now.AddDate(0, -n, 0)
		case "year":
			t = now.AddDate(-n, 0, 0)
		}
		return &t
	}

	t, err := dateparse.ParseAny(label)
	if err != nil {
		return nil
	}
	// Month-and-day labels parse without a year; anchor them to the
	// current year and shift back when that lands in the future.
	if t.Year() == 0 {
		t = t.AddDate(now.Year(), 0, 0)
	}
	if t.After(now) {
		t = t.AddDate(-1, 0, 0)
	}
	return &t
}
