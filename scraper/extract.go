// Package scraper harvests raw article candidates from a rendered tag
// page. The target site exposes no stable API and no structured markup
// guarantees, so every field is located through an ordered list of
// fallback heuristics and extraction is strictly best-effort: a
// candidate without a qualifying permalink is dropped, a field that
// resolves nowhere stays empty or nil.
package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Candidate is one detected article-like container's raw extraction
// result, before normalization. Claps and Comments are nil when no
// strategy produced a usable counter.
type Candidate struct {
	URL          string
	Title        string
	TimeLabel    string
	AbsoluteTime string
	Claps        *int
	Comments     *int
}

// containerSelectors mark "likely article card" elements. Any match
// qualifies; the union is deduplicated by element identity.
var containerSelectors = []string{
	"article",
	"div[data-testid*='post']",
	"[data-testid*='story']",
	"div[class*='postArticle']",
	"div[class*='streamItem']",
}

// titleSelectors are tried in order; the first one with a non-empty
// trimmed text wins.
var titleSelectors = []string{
	"h1",
	"h2",
	"h3",
	"[data-testid*='title']",
	"h4",
	"strong",
}

// permalinkPatterns match the path shapes of article permalinks:
// slug-with-hex-suffix, short /p/ links, profile-scoped slugs, and the
// generic two-segment form, in that order of specificity.
var permalinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`-[0-9a-f]{8,}$`),
	regexp.MustCompile(`^/p/[0-9a-f]{8,}$`),
	regexp.MustCompile(`^/@[^/]+/[^/]+$`),
	regexp.MustCompile(`^/[^/]+/[^/]+$`),
}

// Extract walks a rendered document and returns one Candidate per
// detected article container, in document order. Containers with no
// qualifying permalink are dropped.
func Extract(doc *goquery.Document, base *url.URL) []Candidate {
	var candidates []Candidate

	for _, container := range discoverContainers(doc) {
		link := findPermalink(container, base)
		if link == "" {
			continue
		}

		claps, comments := extractEngagement(container)
		absolute, label := extractTimeSignal(container)

		candidates = append(candidates, Candidate{
			URL:          link,
			Title:        extractTitle(container),
			TimeLabel:    label,
			AbsoluteTime: absolute,
			Claps:        claps,
			Comments:     comments,
		})
	}

	return candidates
}

// discoverContainers returns the union of all container-selector
// matches, deduplicated by node identity and ordered by document
// position.
func discoverContainers(doc *goquery.Document) []*goquery.Selection {
	matched := make(map[*html.Node]bool)
	for _, selector := range containerSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			matched[s.Get(0)] = true
		})
	}

	// A single tree walk restores document order regardless of which
	// selector family matched first.
	var containers []*goquery.Selection
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if matched[n] {
			containers = append(containers, doc.FindNodes(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return containers
}

// findPermalink scans the container's links in document order and
// returns the first absolute URL that belongs to the platform and has
// a permalink-shaped path. Remaining links are ignored.
func findPermalink(container *goquery.Selection, base *url.URL) string {
	var found string
	container.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		resolved := base.ResolveReference(ref)

		if !platformHost(resolved.Host) {
			return true
		}
		for _, pattern := range permalinkPatterns {
			if pattern.MatchString(resolved.Path) {
				found = resolved.String()
				return false
			}
		}
		return true
	})
	return found
}

// platformHost reports whether host is the target platform's domain or
// one of its subdomains (user publications live on subdomains).
func platformHost(host string) bool {
	host = strings.ToLower(host)
	return host == "medium.com" || strings.HasSuffix(host, ".medium.com")
}

func extractTitle(container *goquery.Selection) string {
	for _, selector := range titleSelectors {
		var title string
		container.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := collapseSpace(s.Text())
			if text != "" {
				title = text
				return false
			}
			return true
		})
		if title != "" {
			return title
		}
	}
	return ""
}

// collapseSpace trims and squeezes runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
