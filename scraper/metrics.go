package scraper

import (
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Engagement counters are the least stable part of the page: there is
// no semantic markup for clap or response counts, only icons, buttons,
// and accessibility labels that happen to mention them. Resolution
// runs through four strategies in fixed order; each strategy only
// fills a metric that is still nil.

func extractEngagement(container *goquery.Selection) (claps, comments *int) {
	claps = clapsFromLabels(container)
	claps, comments = fillFromIconTokens(container, claps, comments)
	claps, comments = fillFromControls(container, claps, comments)
	claps, comments = fillFromTextWalk(container, claps, comments)
	return claps, comments
}

// clapsFromLabels finds elements whose accessible name, title, or test
// attribute mentions "clap" and parses the count token embedded in the
// label itself or, failing that, in the element's visible text.
func clapsFromLabels(container *goquery.Selection) *int {
	var result *int
	container.Find("[aria-label], [title], [data-testid]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		hint := hintAttrs(s)
		if !strings.Contains(hint, "clap") {
			return true
		}
		if n := firstCountToken(hint); n != nil {
			result = n
			return false
		}
		if n := firstCountToken(s.Text()); n != nil {
			result = n
			return false
		}
		return true
	})
	return result
}

// fillFromIconTokens looks at graphic glyphs, takes the nearest
// interactive ancestor of each, and accepts its visible text when that
// text is a bare count token. Tokens are classified by the ancestor's
// markup hints; unclassified tokens are assigned positionally, first
// to claps, second to comments.
func fillFromIconTokens(container *goquery.Selection, claps, comments *int) (*int, *int) {
	seen := make(map[*html.Node]bool)
	var positional []*int

	container.Find("svg").Each(func(_ int, icon *goquery.Selection) {
		control := icon.Closest("a, button, [role='button']")
		if control.Length() == 0 || seen[control.Get(0)] {
			return
		}
		seen[control.Get(0)] = true

		text := collapseSpace(control.Text())
		if !isCountToken(text) {
			return
		}
		n := ParseCount(text)
		if n == nil {
			return
		}

		hint := hintAttrs(control) + " " + hintAttrs(icon)
		switch {
		case strings.Contains(hint, "clap"):
			if claps == nil {
				claps = n
			}
		case strings.Contains(hint, "comment") || strings.Contains(hint, "respon"):
			if comments == nil {
				comments = n
			}
		default:
			positional = append(positional, n)
		}
	})

	if claps == nil && len(positional) > 0 {
		claps = positional[0]
	}
	if comments == nil && len(positional) > 1 {
		comments = positional[1]
	}
	return claps, comments
}

// fillFromControls scans interactive controls for accessible-name
// hints paired with a bare numeric visible text.
func fillFromControls(container *goquery.Selection, claps, comments *int) (*int, *int) {
	if claps != nil && comments != nil {
		return claps, comments
	}
	container.Find("button, [role='button']").Each(func(_ int, control *goquery.Selection) {
		text := collapseSpace(control.Text())
		if !isCountToken(text) {
			return
		}
		n := ParseCount(text)
		if n == nil {
			return
		}

		hint := hintAttrs(control)
		switch {
		case strings.Contains(hint, "clap"):
			if claps == nil {
				claps = n
			}
		case strings.Contains(hint, "comment") || strings.Contains(hint, "respon"):
			if comments == nil {
				comments = n
			}
		}
	})
	return claps, comments
}

// fillFromTextWalk is the last resort: a depth-first walk over the
// container's text nodes collecting every standalone count token, the
// first filling claps and the second comments, where still unresolved.
func fillFromTextWalk(container *goquery.Selection, claps, comments *int) (*int, *int) {
	if claps != nil && comments != nil {
		return claps, comments
	}

	var tokens []*int
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(tokens) >= 2 {
			return
		}
		if n.Type == html.TextNode {
			text := collapseSpace(n.Data)
			if isCountToken(text) {
				if v := ParseCount(text); v != nil {
					tokens = append(tokens, v)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range container.Nodes {
		walk(node)
	}

	if claps == nil && len(tokens) > 0 {
		claps = tokens[0]
	}
	if comments == nil && len(tokens) > 1 {
		comments = tokens[1]
	}
	return claps, comments
}

// firstCountToken returns the first whitespace-delimited count token
// in text ("1.2K claps" yields 1200), or nil when none is present.
func firstCountToken(text string) *int {
	for _, field := range strings.Fields(text) {
		if isCountToken(field) {
			return ParseCount(field)
		}
	}
	return nil
}

// hintAttrs joins the lowercased accessible-name, title, and test
// attributes of a selection.
func hintAttrs(s *goquery.Selection) string {
	var parts []string
	for _, attr := range []string{"aria-label", "title", "data-testid"} {
		if v, ok := s.Attr(attr); ok {
			parts = append(parts, v)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// countTokenChars drops everything but digits, the decimal point, and
// magnitude suffixes before the numeric match.
var countTokenChars = func(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.':
		return false
	case r == 'k' || r == 'K' || r == 'm' || r == 'M':
		return false
	}
	return true
}

// isCountToken reports whether text is a standalone count token: a
// bare number with an optional k/m magnitude suffix ("42", "1.2K",
// "3,400"). Longer prose like "3 min read" does not qualify.
func isCountToken(text string) bool {
	if text == "" || len(text) > 12 {
		return false
	}
	sawDigit := false
	suffixed := false
	for i, r := range text {
		switch {
		case r >= '0' && r <= '9':
			if suffixed {
				return false
			}
			sawDigit = true
		case r == '.' || r == ',':
			if !sawDigit || suffixed {
				return false
			}
		case r == 'k' || r == 'K' || r == 'm' || r == 'M':
			if !sawDigit || suffixed || i != len(text)-1 {
				return false
			}
			suffixed = true
		default:
			return false
		}
	}
	return sawDigit
}

// ParseCount parses a scraped count token into an integer. It strips
// all characters except digits, the decimal point, and k/m suffixes,
// then matches a leading decimal number plus optional suffix: "1.2k"
// becomes 1200, "3M" becomes 3000000. Unparseable input yields nil.
func ParseCount(raw string) *int {
	cleaned := strings.Map(func(r rune) rune {
		if countTokenChars(r) {
			return -1
		}
		return r
	}, raw)

	end := 0
	dotted := false
	for end < len(cleaned) {
		c := cleaned[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !dotted && end > 0 {
			dotted = true
			end++
			continue
		}
		break
	}
	if end == 0 || cleaned[end-1] == '.' {
		return nil
	}

	n, err := strconv.ParseFloat(cleaned[:end], 64)
	if err != nil {
		return nil
	}
	if end < len(cleaned) {
		switch cleaned[end] {
		case 'k', 'K':
			n *= 1_000
		case 'm', 'M':
			n *= 1_000_000
		}
	}

	v := int(math.Round(n))
	return &v
}
