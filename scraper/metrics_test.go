package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseCount covers the suffix scaling and failure cases
func TestParseCount(t *testing.T) {
	cases := []struct {
		in   string
		want *int
	}{
		{"42", intp(42)},
		{"1.2k", intp(1200)},
		{"1.2K", intp(1200)},
		{"3M", intp(3000000)},
		{"2.5m", intp(2500000)},
		{"1,234", intp(1234)},
		{"1.2K claps", intp(1200)},
		{"", nil},
		{"no numbers here", nil},
		{"...", nil},
	}

	for _, tc := range cases {
		got := ParseCount(tc.in)
		if tc.want == nil {
			assert.Nil(t, got, "input %q", tc.in)
		} else {
			require.NotNil(t, got, "input %q", tc.in)
			assert.Equal(t, *tc.want, *got, "input %q", tc.in)
		}
	}
}

func intp(n int) *int {
	return &n
}

// TestIsCountToken rejects prose that merely contains a number
func TestIsCountToken(t *testing.T) {
	assert.True(t, isCountToken("42"))
	assert.True(t, isCountToken("1.2K"))
	assert.True(t, isCountToken("3,400"))
	assert.False(t, isCountToken("3 min read"))
	assert.False(t, isCountToken("Sep 5"))
	assert.False(t, isCountToken(""))
	assert.False(t, isCountToken("K"))
}

// TestEngagement_LabeledClapElement exercises the first strategy
func TestEngagement_LabeledClapElement(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><article>
			<div aria-label="1.5K claps"></div>
		</article></body></html>`)

	claps, comments := extractEngagement(doc.Find("article").First())
	require.NotNil(t, claps)
	assert.Equal(t, 1500, *claps)
	assert.Nil(t, comments)
}

// TestEngagement_LabeledClapWithTextCount verifies the visible-text fallback
// within the labeled-element strategy
func TestEngagement_LabeledClapWithTextCount(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><article>
			<button data-testid="clapButton">876</button>
		</article></body></html>`)

	claps, _ := extractEngagement(doc.Find("article").First())
	require.NotNil(t, claps)
	assert.Equal(t, 876, *claps)
}

// TestEngagement_IconAncestorsClassified exercises the icon strategy with
// markup hints
func TestEngagement_IconAncestorsClassified(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><article>
			<button aria-label="responses"><svg></svg>27</button>
		</article></body></html>`)

	claps, comments := extractEngagement(doc.Find("article").First())
	require.NotNil(t, comments)
	assert.Equal(t, 27, *comments)
	// The text walk then picks the same standalone token for claps.
	require.NotNil(t, claps)
	assert.Equal(t, 27, *claps)
}

// TestEngagement_IconPositionalFallback exercises unclassified icon tokens
func TestEngagement_IconPositionalFallback(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><article>
			<button><svg></svg>350</button>
			<button><svg></svg>12</button>
		</article></body></html>`)

	claps, comments := extractEngagement(doc.Find("article").First())
	require.NotNil(t, claps)
	require.NotNil(t, comments)
	assert.Equal(t, 350, *claps, "first unclassified token goes to claps")
	assert.Equal(t, 12, *comments, "second unclassified token goes to comments")
}

// TestEngagement_ControlHints exercises the interactive-control strategy
func TestEngagement_ControlHints(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><article>
			<div role="button" aria-label="clap to show support">96</div>
			<div role="button" title="see comments">8</div>
		</article></body></html>`)

	claps, comments := extractEngagement(doc.Find("article").First())
	require.NotNil(t, claps)
	require.NotNil(t, comments)
	assert.Equal(t, 96, *claps)
	assert.Equal(t, 8, *comments)
}

// TestEngagement_TextWalkLastResort exercises the depth-first token walk
func TestEngagement_TextWalkLastResort(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><article>
			<span>2.1K</span><span>·</span><span>45</span>
			<span>6 min read</span>
		</article></body></html>`)

	claps, comments := extractEngagement(doc.Find("article").First())
	require.NotNil(t, claps)
	require.NotNil(t, comments)
	assert.Equal(t, 2100, *claps)
	assert.Equal(t, 45, *comments)
}

// TestEngagement_NothingResolvable leaves both metrics nil
func TestEngagement_NothingResolvable(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><article>
			<h2>Title only</h2><p>prose without standalone numbers</p>
		</article></body></html>`)

	claps, comments := extractEngagement(doc.Find("article").First())
	assert.Nil(t, claps)
	assert.Nil(t, comments)
}

// TestEngagement_EarlierStrategyNotOverwritten verifies each metric
// resolves at most once
func TestEngagement_EarlierStrategyNotOverwritten(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><article>
			<div aria-label="1.5K claps"></div>
			<span>999</span>
		</article></body></html>`)

	claps, comments := extractEngagement(doc.Find("article").First())
	require.NotNil(t, claps)
	assert.Equal(t, 1500, *claps, "labeled strategy already resolved claps")
	// The stray token still fills the unresolved comments slot via the
	// text walk's second position rule only when it is second; a single
	// token maps to claps, which is taken, so comments stays nil.
	assert.Nil(t, comments)
}
