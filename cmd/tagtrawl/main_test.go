package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagtrawl/tagtrawl/config"
)

type stubRenderer struct {
	html string
	err  error
}

func (s stubRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	return s.html, s.err
}

func (s stubRenderer) Close() {}

// TestHarvestTag_RendersAndExtracts verifies the happy path
func TestHarvestTag_RendersAndExtracts(t *testing.T) {
	renderer := stubRenderer{html: `
		<html><body>
		<article>
			<a href="/@jane/a-real-post-1234abcd5678"><h2>A Real Post</h2></a>
			<button aria-label="clap">321</button>
		</article>
		</body></html>`}

	candidates := harvestTag(context.Background(), renderer, nil, "programming")
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://medium.com/@jane/a-real-post-1234abcd5678", candidates[0].URL)
	assert.Equal(t, "A Real Post", candidates[0].Title)
	require.NotNil(t, candidates[0].Claps)
	assert.Equal(t, 321, *candidates[0].Claps)
}

// TestHarvestTag_RenderFailureYieldsEmpty verifies the per-tag failure scope
func TestHarvestTag_RenderFailureYieldsEmpty(t *testing.T) {
	renderer := stubRenderer{err: errors.New("navigation timeout")}

	candidates := harvestTag(context.Background(), renderer, nil, "programming")
	assert.Empty(t, candidates, "a failed tag yields an empty result, not a crash")
}

// TestTagOptions_ProfileOverrides verifies per-tag option resolution
func TestTagOptions_ProfileOverrides(t *testing.T) {
	opts := &config.Options{MinClaps: 10, Limit: 25, Include: "go"}

	minClaps := 200
	profiles := &config.ProfileFile{
		Tags: map[string]config.Profile{
			"programming": {MinClaps: &minClaps, Exclude: []string{"sponsored"}},
		},
	}

	got := tagOptions(opts, profiles, "programming")
	assert.Equal(t, "programming", got.Tag)
	assert.Equal(t, 200, got.MinClaps, "profile wins where set")
	assert.Equal(t, 25, got.Limit, "CLI value kept where profile is silent")
	assert.Equal(t, []string{"go"}, got.IncludeKeywords)
	assert.Equal(t, []string{"sponsored"}, got.ExcludeKeywords)
}

// TestTagOptions_NoProfileFile verifies the nil-profile path
func TestTagOptions_NoProfileFile(t *testing.T) {
	opts := &config.Options{MinClaps: 10, Limit: 5}

	got := tagOptions(opts, nil, "golang")
	assert.Equal(t, 10, got.MinClaps)
	assert.Equal(t, 5, got.Limit)
}
