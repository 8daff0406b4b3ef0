// Package render drives a headless browser to load a tag page, let
// lazy content settle, and hand back the rendered HTML. The rest of
// the program only ever sees the Renderer interface and a snapshot
// string, so extraction stays testable without a browser.
package render

import (
	"context"
	"time"
)

// Renderer loads a URL in a rendering engine, triggers scroll-driven
// lazy loading, and returns the resulting document HTML.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
	Close()
}

// Options configures a renderer.
type Options struct {
	// Headless hides the browser window. The visibility toggle exists
	// for debugging selector drift against the live site.
	Headless bool
	// MaxScrolls bounds the auto-scroll loop.
	MaxScrolls int
	// SettleDelay is the pause after navigation and after each scroll
	// so lazy-loaded cards can attach.
	SettleDelay time.Duration
	// LoadTimeout bounds one page's navigate-and-scroll sequence.
	LoadTimeout time.Duration
}

// DefaultOptions returns the settings used when a field is zero.
func DefaultOptions() Options {
	return Options{
		Headless:    true,
		MaxScrolls:  8,
		SettleDelay: 1200 * time.Millisecond,
		LoadTimeout: 45 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxScrolls <= 0 {
		o.MaxScrolls = def.MaxScrolls
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = def.SettleDelay
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = def.LoadTimeout
	}
	return o
}
