package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
)

// ChromeRenderer renders pages in a Chrome instance managed by
// chromedp. One browser serves the whole run; each Render call gets
// its own tab context and timeout.
type ChromeRenderer struct {
	opts     Options
	allocCtx context.Context
	cancels  []context.CancelFunc
}

// NewChrome starts a browser allocator with the given options. The
// browser process itself launches lazily on the first Render.
func NewChrome(opts Options) *ChromeRenderer {
	opts = opts.withDefaults()

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		// Tag pages render fine without GPU compositing; keeping it
		// off avoids driver noise in containers.
		chromedp.Flag("disable-gpu", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return &ChromeRenderer{
		opts:     opts,
		allocCtx: allocCtx,
		cancels:  []context.CancelFunc{cancelAlloc},
	}
}

// Render navigates to pageURL, waits for the body, runs the bounded
// auto-scroll loop so lazy-loaded cards attach, and returns the full
// document HTML. Navigation timeouts and network failures surface as
// errors scoped to this one page.
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// chromedp contexts must chain from the allocator, so the tab gets
	// its own context rather than deriving from the caller's.
	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx)
	r.cancels = append(r.cancels, cancelTab)

	runCtx, cancel := context.WithTimeout(tabCtx, r.opts.LoadTimeout)
	defer cancel()

	if err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.opts.SettleDelay),
	); err != nil {
		return "", fmt.Errorf("failed to load %s: %w", pageURL, err)
	}

	if err := r.autoScroll(runCtx); err != nil {
		return "", fmt.Errorf("failed to scroll %s: %w", pageURL, err)
	}

	var html string
	if err := chromedp.Run(runCtx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("failed to snapshot %s: %w", pageURL, err)
	}
	return html, nil
}

// autoScroll scrolls to the bottom up to MaxScrolls times, pausing
// SettleDelay after each pass. It stops early once two consecutive
// checks observe no content growth.
func (r *ChromeRenderer) autoScroll(ctx context.Context) error {
	var lastHeight int64 = -1
	stable := 0

	for i := 0; i < r.opts.MaxScrolls; i++ {
		var height int64
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(r.opts.SettleDelay),
			chromedp.Evaluate(`document.body.scrollHeight`, &height),
		); err != nil {
			return err
		}

		if height == lastHeight {
			stable++
			if stable >= 2 {
				slog.Debug("page content converged", "passes", i+1, "height", height)
				break
			}
		} else {
			stable = 0
		}
		lastHeight = height
	}
	return nil
}

// Close tears down every tab and the browser allocator.
func (r *ChromeRenderer) Close() {
	for i := len(r.cancels) - 1; i >= 0; i-- {
		r.cancels[i]()
	}
}
