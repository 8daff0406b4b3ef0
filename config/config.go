// Package config holds the CLI option surface and the optional yaml
// tag-profile file.
package config

import (
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Documented defaults, applied both by the flag parser and by
// Normalize for values that arrive non-positive.
const (
	DefaultScrolls  = 8
	DefaultMinClaps = 0
	DefaultLimit    = 25
	DefaultSettleMs = 1200
	DefaultTimeout  = 45
	DefaultOutDir   = "./data"
)

// Options is the full command surface.
type Options struct {
	Scrolls      int    `long:"scrolls" default:"8" description:"Maximum scroll passes per tag page"`
	MinClaps     int    `long:"min-claps" default:"0" description:"Drop articles whose known clap count is below this"`
	Limit        int    `long:"limit" default:"25" description:"Maximum articles kept per tag per scrape"`
	Include      string `long:"include" description:"Comma-separated keywords a title must contain"`
	Exclude      string `long:"exclude" description:"Comma-separated keywords that reject a title"`
	ShowBrowser  bool   `long:"show-browser" description:"Run the browser with a visible window"`
	OutDir       string `long:"out-dir" default:"./data" description:"Directory for the monthly JSON documents"`
	SettleMs     int    `long:"settle-ms" default:"1200" description:"Settle delay after navigation and each scroll, in milliseconds"`
	Timeout      int    `long:"timeout" default:"45" description:"Per-tag page load timeout, in seconds"`
	Profiles     string `long:"profiles" description:"Path to a yaml tag profile file"`
	FeedFallback bool   `long:"feed-fallback" description:"Fetch the tag's RSS feed when rendering fails"`
	HistoryDB    string `long:"history-db" description:"Record run outcomes into this SQLite database"`

	Positional struct {
		Tags string `positional-arg-name:"tags" required:"yes" description:"Comma-separated tag list"`
	} `positional-args:"yes"`
}

// Parse reads options from args. It returns (nil, nil) when help was
// requested, mirroring the parser's own graceful-help behavior.
func Parse(args []string) (*Options, error) {
	var opts Options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse options: %w", err)
	}

	opts.Normalize()
	return &opts, nil
}

// Normalize clamps non-positive numeric options back to the
// documented defaults rather than letting them disable scraping.
func (o *Options) Normalize() {
	if o.Scrolls <= 0 {
		o.Scrolls = DefaultScrolls
	}
	if o.MinClaps < 0 {
		o.MinClaps = DefaultMinClaps
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.SettleMs <= 0 {
		o.SettleMs = DefaultSettleMs
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(o.OutDir) == "" {
		o.OutDir = DefaultOutDir
	}
}

// Tags returns the requested tags in order, trimmed, lowercased, with
// empties and duplicates removed.
func (o *Options) Tags() []string {
	return splitList(strings.ToLower(o.Positional.Tags))
}

// IncludeKeywords returns the include list parsed from the flag.
func (o *Options) IncludeKeywords() []string {
	return splitList(o.Include)
}

// ExcludeKeywords returns the exclude list parsed from the flag.
func (o *Options) ExcludeKeywords() []string {
	return splitList(o.Exclude)
}

func splitList(csv string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
