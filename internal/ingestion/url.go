// Package ingestion turns inline text, files and job posting URLs into the
// plain text a generation request carries.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/outreach-forge/internal/fetch"
)

var (
	// ErrNoContent is returned when a page yields no text.
	ErrNoContent = errors.New("no readable content")
	// ErrNoSource is returned when a Source names nothing to read.
	ErrNoSource = errors.New("no input provided")
	// ErrAmbiguousSource is returned when a Source names more than one input.
	ErrAmbiguousSource = errors.New("provide exactly one of text, file or URL")
)

// URLLoader reads job postings from the web.
type URLLoader struct {
	Cache *fetch.Cache
	// Renderer is used when UseBrowser is set and the plain fetch looks like a script-rendered shell.
	Renderer   fetch.Renderer
	UseBrowser bool
	Verbose    bool

	// AllowPrivate permits loopback, private and link-local hosts. It must stay
	// off for URLs supplied over the network.
	AllowPrivate bool
}

// NewURLLoader returns a loader with a fresh cache and a headless Chrome renderer.
// Non-public addresses are refused; see NewLocalURLLoader.
func NewURLLoader(useBrowser, verbose bool) *URLLoader {
	return newURLLoader(useBrowser, verbose, false)
}

// NewLocalURLLoader is NewURLLoader for a trusted local user, who may fetch
// postings from hosts on their own network.
func NewLocalURLLoader(useBrowser, verbose bool) *URLLoader {
	return newURLLoader(useBrowser, verbose, true)
}

func newURLLoader(useBrowser, verbose, allowPrivate bool) *URLLoader {
	opts := fetch.DefaultOptions()
	opts.AllowPrivate = allowPrivate
	return &URLLoader{
		Cache:        fetch.NewCache(nil, opts, 0),
		Renderer:     fetch.ChromeRenderer{Verbose: verbose, AllowPrivate: allowPrivate},
		UseBrowser:   useBrowser,
		Verbose:      verbose,
		AllowPrivate: allowPrivate,
	}
}

// Load fetches rawURL and returns its cleaned posting text.
func (l *URLLoader) Load(ctx context.Context, rawURL string) (string, *Metadata, error) {
	board := fetch.DetectBoard(rawURL)
	sel := fetch.SelectorsFor(board)
	l.logf("[INGEST] %s (board: %s)", rawURL, board)

	cache := l.Cache
	if cache == nil {
		opts := fetch.DefaultOptions()
		opts.AllowPrivate = l.AllowPrivate
		cache = fetch.NewCache(nil, opts, 0)
	}
	page, hit, err := cache.Fetch(ctx, rawURL)
	if err != nil {
		return "", nil, err
	}
	l.logf("[INGEST] Fetched %d bytes (cached: %t)", len(page.HTML), hit)

	text, err := fetch.ExtractText(page.HTML, sel.Content, sel.Noise...)
	if err != nil {
		return "", nil, fmt.Errorf("extract %s: %w", rawURL, err)
	}

	rendered := false
	if l.UseBrowser && l.Renderer != nil && fetch.NeedsRender(text) {
		l.logf("[INGEST] Extracted %d chars, rendering with browser", len(text))
		html, renderErr := l.render(ctx, rawURL)
		if errors.Is(renderErr, fetch.ErrBlockedAddress) {
			return "", nil, renderErr
		}
		if renderErr != nil {
			l.logf("[INGEST] Render failed, keeping fetched text: %v", renderErr)
		} else if renderedText, extractErr := fetch.ExtractText(html, sel.Content, sel.Noise...); extractErr == nil && len(renderedText) > len(text) {
			text = renderedText
			rendered = true
		}
	}

	text = CleanText(text)
	if text == "" {
		return "", nil, fmt.Errorf("%s: %w", rawURL, ErrNoContent)
	}

	meta := NewMetadata(SourceURL, text)
	meta.URL = rawURL
	meta.Board = string(board)
	meta.Rendered = rendered
	meta.FromCache = hit
	return text, meta, nil
}

// render runs the browser after the same host check the HTTP fetch applies,
// whatever Renderer is plugged in.
func (l *URLLoader) render(ctx context.Context, rawURL string) (string, error) {
	if !l.AllowPrivate {
		if err := fetch.CheckHost(ctx, rawURL); err != nil {
			return "", err
		}
	}
	return l.Renderer.Render(ctx, rawURL)
}

func (l *URLLoader) logf(format string, args ...any) {
	if l.Verbose {
		log.Printf(format, args...)
	}
}

// Source names one input. Exactly one field should be set.
type Source struct {
	Text string
	Path string
	URL  string
}

// Empty reports whether no field is set.
func (s Source) Empty() bool {
	return s.Text == "" && s.Path == "" && s.URL == ""
}

// Resolve reads src. Inline text is returned as given; files and URLs are cleaned.
// loader may be nil when src has no URL.
func Resolve(ctx context.Context, src Source, loader *URLLoader) (string, *Metadata, error) {
	set := 0
	for _, v := range []string{src.Text, src.Path, src.URL} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return "", nil, ErrNoSource
	case set > 1:
		return "", nil, ErrAmbiguousSource
	}

	switch {
	case src.Path != "":
		return ReadFile(src.Path)
	case src.URL != "":
		if loader == nil {
			loader = NewURLLoader(false, false)
		}
		return loader.Load(ctx, src.URL)
	default:
		return src.Text, NewMetadata(SourceInline, src.Text), nil
	}
}
