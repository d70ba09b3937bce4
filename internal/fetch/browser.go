package fetch

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the extracted-text length below which a page is assumed
// to be rendered client side.
const MinContentLength = 500

// DefaultRenderTimeout bounds a headless browser render.
const DefaultRenderTimeout = 30 * time.Second

// NeedsRender reports whether text is too short to be a full posting.
func NeedsRender(text string) bool {
	return len(strings.TrimSpace(text)) < MinContentLength
}

// Renderer returns the HTML of a page after scripts have run.
type Renderer interface {
	Render(ctx context.Context, rawURL string) (string, error)
}

// ChromeRenderer renders pages with a local headless Chrome.
type ChromeRenderer struct {
	Timeout time.Duration
	// Settle is how long to wait after the body is ready.
	Settle  time.Duration
	Verbose bool

	// AllowPrivate skips the CheckHost pre-flight.
	AllowPrivate bool
}

// Render implements Renderer.
func (r ChromeRenderer) Render(ctx context.Context, rawURL string) (string, error) {
	check := CheckHost
	if r.AllowPrivate {
		check = func(_ context.Context, rawURL string) error { return checkURL(rawURL) }
	}
	if err := check(ctx, rawURL); err != nil {
		return "", err
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	settle := r.Settle
	if settle <= 0 {
		settle = 2 * time.Second
	}

	if r.Verbose {
		log.Printf("[BROWSER] Rendering %s", rawURL)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "browser rendering failed", Cause: err}
	}

	if r.Verbose {
		log.Printf("[BROWSER] Rendered %d bytes", len(html))
	}
	return html, nil
}
