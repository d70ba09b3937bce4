// Package fetch retrieves job posting pages and reduces them to readable text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies outbound requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; OutreachForge/1.0)"

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes int64 = 4 << 20

// Page is a fetched document.
type Page struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
}

// Error represents an error during page retrieval.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures retrieval.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Headers   map[string]string

	// AllowPrivate permits loopback, private and link-local hosts.
	// Leave it off when the URL comes from an untrusted caller.
	AllowPrivate bool

	// Client overrides the HTTP client. The address guard is not applied to it.
	Client *http.Client
}

// DefaultOptions returns the options used when nil is passed to Get.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

func (o *Options) httpClient() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	if o.AllowPrivate {
		return &http.Client{Timeout: o.Timeout}
	}
	return guardedClient(o.Timeout)
}

// Get downloads the page at rawURL. A non-200 status returns the page alongside an *Error.
func Get(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := checkURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := opts.httpClient().Do(req)
	if err != nil {
		if errors.Is(err, ErrBlockedAddress) {
			return nil, &Error{URL: rawURL, Message: "refusing to fetch", Cause: ErrBlockedAddress}
		}
		return nil, &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

func checkURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &Error{URL: rawURL, Message: fmt.Sprintf("unsupported scheme %q", parsed.Scheme)}
	}
	return nil
}

// baseNoise is stripped from every page before extraction.
const baseNoise = "nav, footer, header, script, style, noscript, svg, iframe, .ad, .ads, .sidebar, .cookie-banner, .popup"

// ExtractText parses html, removes noise and returns the text of the first
// element matching one of content, falling back to <body>.
func ExtractText(html string, content []string, noise ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(baseNoise).Remove()
	if len(noise) > 0 {
		doc.Find(strings.Join(noise, ", ")).Remove()
	}

	selection := doc.Find("body")
	for _, sel := range content {
		if match := doc.Find(sel); match.Length() > 0 {
			selection = match.First()
			break
		}
	}

	// Block elements keep their line breaks.
	selection.Find("p, li, br, h1, h2, h3, h4, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return collapseLines(selection.Text()), nil
}

// JobPostingSelectors are tried in order on pages from unknown boards.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		"#job-description",
		".job-details",
		".posting-content",
		"[data-testid='job-description']",
		"[itemprop='description']",
		"main",
		"article",
		"#content",
	}
}

// collapseLines trims every line and drops blank ones.
func collapseLines(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
