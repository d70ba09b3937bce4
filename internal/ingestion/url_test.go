package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/outreach-forge/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	html  string
	err   error
	calls int
}

func (s *stubRenderer) Render(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.html, s.err
}

func postingServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestURLLoader_Load(t *testing.T) {
	server := postingServer(t, `<html><body><nav>Menu</nav>
		<div class="job-description"><h2>Intern</h2><p>Automate documentation with Python.</p></div>
		<form>Apply</form></body></html>`)

	loader := &URLLoader{AllowPrivate: true}
	text, meta, err := loader.Load(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Intern\nAutomate documentation with Python.", text)
	assert.Equal(t, SourceURL, meta.Source)
	assert.Equal(t, server.URL, meta.URL)
	assert.Equal(t, string(fetch.BoardUnknown), meta.Board)
	assert.False(t, meta.Rendered)
}

func TestURLLoader_UsesCache(t *testing.T) {
	server := postingServer(t, `<main><p>Cached posting</p></main>`)
	loader := &URLLoader{Cache: fetch.NewCache(nil, &fetch.Options{AllowPrivate: true}, 0)}

	_, first, err := loader.Load(context.Background(), server.URL)
	require.NoError(t, err)
	_, second, err := loader.Load(context.Background(), server.URL)
	require.NoError(t, err)

	assert.False(t, first.FromCache)
	assert.True(t, second.FromCache)
}

func TestURLLoader_RendersShortPages(t *testing.T) {
	server := postingServer(t, `<main><p>Loading...</p></main>`)
	renderer := &stubRenderer{html: `<main><p>` + strings.Repeat("Full rendered posting. ", 40) + `</p></main>`}

	loader := &URLLoader{Renderer: renderer, UseBrowser: true, AllowPrivate: true}
	text, meta, err := loader.Load(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.True(t, meta.Rendered)
	assert.Contains(t, text, "Full rendered posting.")
}

func TestURLLoader_RenderFailureKeepsFetchedText(t *testing.T) {
	server := postingServer(t, `<main><p>Loading...</p></main>`)
	renderer := &stubRenderer{err: errors.New("chrome not installed")}

	loader := &URLLoader{Renderer: renderer, UseBrowser: true, AllowPrivate: true}
	text, meta, err := loader.Load(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Loading...", text)
	assert.False(t, meta.Rendered)
}

func TestURLLoader_NoBrowserUnlessRequested(t *testing.T) {
	server := postingServer(t, `<main><p>Loading...</p></main>`)
	renderer := &stubRenderer{}

	loader := &URLLoader{Renderer: renderer, AllowPrivate: true}
	_, _, err := loader.Load(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 0, renderer.calls)
}

func TestURLLoader_EmptyPage(t *testing.T) {
	server := postingServer(t, `<html><body><script>app()</script></body></html>`)

	_, _, err := (&URLLoader{AllowPrivate: true}).Load(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestURLLoader_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not-a-url", "example.com", "http://"} {
		t.Run(raw, func(t *testing.T) {
			_, _, err := (&URLLoader{}).Load(context.Background(), raw)
			var fetchErr *fetch.Error
			assert.ErrorAs(t, err, &fetchErr)
		})
	}
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Built a docs platform  "), 0644))

	text, meta, err := Resolve(context.Background(), Source{Text: "  inline  "}, nil)
	require.NoError(t, err)
	assert.Equal(t, "  inline  ", text, "inline text is passed through")
	assert.Equal(t, SourceInline, meta.Source)

	text, meta, err = Resolve(context.Background(), Source{Path: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Built a docs platform", text)
	assert.Equal(t, SourceFile, meta.Source)

	_, _, err = Resolve(context.Background(), Source{}, nil)
	assert.ErrorIs(t, err, ErrNoSource)

	_, _, err = Resolve(context.Background(), Source{Text: "a", Path: path}, nil)
	assert.ErrorIs(t, err, ErrAmbiguousSource)
}

func TestResolve_RefusesInternalHosts(t *testing.T) {
	server := postingServer(t, `<main><p>INTERNAL-ADMIN-SECRET token=abc123</p></main>`)

	text, meta, err := Resolve(context.Background(), Source{URL: server.URL + "/admin"}, NewURLLoader(false, false))
	assert.ErrorIs(t, err, fetch.ErrBlockedAddress)
	assert.Empty(t, text)
	assert.Nil(t, meta)

	_, _, err = Resolve(context.Background(), Source{URL: server.URL + "/admin"}, nil)
	assert.ErrorIs(t, err, fetch.ErrBlockedAddress, "the default loader is guarded too")
}

func TestNewLocalURLLoader_AllowsInternalHosts(t *testing.T) {
	server := postingServer(t, `<main><p>Posting on the office intranet</p></main>`)

	text, _, err := Resolve(context.Background(), Source{URL: server.URL}, NewLocalURLLoader(false, false))
	require.NoError(t, err)
	assert.Equal(t, "Posting on the office intranet", text)
}

func TestURLLoader_RendererNotCalledForInternalHosts(t *testing.T) {
	shell := func(_ context.Context, rawURL string, _ *fetch.Options) (*fetch.Page, error) {
		return &fetch.Page{URL: rawURL, HTML: `<main><p>Loading...</p></main>`, StatusCode: http.StatusOK}, nil
	}
	renderer := &stubRenderer{html: `<main><p>metadata</p></main>`}
	loader := &URLLoader{Cache: fetch.NewCache(shell, nil, 0), Renderer: renderer, UseBrowser: true}

	_, _, err := loader.Load(context.Background(), "http://169.254.169.254/latest/meta-data/")
	assert.ErrorIs(t, err, fetch.ErrBlockedAddress)
	assert.Equal(t, 0, renderer.calls)
}
