package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ReusesFreshPages(t *testing.T) {
	calls := 0
	get := func(_ context.Context, rawURL string, _ *Options) (*Page, error) {
		calls++
		return &Page{URL: rawURL, HTML: "<p>job</p>"}, nil
	}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCache(get, nil, time.Minute)
	cache.now = func() time.Time { return now }

	_, hit, err := cache.Fetch(context.Background(), "https://example.com/job")
	require.NoError(t, err)
	assert.False(t, hit)

	page, hit, err := cache.Fetch(context.Background(), "https://example.com/job")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "<p>job</p>", page.HTML)
	assert.Equal(t, 1, calls)

	now = now.Add(2 * time.Minute)
	_, hit, err = cache.Fetch(context.Background(), "https://example.com/job")
	require.NoError(t, err)
	assert.False(t, hit, "expired entries are refetched")
	assert.Equal(t, 2, calls)
}

func TestCache_DoesNotStoreFailures(t *testing.T) {
	failing := errors.New("boom")
	calls := 0
	get := func(_ context.Context, _ string, _ *Options) (*Page, error) {
		calls++
		return nil, failing
	}

	cache := NewCache(get, nil, 0)
	_, _, err := cache.Fetch(context.Background(), "https://example.com/job")
	assert.ErrorIs(t, err, failing)
	_, _, err = cache.Fetch(context.Background(), "https://example.com/job")
	assert.ErrorIs(t, err, failing)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_Invalidate(t *testing.T) {
	get := func(_ context.Context, rawURL string, _ *Options) (*Page, error) {
		return &Page{URL: rawURL}, nil
	}
	cache := NewCache(get, nil, time.Hour)

	_, _, err := cache.Fetch(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	cache.Invalidate("https://example.com/a")
	assert.Equal(t, 0, cache.Len())
}
