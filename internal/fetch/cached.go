package fetch

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a fetched posting is reused.
const DefaultCacheTTL = 15 * time.Minute

// Getter retrieves a page.
type Getter func(ctx context.Context, rawURL string, opts *Options) (*Page, error)

type cacheEntry struct {
	page    *Page
	expires time.Time
}

// Cache memoizes successful fetches in memory for a fixed TTL.
// Failed fetches are never stored.
type Cache struct {
	get     Getter
	opts    *Options
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache wraps get (Get when nil) with a TTL cache.
func NewCache(get Getter, opts *Options, ttl time.Duration) *Cache {
	if get == nil {
		get = Get
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		get:     get,
		opts:    opts,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Fetch returns a cached page for rawURL when fresh, fetching it otherwise.
// The bool reports a cache hit.
func (c *Cache) Fetch(ctx context.Context, rawURL string) (*Page, bool, error) {
	c.mu.Lock()
	entry, ok := c.entries[rawURL]
	if ok && c.now().Before(entry.expires) {
		c.mu.Unlock()
		return entry.page, true, nil
	}
	delete(c.entries, rawURL)
	c.mu.Unlock()

	page, err := c.get(ctx, rawURL, c.opts)
	if err != nil {
		return page, false, err
	}

	c.mu.Lock()
	c.entries[rawURL] = cacheEntry{page: page, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return page, false, nil
}

// Invalidate drops rawURL from the cache.
func (c *Cache) Invalidate(rawURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, rawURL)
}

// Len returns the number of cached entries, including expired ones not yet evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
