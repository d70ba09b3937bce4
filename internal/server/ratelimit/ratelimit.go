// Package ratelimit provides per-client token bucket rate limiting for HTTP handlers.
package ratelimit

import (
	"encoding/json"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// epsilon absorbs float drift so a bucket refilled for exactly one token period allows a request.
const epsilon = 1e-9

type bucket struct {
	capacity float64
	rate     float64 // tokens per second
	tokens   float64
	last     time.Time
	seen     time.Time
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	}
	b.last = now
}

// untilFull returns how long until the bucket is back at capacity.
func (b *bucket) untilFull() time.Duration {
	if b.rate <= 0 || b.tokens >= b.capacity {
		return 0
	}
	return millis((b.capacity - b.tokens) / b.rate)
}

// untilNext returns how long until one token is available.
func (b *bucket) untilNext() time.Duration {
	if b.tokens+epsilon >= 1 {
		return 0
	}
	if b.rate <= 0 {
		return time.Duration(math.MaxInt64)
	}
	return millis((1 - b.tokens) / b.rate)
}

func millis(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds*1000)) * time.Millisecond
}

// Decision describes the outcome of a rate limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter tracks one bucket per client, method and path.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config uses DefaultConfig.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow consumes a token for clientID on method and path if one is available.
func (l *Limiter) Allow(clientID, method, path string) Decision {
	switch {
	case !l.config.Enabled, l.config.Allowlist[clientID]:
		return Decision{Allowed: true}
	case l.config.Denylist[clientID]:
		return Decision{Allowed: false}
	}

	rule := l.config.match(method, path)
	if rule.Limit <= 0 {
		return Decision{Allowed: true}
	}

	now := l.now()
	key := clientID + " " + method + " " + path

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		capacity := float64(rule.capacity())
		b = &bucket{capacity: capacity, rate: rule.refillPerSecond(), tokens: capacity, last: now}
		l.buckets[key] = b
	}
	b.refill(now)
	b.seen = now

	d := Decision{Limit: rule.Limit}
	if b.tokens+epsilon >= 1 {
		b.tokens--
		d.Allowed = true
	} else {
		d.RetryAfter = b.untilNext()
	}
	d.Remaining = int(math.Max(0, b.tokens+epsilon))
	d.ResetAt = now.Add(b.untilFull())
	return d
}

// Sweep drops buckets idle for longer than the configured IdleTTL.
func (l *Limiter) Sweep() int {
	ttl := l.config.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cutoff := l.now().Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, b := range l.buckets {
		if b.seen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stop:
			return
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Middleware rejects requests over their limit with 429 and sets X-RateLimit-* headers.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := l.Allow(ClientID(r), r.Method, r.URL.Path)
		if d.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
		}
		if d.Allowed {
			next.ServeHTTP(w, r)
			return
		}

		body := map[string]any{
			"error":   "rate_limit_exceeded",
			"message": "Rate limit exceeded. Please try again later.",
		}
		if d.RetryAfter > 0 {
			secs := int(d.RetryAfter.Round(time.Second).Seconds())
			if secs < 1 {
				secs = 1
			}
			body["retry_after"] = secs
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		log.Printf("[rate-limit] %s %s from %s rejected (limit %d)", r.Method, r.URL.Path, ClientID(r), d.Limit)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// ClientID identifies the caller by remote IP.
func ClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
