package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one method on one path. A Path ending in "/" matches by prefix.
type Rule struct {
	Method string
	Path   string
	Limit  int           // requests per Window; zero or less means unlimited
	Window time.Duration
	Burst  int // bucket capacity, Limit when zero
}

func (r Rule) capacity() int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}

func (r Rule) refillPerSecond() float64 {
	if r.Window <= 0 {
		return 0
	}
	return float64(r.Limit) / r.Window.Seconds()
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Default         Rule
	Rules           []Rule
	CleanupInterval time.Duration
	// IdleTTL is how long an untouched bucket survives cleanup.
	IdleTTL   time.Duration
	Allowlist map[string]bool
	Denylist  map[string]bool
}

// DefaultConfig returns limits suited to a single generation server.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Default:         Rule{Limit: 600, Window: time.Minute},
		Rules:           DefaultRules(),
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Allowlist:       map[string]bool{},
		Denylist:        map[string]bool{},
	}
}

// DefaultRules returns the per-endpoint rules. Generation calls a paid model
// and gets the strictest bucket.
func DefaultRules() []Rule {
	return []Rule{
		{Method: "GET", Path: "/health", Limit: 0},
		{Method: "POST", Path: "/generate", Limit: 10, Window: time.Hour, Burst: 2},
		{Method: "POST", Path: "/sessions", Limit: 30, Window: time.Minute, Burst: 5},
		{Method: "GET", Path: "/events", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// LoadConfig reads RATE_LIMIT_* environment variables over DefaultConfig.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = envBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return cfg
	}

	cfg.Default.Limit = envInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.Default.Limit)
	cfg.Default.Window = envDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.Default.Window)
	cfg.CleanupInterval = envDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)

	if perHour := envInt("RATE_LIMIT_GENERATE_PER_HOUR", 0); perHour > 0 {
		for i := range cfg.Rules {
			if cfg.Rules[i].Path == "/generate" {
				cfg.Rules[i].Limit = perHour
			}
		}
	}

	cfg.Allowlist = parseIPList(os.Getenv("RATE_LIMIT_WHITELIST"))
	cfg.Denylist = parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST"))
	return cfg
}

// match returns the rule for method and path, falling back to the default.
// Exact paths win over prefixes.
func (c *Config) match(method, path string) Rule {
	for _, r := range c.Rules {
		if r.Method == method && r.Path == path {
			return r
		}
	}
	for _, r := range c.Rules {
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return c.Default
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
