// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fluentre

package fluentre

import (
	"sync"
	"time"
)

// MatcherCache caches compiled matchers by pattern and engine options.
// It is safe for concurrent use; concurrent requests for one key compile once.
type MatcherCache struct {
	// entries stores compiled matcher or compile error by key.
	entries map[cacheKey]*cachedMatcher
	// mu guards entries.
	mu sync.Mutex
}

// cacheKey identifies one compiled matcher.
type cacheKey struct {
	pattern string
	timeout time.Duration
	flavor  Flavor
}

// cachedMatcher stores one compiled matcher or a cached compile error.
type cachedMatcher struct {
	// matcher is nil when compile failed.
	matcher *Matcher
	// err stores compile error for deterministic repeated calls.
	err error
	// loading reports whether matcher is currently being compiled by another goroutine.
	loading bool
	// wg coordinates concurrent waiters for one compile attempt.
	wg sync.WaitGroup
}

// NewMatcherCache creates an empty cache.
func NewMatcherCache() *MatcherCache {
	return &MatcherCache{
		entries: make(map[cacheKey]*cachedMatcher),
	}
}

// Len returns the number of cached entries, including failed compiles.
func (c *MatcherCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Get returns a cached or newly compiled matcher for pattern.
func (c *MatcherCache) Get(pattern string, opts Options) (*Matcher, error) {
	key := cacheKey{
		pattern: pattern,
		flavor:  opts.Flavor,
		timeout: opts.MatchTimeout,
	}

	c.mu.Lock()
	cached, ok := c.entries[key]
	if ok {
		loading := cached.loading
		c.mu.Unlock()
		if loading {
			cached.wg.Wait()
		}

		return cached.matcher, cached.err
	}

	cached = &cachedMatcher{
		loading: true,
	}
	cached.wg.Add(1)
	c.entries[key] = cached
	c.mu.Unlock()

	matcher, err := Compile(pattern, opts)

	c.mu.Lock()
	cached.matcher = matcher
	cached.err = err
	cached.loading = false
	cached.wg.Done()
	c.mu.Unlock()

	return matcher, err
}

// GetBuilder builds b and returns its cached matcher.
func (c *MatcherCache) GetBuilder(b *Builder) (*Matcher, error) {
	pattern, err := b.Build()
	if err != nil {
		return nil, err
	}

	return c.Get(pattern, b.opts)
}
