// ABOUTME: In-memory render cache keyed by the sha256 of the generated DOT text and output format.
// ABOUTME: Supports TTL-based expiry, concurrent access, purging of stale entries, and manual clearing.
package render

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/2389-research/automata/dfa"
)

// RenderFunc renders DOT text to a format. RenderDOTSource satisfies it.
type RenderFunc func(ctx context.Context, dotText string, format string) ([]byte, error)

type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// RenderCache memoizes automaton renders. Two automata with identical
// structure and the same highlighted trace share an entry.
type RenderCache struct {
	renderFn RenderFunc
	ttl      time.Duration
	entries  map[string]*cacheEntry
	mu       sync.RWMutex
}

// NewRenderCache creates a RenderCache wrapping the given rendering function.
func NewRenderCache(renderFn RenderFunc, ttl time.Duration) *RenderCache {
	return &RenderCache{
		renderFn: renderFn,
		ttl:      ttl,
		entries:  make(map[string]*cacheEntry),
	}
}

// Render renders a, highlighting trace when it is non-nil. Errors are never cached.
func (c *RenderCache) Render(ctx context.Context, a *dfa.Automaton, trace *dfa.Trace, format string) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("cannot render nil automaton")
	}
	var dotText string
	if trace != nil {
		dotText = ToDOTWithTrace(a, trace)
	} else {
		dotText = ToDOT(a)
	}
	key := cacheKey(dotText, format)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Since(entry.createdAt) < c.ttl {
		return entry.data, nil
	}

	data, err := c.renderFn(ctx, dotText, format)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{data: data, createdAt: time.Now()}
	c.mu.Unlock()

	return data, nil
}

// Purge drops expired entries and returns how many were removed.
func (c *RenderCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if time.Since(e.createdAt) >= c.ttl {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of entries currently in the cache (including expired ones).
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *RenderCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func cacheKey(dotText string, format string) string {
	return fmt.Sprintf("%x:%s", sha256.Sum256([]byte(dotText)), format)
}
