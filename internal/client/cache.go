package client

import (
	"strings"
	"sync"
)

// queryCache memoizes read responses by request key.
type queryCache struct {
	mu      sync.RWMutex
	entries map[string]any
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[string]any)}
}

func (c *queryCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *queryCache) set(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// invalidate drops every entry whose key starts with prefix.
func (c *queryCache) invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}
