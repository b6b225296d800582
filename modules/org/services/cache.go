package services

import (
	"sync"
)

// orgCache memoizes derived views. Every invalidation bumps the generation;
// a value computed under an older generation is dropped instead of stored.
type orgCache struct {
	mu         sync.RWMutex
	generation uint64
	entries    map[string]any
}

func newOrgCache() *orgCache {
	return &orgCache{entries: make(map[string]any)}
}

func (c *orgCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *orgCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *orgCache) Set(generation uint64, key string, value any) bool {
	if key == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false
	}
	c.entries[key] = value
	return true
}

func (c *orgCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	clear(c.entries)
}

func (c *orgCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func treeCacheKey(company string) string      { return "tree:" + company }
func directoryCacheKey(company string) string { return "directory:" + company }

const companiesCacheKey = "companies"
