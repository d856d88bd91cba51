package services

import (
	"sync"

	"github.com/veridata/veridata-engine/pkg/models"
)

// InsightCache stores validated insight results keyed by analysis
// fingerprint. The stored result carries the record, the raw model text,
// and the attempt count, so cache hits replay the same metadata a fresh
// response would. Entries never expire; when a maximum size is configured
// the oldest entry is evicted first. Safe for concurrent use.
type InsightCache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]*models.InsightResult
	order      []string
}

// NewInsightCache creates a cache holding at most maxEntries results.
// A maxEntries of zero means unbounded.
func NewInsightCache(maxEntries int) *InsightCache {
	return &InsightCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*models.InsightResult),
	}
}

// Get returns the cached result for a fingerprint, if present. Callers must
// not mutate the returned result.
func (c *InsightCache) Get(fingerprint string) (*models.InsightResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, ok := c.entries[fingerprint]
	return result, ok
}

// Put stores a result under a fingerprint. Replacing an existing entry does
// not change its eviction position.
func (c *InsightCache) Put(fingerprint string, result *models.InsightResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[fingerprint]; !exists {
		c.order = append(c.order, fingerprint)
	}
	c.entries[fingerprint] = result

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len returns the number of cached results.
func (c *InsightCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
