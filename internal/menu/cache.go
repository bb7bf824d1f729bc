package menu

import (
	"context"
	"sync"
	"time"
)

// Cache is a time-bounded read-through cache in front of a Source.
// Menus change rarely relative to how often diners filter them, so one
// fetch serves many requests. The cache is owned by the caller and
// passed into the core explicitly; the filtering functions themselves
// stay stateless and reentrant.
type Cache struct {
	source Source
	ttl    time.Duration

	mu        sync.RWMutex
	items     []MenuItem
	fetchedAt time.Time
}

// CacheStatus describes the current cache state for monitoring.
type CacheStatus struct {
	Cached    bool          `json:"cached"`
	Age       time.Duration `json:"age"`
	ItemCount int           `json:"itemCount"`
}

// NewCache wraps a source with a TTL cache.
func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{source: source, ttl: ttl}
}

// Representation exposes the underlying source's declared shape so the
// cache can stand in for the source itself.
func (c *Cache) Representation() Representation {
	return c.source.Representation()
}

// Fetch returns the cached menu, refreshing from the source when the
// entry is missing or expired. A failed refresh is returned to the
// caller; stale data is never served past its TTL.
func (c *Cache) Fetch(ctx context.Context) ([]MenuItem, error) {
	c.mu.RLock()
	if c.items != nil && time.Since(c.fetchedAt) < c.ttl {
		items := c.items
		c.mu.RUnlock()
		return items, nil
	}
	c.mu.RUnlock()

	items, err := c.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items = items
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return items, nil
}

// Invalidate drops the cached entry so the next Fetch hits the source.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// Status reports whether a valid entry exists, its age, and its size.
func (c *Cache) Status() CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.items == nil {
		return CacheStatus{}
	}
	return CacheStatus{
		Cached:    true,
		Age:       time.Since(c.fetchedAt),
		ItemCount: len(c.items),
	}
}
