package filestore

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Reader loads the text of a message file on a cache miss.
type Reader func(path string) (string, error)

// CacheStats is a point-in-time copy of the cache counters.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Sets    int64
	Entries int
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithMetrics exports the cache counters as Prometheus metrics registered on
// reg. Registration failures are reported by NewCache.
func WithMetrics(reg prometheus.Registerer) CacheOption {
	return func(c *Cache) { c.registerer = reg }
}

// Cache maps message ids to their last known text. Entries are added on
// every save and on the first read of an id, and are never evicted. All
// methods are safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[MessageID]string

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64

	registerer prometheus.Registerer
	metrics    *cacheMetrics
}

// NewCache creates an empty Cache.
func NewCache(opts ...CacheOption) (*Cache, error) {
	c := &Cache{entries: make(map[MessageID]string)}
	for _, opt := range opts {
		opt(c)
	}

	if c.registerer != nil {
		m, err := newCacheMetrics(c.registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}

	return c, nil
}

// AddOrUpdate stores message under id, replacing any previous value.
func (c *Cache) AddOrUpdate(id MessageID, message string) {
	c.mu.Lock()
	c.entries[id] = message
	size := len(c.entries)
	c.mu.Unlock()

	c.sets.Add(1)
	c.metrics.recordSet(size)
}

// GetOrAdd returns the cached text for id. An absent or empty entry counts as
// a miss: reader is called with path, and its result is stored and returned.
// A reader error leaves the cache unchanged.
//
// The lock is held across the read, so concurrent misses on one id hit the
// filesystem once.
func (c *Cache) GetOrAdd(id MessageID, path string, reader Reader) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if message, ok := c.entries[id]; ok && message != "" {
		c.hits.Add(1)
		c.metrics.recordHit()
		return message, nil
	}

	c.misses.Add(1)
	c.metrics.recordMiss()

	message, err := reader(path)
	if err != nil {
		return "", err
	}

	c.entries[id] = message
	c.metrics.recordSize(len(c.entries))
	return message, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Sets:    c.sets.Load(),
		Entries: c.Len(),
	}
}
