// Package details memoizes per-title catalog metadata. The cache is an
// explicitly constructed, injectable component so tests and callers
// control its lifecycle; there is no ambient global instance.
package details

import (
	"sync"
	"time"

	"github.com/oracleapp/oracle/internal/model"
)

type entry struct {
	details    *model.AppDetails
	insertedAt time.Time
}

// Cache memoizes metadata lookups keyed by AppID. Entries never expire
// by time; Clear is the only eviction.
type Cache struct {
	mu      sync.RWMutex
	entries map[model.TitleID]entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[model.TitleID]entry)}
}

// Get returns the cached details for a title, or false on a miss.
func (c *Cache) Get(id model.TitleID) (*model.AppDetails, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return e.details, true
}

// Put stores details for a title, replacing any previous entry.
func (c *Cache) Put(id model.TitleID, details *model.AppDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry{details: details, insertedAt: time.Now()}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[model.TitleID]entry)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetBatch splits ids into cached hits and the subset that must be
// fetched upstream. Hits and misses each preserve the input order, so
// a caller that fetches the missing ids and re-reads the cache gets a
// merged result in input order.
func (c *Cache) GetBatch(ids []model.TitleID) (hits []*model.AppDetails, missing []model.TitleID) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range ids {
		if e, ok := c.entries[id]; ok {
			hits = append(hits, e.details)
		} else {
			missing = append(missing, id)
		}
	}
	return hits, missing
}
