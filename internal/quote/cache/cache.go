package cache

import (
	"strings"
	"sync"
	"time"

	"portfoliotracker/internal/quote"
)

// entry stores one cached quote with its fetch time.
type entry struct {
	data      quote.Quote
	fetchedAt time.Time
}

// Cache holds the last quote per symbol, real or demo, for a TTL.
// Keys are case-normalized to uppercase. Entries are superseded in place
// and never evicted; a stale entry simply stops being returned. Growth is
// bounded by the set of symbols a session touches, which is small.
type Cache struct {
	ttl time.Duration

	mu    sync.RWMutex
	items map[string]entry

	now func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:   ttl,
		items: make(map[string]entry),
		now:   time.Now,
	}
}

// Get returns the cached quote for symbol if an entry exists and is still
// within the TTL. Stale entries are reported as absent but not removed.
func (c *Cache) Get(symbol string) (quote.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[strings.ToUpper(symbol)]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return quote.Quote{}, false
	}
	return e.data, true
}

// Put upserts the entry for symbol, stamping it with the current time.
func (c *Cache) Put(symbol string, q quote.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[strings.ToUpper(symbol)] = entry{data: q, fetchedAt: c.now()}
}

// Len reports the number of entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
