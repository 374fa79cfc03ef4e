package stats

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"bahnboard.morphos.dev/tripdb"
)

// cacheKey builds the canonical memoization key for one derived table.
// Filters are sorted and individually quoted before joining; labels are
// user input, so a raw join separator could be smuggled inside a single
// label and collide with a different filter set.
func cacheKey(p tripdb.Period, widget string, filters ...string) string {
	if len(filters) == 0 {
		return p.String() + "|" + widget
	}
	sorted := make([]string, len(filters))
	for i, f := range filters {
		sorted[i] = strconv.Quote(f)
	}
	sort.Strings(sorted)
	return p.String() + "|" + widget + "|" + strings.Join(sorted, ",")
}

// resultCache memoizes derived tables. Entries are immutable once stored;
// a missing key is the only invalidation rule.
type resultCache struct {
	mu      sync.RWMutex
	entries map[string]any
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[string]any)}
}

func (c *resultCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *resultCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}
