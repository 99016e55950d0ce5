package usecase

import (
	"sync"

	"github.com/pricescope/backend/internal/domain"
)

// pairCache memoizes pairwise match verdicts for the lifetime of the matcher.
// The key is the unordered pair of normalized titles, so match(A,B) and
// match(B,A) collide. Entries are idempotent: a racing recomputation writes
// an identical result, so only the map itself needs guarding.
type pairCache struct {
	mu      sync.RWMutex
	entries map[string]domain.MatchResult
}

func newPairCache() *pairCache {
	return &pairCache{entries: make(map[string]domain.MatchResult)}
}

// key builds the unordered cache key by sorting the normalized titles
func (c *pairCache) key(titleA, titleB string) string {
	a, b := Normalize(titleA), Normalize(titleB)
	if b < a {
		a, b = b, a
	}
	return a + "||" + b
}

func (c *pairCache) get(key string) (domain.MatchResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[key]
	return result, ok
}

func (c *pairCache) set(key string, result domain.MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
}

// size returns the number of memoized pairs
func (c *pairCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
