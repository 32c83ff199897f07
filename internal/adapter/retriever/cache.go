package retriever

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// QueryCache memoizes retrieval results. Entries carry the store generation
// they were computed against; any ingest, clear, or rehydrate bumps the
// generation and stale entries are dropped on lookup. Simple FIFO eviction.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	texts     []string
	gen       uint64
	timestamp time.Time
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(sessionID, query string, topK int) string {
	data := []byte(sessionID)
	data = append(data, 0)
	data = append(data, query...)
	data = append(data, byte(topK>>8), byte(topK))
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

func (c *QueryCache) Get(sessionID, query string, topK int, gen uint64) ([]string, bool) {
	key := cacheKey(sessionID, query, topK)

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || entry.gen != gen || time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	// Copy so callers mutating the result cannot poison later hits.
	texts := make([]string, len(entry.texts))
	copy(texts, entry.texts)
	return texts, true
}

func (c *QueryCache) Put(sessionID, query string, topK int, gen uint64, texts []string) {
	key := cacheKey(sessionID, query, topK)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}

	stored := make([]string, len(texts))
	copy(stored, texts)
	c.entries[key] = &cacheEntry{
		texts:     stored,
		gen:       gen,
		timestamp: time.Now(),
	}
}
