package embedding

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes job embeddings per (job id, fingerprint) pair. Concurrent
// requests for the same pair collapse into one provider call; a changed
// fingerprint forces exactly one recomputation on next access. Entries never
// outlive the process: the cache is an optimization, not a source of truth.
type Cache struct {
	provider Provider
	logger   *zap.Logger

	// maxEntries bounds the cache; 0 means unbounded, which is fine for the
	// scope of a single matching run.
	maxEntries int

	mu      sync.Mutex
	entries map[string]*cacheEntry
	group   singleflight.Group
}

type cacheEntry struct {
	fingerprint string
	vector      []float64
	lastUsed    time.Time
}

func NewCache(provider Provider, logger *zap.Logger, maxEntries int) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		provider:   provider,
		logger:     logger,
		maxEntries: maxEntries,
		entries:    make(map[string]*cacheEntry),
	}
}

// GetOrCompute returns the embedding for the given job content, computing it
// through the provider at most once per (id, fingerprint) pair.
func (c *Cache) GetOrCompute(ctx context.Context, id, fingerprint, text string) ([]float64, error) {
	c.mu.Lock()
	if entry, ok := c.entries[id]; ok && entry.fingerprint == fingerprint {
		entry.lastUsed = time.Now()
		c.mu.Unlock()
		return entry.vector, nil
	}
	c.mu.Unlock()

	key := id + "\x00" + fingerprint
	v, err, shared := c.group.Do(key, func() (any, error) {
		// Another flight may have stored the entry between the lookup above
		// and this call.
		c.mu.Lock()
		if entry, ok := c.entries[id]; ok && entry.fingerprint == fingerprint {
			entry.lastUsed = time.Now()
			c.mu.Unlock()
			return entry.vector, nil
		}
		c.mu.Unlock()

		vector, err := c.provider.Embed(ctx, text)
		if err != nil {
			return nil, err
		}

		c.store(id, fingerprint, vector)
		return vector, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		c.logger.Debug("embedding computation shared between callers", zap.String("job_id", id))
	}

	return v.([]float64), nil
}

func (c *Cache) store(id, fingerprint string, vector []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[id] = &cacheEntry{
		fingerprint: fingerprint,
		vector:      vector,
		lastUsed:    time.Now(),
	}
}

// evictOldest removes the least recently used entry. Caller holds the lock.
func (c *Cache) evictOldest() {
	var oldestID string
	var oldest time.Time

	for id, entry := range c.entries {
		if oldestID == "" || entry.lastUsed.Before(oldest) {
			oldestID = id
			oldest = entry.lastUsed
		}
	}

	if oldestID != "" {
		delete(c.entries, oldestID)
		c.logger.Debug("evicted cached embedding", zap.String("job_id", oldestID))
	}
}

// Clear drops all cached embeddings.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
