package ponyx

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ParseCache caches parse results keyed by a hash of the source identity,
// the embedding and the text. Cached results are shared and must not be
// modified.
type ParseCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front is most recently used
	config  ParseCacheConfig
	stats   ParseCacheStats
	now     func() time.Time
	logger  *zap.Logger
}

type parseCacheEntry struct {
	key       string
	result    *ParseResult
	expiresAt time.Time
}

// ParseCacheConfig configures the parse cache.
type ParseCacheConfig struct {
	// TTL is how long results are cached. Default: 10 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached results. Default: 512.
	MaxEntries int
}

// ParseCacheStats tracks cache performance metrics.
type ParseCacheStats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	EntryCount int
}

// DefaultParseCacheConfig returns the default cache configuration.
func DefaultParseCacheConfig() ParseCacheConfig {
	return ParseCacheConfig{
		TTL:        DefaultCacheTTL,
		MaxEntries: DefaultCacheMaxEntries,
	}
}

// NewParseCache creates a parse cache. Zero config values take defaults.
func NewParseCache(config ParseCacheConfig, logger *zap.Logger) *ParseCache {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParseCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		config:  config,
		now:     time.Now,
		logger:  logger,
	}
}

// Get returns a cached result if present and not expired.
func (c *ParseCache) Get(key string) (*ParseResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		c.logger.Debug(LogMsgCacheMiss, zap.String(LogFieldKey, key))
		return nil, false
	}
	entry := el.Value.(*parseCacheEntry)
	if c.now().After(entry.expiresAt) {
		c.remove(el)
		c.stats.Misses++
		c.logger.Debug(LogMsgCacheMiss, zap.String(LogFieldKey, key))
		return nil, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	c.logger.Debug(LogMsgCacheHit, zap.String(LogFieldKey, key))
	return entry.result, true
}

// Set stores a result, evicting the least recently used entry when full.
func (c *ParseCache) Set(key string, result *ParseResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.config.TTL)
	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*parseCacheEntry)
		entry.result = result
		entry.expiresAt = expires
		c.order.MoveToFront(el)
		return
	}
	for c.order.Len() >= c.config.MaxEntries {
		oldest := c.order.Back()
		c.logger.Debug(LogMsgCacheEvict, zap.String(LogFieldKey, oldest.Value.(*parseCacheEntry).key))
		c.remove(oldest)
		c.stats.Evictions++
	}
	c.entries[key] = c.order.PushFront(&parseCacheEntry{key: key, result: result, expiresAt: expires})
	c.stats.EntryCount = len(c.entries)
}

// Invalidate removes a specific entry
func (c *ParseCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
}

// Clear removes all entries from the cache.
func (c *ParseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.stats.EntryCount = 0
}

// Len returns the number of cached entries, expired ones included
func (c *ParseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns current cache statistics.
func (c *ParseCache) Stats() ParseCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (c *ParseCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}

// Cleanup removes expired entries and returns how many were dropped.
func (c *ParseCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*parseCacheEntry).expiresAt) {
			c.remove(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *ParseCache) remove(el *list.Element) {
	entry := c.order.Remove(el).(*parseCacheEntry)
	delete(c.entries, entry.key)
	c.stats.EntryCount = len(c.entries)
}

// CacheKey hashes the parse mode, source id, parser scope and text. The
// scope names everything besides the text that shapes the result, such as
// the embedding id.
func CacheKey(mode string, id SourceID, scope, text string) string {
	h := sha256.New()
	for _, part := range []string{mode, string(id), scope} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
