package cache

import (
	"context"
	"path"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// MemoryCache in-process кэш: LRU-вытеснение из golang-lru и TTL на запись.
// Просроченная запись удаляется при обращении к ней.
type MemoryCache struct {
	lru        *lru.Cache
	defaultTTL time.Duration

	hits   atomic.Int64
	misses atomic.Int64
	closed atomic.Bool
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryCache создаёт LRU кэш на opts.MaxEntries записей
func NewMemoryCache(opts *Options) (*MemoryCache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	size := opts.MaxEntries
	if size <= 0 {
		size = DefaultOptions().MaxEntries
	}

	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &MemoryCache{
		lru:        cache,
		defaultTTL: opts.DefaultTTL,
	}, nil
}

func (c *MemoryCache) lookup(key string) (memoryEntry, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return memoryEntry{}, false
	}

	entry := v.(memoryEntry)
	if entry.expired(timeNow()) {
		c.lru.Remove(key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	entry, ok := c.lookup(key)
	if !ok {
		c.misses.Add(1)
		return nil, ErrKeyNotFound
	}

	c.hits.Add(1)
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	entry := memoryEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if ttl > 0 {
		entry.expiresAt = timeNow().Add(ttl)
	}

	c.lru.Add(key, entry)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.lru.Remove(key)
	return nil
}

func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	_, ok := c.lookup(key)
	return ok, nil
}

// DeleteByPattern поддерживает glob-шаблоны path.Match ("solve:*:abc")
func (c *MemoryCache) DeleteByPattern(_ context.Context, pattern string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}

	var deleted int64
	for _, k := range c.lru.Keys() {
		key := k.(string)
		matched, err := path.Match(pattern, key)
		if err != nil {
			return deleted, err
		}
		if matched && c.lru.Contains(key) {
			c.lru.Remove(key)
			deleted++
		}
	}
	return deleted, nil
}

func (c *MemoryCache) Stats(_ context.Context) (*Stats, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	stats := &Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Backend: BackendMemory,
	}

	now := timeNow()
	for _, k := range c.lru.Keys() {
		// Peek не меняет порядок LRU
		v, ok := c.lru.Peek(k)
		if !ok {
			continue
		}
		entry := v.(memoryEntry)
		if entry.expired(now) {
			continue
		}
		stats.TotalKeys++
		stats.MemoryBytes += int64(len(entry.value))
	}

	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats, nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.lru.Purge()
	return nil
}

func (c *MemoryCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.lru.Purge()
	return nil
}

var timeNow = time.Now
