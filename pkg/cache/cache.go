// Package cache provides a byte-oriented cache interface with an in-process
// LRU backend and a Redis backend, plus a typed cache for solver results.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kflow/pkg/config"
)

// Backend types for cache implementations.
const (
	// BackendMemory specifies an in-process LRU cache backend.
	BackendMemory = "memory"
	// BackendRedis specifies a Redis cache backend.
	BackendRedis = "redis"
)

// Standard errors returned by cache operations.
var (
	// ErrKeyNotFound is returned when a requested key does not exist or has expired.
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed is returned when an operation is attempted on a closed cache.
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache is the set of operations every backend provides.
type Cache interface {
	// Get retrieves the value associated with the given key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value for the given key. A non-positive ttl selects the
	// backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)
	// DeleteByPattern removes all keys matching a glob pattern and returns
	// how many were removed.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
	// Stats returns statistics about the cache.
	Stats(ctx context.Context) (*Stats, error)
	// Clear removes all keys from the cache.
	Clear(ctx context.Context) error
	// Close releases any underlying resources.
	Close() error
}

// Stats holds statistics about a cache's state.
type Stats struct {
	TotalKeys   int64   // Number of keys currently in the cache.
	Hits        int64   // Number of successful lookups.
	Misses      int64   // Number of failed lookups.
	HitRate     float64 // Ratio of hits to total lookups.
	MemoryBytes int64   // Approximate memory used by stored values.
	Backend     string  // The name of the cache backend.
}

// Options contains configuration parameters for creating a Cache instance.
type Options struct {
	Backend    string        // BackendMemory or BackendRedis.
	DefaultTTL time.Duration // Used when Set is called with a non-positive ttl.

	// Memory cache specific options
	MaxEntries int // Maximum number of entries kept by the LRU.

	// Redis cache specific options
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// DefaultOptions returns a new Options struct with sensible default values.
func DefaultOptions() *Options {
	return &Options{
		Backend:       BackendMemory,
		DefaultTTL:    time.Hour,
		MaxEntries:    1024,
		RedisAddr:     "localhost:6379",
		RedisDB:       0,
		RedisPoolSize: 10,
	}
}

// FromConfig создаёт опции из конфигурации
func FromConfig(cfg *config.CacheConfig) *Options {
	return &Options{
		Backend:       cfg.Driver,
		DefaultTTL:    cfg.DefaultTTL,
		MaxEntries:    cfg.MaxEntries,
		RedisAddr:     cfg.Address(),
		RedisPassword: cfg.Password,
		RedisDB:       cfg.DB,
		RedisPoolSize: cfg.PoolSize,
	}
}

// New создаёт кэш на основе опций
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	switch opts.Backend {
	case BackendRedis:
		return NewRedisCache(opts)
	case BackendMemory, "":
		return NewMemoryCache(opts)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
