// Package cache provides the bounded memoization cache that backs schema
// tables, layout lengths and field offsets.
//
// The cache is a map plus an insertion-ordered eviction queue. Once the number
// of entries exceeds the configured capacity the oldest inserted entry is
// dropped, regardless of how recently it was read (FIFO, not LRU). The cache
// only ever affects latency: an evicted entry is recomputed on the next lookup.
//
// # Thread Safety
//
// A Cache is safe for concurrent use. Every lookup and every insertion holds
// the cache mutex once. Values are computed outside the lock so a computation
// may itself consult the cache (nested records do). When two callers compute
// the same key concurrently, the first value stored wins and both callers
// receive it.
package cache

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/renode/packet/errs"
	"github.com/renode/packet/internal/options"
)

// DefaultCapacity is the entry bound used when no WithCapacity option is given.
const DefaultCapacity = 4096

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

// Cache is a bounded FIFO memoization cache keyed by comparable values.
type Cache struct {
	mu       sync.Mutex
	entries  map[any]any
	queue    []any // insertion order; head is the oldest live key
	head     int
	capacity int
	logger   *zap.Logger
	stats    Stats
}

// Option configures a Cache.
type Option = options.Option[*Cache]

// WithCapacity bounds the number of cached entries. n must be positive.
func WithCapacity(n int) Option {
	return options.New(func(c *Cache) error {
		if n <= 0 {
			return fmt.Errorf("%w: cache capacity must be positive, got %d", errs.ErrInvalidOption, n)
		}
		c.capacity = n

		return nil
	})
}

// WithLogger sets the logger used for eviction diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// New creates a cache.
func New(opts ...Option) (*Cache, error) {
	c := &Cache{
		entries:  make(map[any]any),
		capacity: DefaultCapacity,
		logger:   zap.NewNop(),
	}

	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// MustNew is like New but panics on invalid options.
func MustNew(opts ...Option) *Cache {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return c
}

var (
	defaultCache     *Cache
	defaultCacheOnce sync.Once
)

// Default returns the process-wide cache. It is created on first use and is
// only cleared by an explicit Reset.
func Default() *Cache {
	defaultCacheOnce.Do(func() {
		defaultCache = MustNew()
	})

	return defaultCache
}

// Lookup returns the value cached for key.
func (c *Cache) Lookup(key any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}

	return v, ok
}

// GetOrCompute returns the value cached for key, calling compute on a miss.
//
// Errors from compute are returned and nothing is stored.
func (c *Cache) GetOrCompute(key any, compute func() (any, error)) (any, error) {
	if v, ok := c.Lookup(key); ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		return nil, err
	}

	return c.store(key, v), nil
}

// store inserts v under key unless another caller stored a value first, and
// returns the value that is now cached.
func (c *Cache) store(key any, v any) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return existing
	}

	c.entries[key] = v
	c.queue = append(c.queue, key)

	for len(c.entries) > c.capacity {
		oldest := c.queue[c.head]
		c.queue[c.head] = nil
		c.head++
		delete(c.entries, oldest)
		c.stats.Evictions++

		c.logger.Debug("cache eviction",
			zap.Any("key", oldest),
			zap.Int("capacity", c.capacity))
	}

	// Compact the queue once the dead prefix dominates it.
	if c.head > 0 && c.head*2 >= len(c.queue) {
		n := copy(c.queue, c.queue[c.head:])
		clear(c.queue[n:])
		c.queue = c.queue[:n]
		c.head = 0
	}

	return v
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Capacity returns the entry bound.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.entries)

	return s
}

// Reset drops every entry and zeroes the counters.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	clear(c.queue)
	c.queue = c.queue[:0]
	c.head = 0
	c.stats = Stats{}
}

// Get is the typed form of GetOrCompute.
func Get[V any](c *Cache, key any, compute func() (V, error)) (V, error) {
	v, err := c.GetOrCompute(key, func() (any, error) {
		return compute()
	})
	if err != nil {
		var zero V
		return zero, err
	}

	typed, ok := v.(V)
	if !ok {
		// A foreign value under the same key; recompute without caching.
		return compute()
	}

	return typed, nil
}
