// Package cache provides a thread-safe LRU cache for parsed query expressions.
//
// The cache is used by the evaluator when the WithCaching option is enabled.
// It avoids re-parsing the same query text on every call, which is especially valuable
// when the same query is run against many databases.
//
// # Example
//
//	c := cache.New(1024)
//	expr, err := c.GetOrCompile(`db("books")//title`, compile)
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sandrolain/goxq/pkg/types"
)

// DefaultCapacity is used when New is called with a non-positive capacity.
const DefaultCapacity = 256

// Cache is a thread-safe LRU (Least Recently Used) cache for parsed expressions.
// Once the capacity is reached, the least recently accessed entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	capacity int
	lru      *lru.Cache[string, *types.Expression]
}

// New creates a new LRU cache with the given capacity.
// capacity must be > 0; if <= 0, DefaultCapacity is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	// lru.New only fails for non-positive sizes.
	l, _ := lru.New[string, *types.Expression](capacity)
	return &Cache{
		capacity: capacity,
		lru:      l,
	}
}

// Get retrieves a parsed expression from the cache and marks it as recently used.
func (c *Cache) Get(key string) (*types.Expression, bool) {
	return c.lru.Get(key)
}

// Set inserts or replaces an expression in the cache.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(key string, expr *types.Expression) {
	c.lru.Add(key, expr)
}

// GetOrCompile retrieves the expression for key from cache, or calls compile()
// to create it, caches the result, and returns it.
// Errors are not cached.
func (c *Cache) GetOrCompile(key string, compile func() (*types.Expression, error)) (*types.Expression, error) {
	if expr, ok := c.Get(key); ok {
		return expr, nil
	}
	expr, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(key, expr)
	return expr, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Invalidate removes a single entry from the cache.
func (c *Cache) Invalidate(key string) {
	c.lru.Remove(key)
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.lru.Purge()
}
