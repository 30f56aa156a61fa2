package cache

import (
	"fmt"
	"sync"
	"time"
)

// Item represents a cached value with expiration
type Item[V any] struct {
	Value      V
	Expiration int64
}

// Cache is a thread-safe in-memory cache
type Cache[V any] struct {
	items map[string]Item[V]
	mu    sync.RWMutex
	ttl   time.Duration
	done  chan struct{}
	once  sync.Once
}

// New creates a new cache with the specified default TTL
func New[V any](ttl time.Duration) *Cache[V] {
	c := &Cache[V]{
		items: make(map[string]Item[V]),
		ttl:   ttl,
		done:  make(chan struct{}),
	}

	// Start cleanup goroutine
	go c.cleanup()

	return c
}

// Set stores a value in the cache with the default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value in the cache with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = Item[V]{
		Value:      value,
		Expiration: time.Now().Add(ttl).UnixNano(),
	}
}

// Get retrieves a value from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	item, found := c.items[key]
	if !found {
		return zero, false
	}

	if time.Now().UnixNano() > item.Expiration {
		return zero, false
	}

	return item.Value, true
}

// GetOrSet retrieves a value from cache or sets it using the provided function
func (c *Cache[V]) GetOrSet(key string, fn func() (V, error)) (V, error) {
	if value, found := c.Get(key); found {
		return value, nil
	}

	value, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, value)
	return value, nil
}

// Delete removes a value from the cache
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Item[V])
}

// Len returns the number of stored items, expired or not
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine
func (c *Cache[V]) Close() {
	c.once.Do(func() { close(c.done) })
}

// cleanup removes expired items periodically
func (c *Cache[V]) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *Cache[V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, item := range c.items {
		if now > item.Expiration {
			delete(c.items, key)
		}
	}
}

// Cache keys
const (
	KeyHost = "host:info"
)

// RevisionKey names a value computed from one workspace revision
func RevisionKey(prefix string, revision uint64) string {
	return fmt.Sprintf("%s:rev:%d", prefix, revision)
}

// RevisionCache holds values derived from a workspace snapshot. Entries are
// keyed by revision, so a mutated workspace never sees a stale value.
type RevisionCache[V any] struct {
	*Cache[V]
	prefix string
}

// NewRevisionCache creates a revision-keyed cache; ttl only bounds memory
func NewRevisionCache[V any](prefix string, ttl time.Duration) *RevisionCache[V] {
	return &RevisionCache[V]{
		Cache:  New[V](ttl),
		prefix: prefix,
	}
}

// GetOrCompute returns the value for revision, computing it once
func (r *RevisionCache[V]) GetOrCompute(revision uint64, fn func() (V, error)) (V, error) {
	return r.GetOrSet(RevisionKey(r.prefix, revision), fn)
}
