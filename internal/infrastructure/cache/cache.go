package cache

import (
	"log"
	"sync"
	"time"
)

// Store is the key-value contract the survey and insight caches are built on
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
}

type entry struct {
	value   interface{}
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expires)
}

// Cache is an in-process TTL store shared by the survey and insight caches
type Cache struct {
	items map[string]entry
	mu    sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

// New creates a cache that drops expired items every cleanupInterval.
// A non-positive interval disables the background sweep.
func New(cleanupInterval time.Duration) *Cache {
	cache := &Cache{
		items: make(map[string]entry),
		stop:  make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go func() {
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if removed := cache.DeleteExpired(); removed > 0 {
						log.Printf("[CACHE] swept %d expired entries, %d left", removed, cache.Len())
					}
				case <-cache.stop:
					return
				}
			}
		}()
	}

	return cache
}

// Close stops the background sweep
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{value: value, expires: time.Now().Add(ttl)}
}

// Get returns the value stored under key unless it has expired
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, found := c.items[key]
	c.mu.RUnlock()

	if !found || e.expired(time.Now()) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// DeleteExpired drops every expired entry and returns how many were dropped
func (c *Cache) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored items, expired ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
