package cache

import (
	"sync"
	"time"
)

type entry struct {
	value   interface{}
	expires time.Time
}

// TTL is a small in-process cache with a fixed per-entry lifetime. It
// is handed explicitly to the components that need it; there is no
// package-level instance.
type TTL struct {
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
	mu      sync.RWMutex
}

func NewTTL(ttl time.Duration) *TTL {
	return &TTL{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (c *TTL) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *TTL) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Drop expired entries while we hold the lock; the key space here
	// is tiny (listing metadata), so a full sweep is fine.
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = entry{value: value, expires: now.Add(c.ttl)}
}
