// Package memory is an in-process cache.Cache for single-node deployments and
// tests. Entries expire after their TTL and are swept periodically.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"abletech/common/cache"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

type Cache struct {
	entries    sync.Map
	count      atomic.Int64
	defaultTTL time.Duration
	maxEntries int
	closed     atomic.Bool
	stop       chan struct{}
	stopOnce   sync.Once
	now        func() time.Time
}

func New(opts cache.Options) *Cache {
	defaults := cache.DefaultOptions()
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = defaults.DefaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaults.CleanupInterval
	}

	c := &Cache{
		defaultTTL: opts.DefaultTTL,
		maxEntries: opts.MaxEntries,
		stop:       make(chan struct{}),
		now:        time.Now,
	}
	go c.cleanupLoop(opts.CleanupInterval)
	return c
}

func (c *Cache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.closed.Load() {
		return cache.ErrClosed
	}
	if err := cache.ValidKey(key); err != nil {
		return err
	}
	data, err := cache.Encode(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if _, ok := c.entries.Load(key); !ok {
		c.evictIfNeeded()
	}
	if _, loaded := c.entries.Swap(key, &entry{data: data, expiresAt: c.now().Add(ttl)}); !loaded {
		c.count.Add(1)
	}
	return nil
}

func (c *Cache) Get(_ context.Context, key string, value interface{}) error {
	if c.closed.Load() {
		return cache.ErrClosed
	}
	if err := cache.ValidKey(key); err != nil {
		return err
	}
	val, ok := c.entries.Load(key)
	if !ok {
		return cache.ErrNotFound
	}
	e := val.(*entry)
	if c.now().After(e.expiresAt) {
		c.remove(key)
		return cache.ErrNotFound
	}
	return cache.Decode(e.data, value)
}

func (c *Cache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return cache.ErrClosed
	}
	c.remove(key)
	return nil
}

func (c *Cache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return cache.ErrClosed
	}
	c.entries.Range(func(key, _ any) bool {
		c.remove(key)
		return true
	})
	return nil
}

func (c *Cache) Close() error {
	c.closed.Store(true)
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	return int(c.count.Load())
}

func (c *Cache) remove(key any) {
	if _, loaded := c.entries.LoadAndDelete(key); loaded {
		c.count.Add(-1)
	}
}

// evictIfNeeded drops expired entries first, then the entries closest to
// expiry, until there is room for one more.
func (c *Cache) evictIfNeeded() {
	if c.maxEntries <= 0 || c.Len() < c.maxEntries {
		return
	}

	c.sweep()

	for c.Len() >= c.maxEntries {
		var oldestKey any
		var oldestAt time.Time
		c.entries.Range(func(key, val any) bool {
			e := val.(*entry)
			if oldestKey == nil || e.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = e.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			return
		}
		c.remove(oldestKey)
	}
}

func (c *Cache) sweep() {
	now := c.now()
	c.entries.Range(func(key, val any) bool {
		if now.After(val.(*entry).expiresAt) {
			c.remove(key)
		}
		return true
	})
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}
