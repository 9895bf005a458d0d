package cache

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// MemoryCache holds entries in process for the duration of a batch run.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache whose entries expire after ttl.
func NewMemoryCache(ttl, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(ttl, cleanupInterval)}
}

// Get returns the entry for key.
func (m *MemoryCache) Get(key string) (Entry, bool) {
	if v, ok := m.cache.Get(key); ok {
		return v.(Entry), true
	}
	return Entry{}, false
}

// Set stores e with the default expiration.
func (m *MemoryCache) Set(key string, e Entry) {
	m.cache.Set(key, e, gocache.DefaultExpiration)
}

// Len returns the number of unexpired entries.
func (m *MemoryCache) Len() int { return m.cache.ItemCount() }

// Flush drops every entry.
func (m *MemoryCache) Flush() { m.cache.Flush() }

// Layered checks memory first, then disk. Either layer may be nil.
type Layered struct {
	Memory *MemoryCache
	Disk   *TextCache
}

// Get looks key up in each layer and promotes disk hits into memory.
func (l Layered) Get(ctx context.Context, key string) (Entry, bool) {
	if l.Memory != nil {
		if e, ok := l.Memory.Get(key); ok {
			return e, true
		}
	}
	if l.Disk == nil {
		return Entry{}, false
	}
	e, err := l.Disk.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return Entry{}, false
	}
	if l.Memory != nil {
		l.Memory.Set(key, e)
	}
	return e, true
}

// Put stores e in every layer. A disk failure is logged, not returned: the
// cache only saves work.
func (l Layered) Put(ctx context.Context, key string, e Entry) {
	if l.Memory != nil {
		l.Memory.Set(key, e)
	}
	if l.Disk != nil {
		if err := l.Disk.Save(ctx, key, e); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
}
