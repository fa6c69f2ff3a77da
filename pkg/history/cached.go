package history

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedStore serves the recent lists from an expiring LRU cache. Writes through the
// store drop every cached list, and a list read before a write finished is never cached.
type CachedStore struct {
	Store

	collections *expirable.LRU[int, []CollectionSummary]
	exports     *expirable.LRU[int, []ExportSummary]

	mu            sync.Mutex
	collectionGen uint64
	exportGen     uint64
}

// NewCachedStore wraps s. Cached lists expire after ttl.
func NewCachedStore(s Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		Store:       s,
		collections: expirable.NewLRU[int, []CollectionSummary](32, nil, ttl),
		exports:     expirable.NewLRU[int, []ExportSummary](32, nil, ttl),
	}
}

func (c *CachedStore) SaveCollection(ctx context.Context, in CollectionInput) (*Collection, error) {
	col, err := c.Store.SaveCollection(ctx, in)
	if err == nil {
		c.mu.Lock()
		c.collectionGen++
		c.exportGen++ // export rows join the collection name
		c.collections.Purge()
		c.exports.Purge()
		c.mu.Unlock()
	}
	return col, err
}

func (c *CachedStore) RecordExport(ctx context.Context, in ExportInput) (*ExportRecord, error) {
	rec, err := c.Store.RecordExport(ctx, in)
	if err == nil {
		c.mu.Lock()
		c.exportGen++
		c.exports.Purge()
		c.mu.Unlock()
	}
	return rec, err
}

func (c *CachedStore) RecentCollections(ctx context.Context, limit int) ([]CollectionSummary, error) {
	if list, ok := c.collections.Get(limit); ok {
		return list, nil
	}
	gen := c.generation(&c.collectionGen)
	list, err := c.Store.RecentCollections(ctx, limit)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.collectionGen == gen {
		c.collections.Add(limit, list)
	}
	c.mu.Unlock()
	return list, nil
}

func (c *CachedStore) RecentExports(ctx context.Context, limit int) ([]ExportSummary, error) {
	if list, ok := c.exports.Get(limit); ok {
		return list, nil
	}
	gen := c.generation(&c.exportGen)
	list, err := c.Store.RecentExports(ctx, limit)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.exportGen == gen {
		c.exports.Add(limit, list)
	}
	c.mu.Unlock()
	return list, nil
}

func (c *CachedStore) generation(gen *uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *gen
}
