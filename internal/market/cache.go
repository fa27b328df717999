package market

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const snapshotKey = "pricebook"

// Cache serves the last fetched snapshot until its TTL elapses. Each refresh
// replaces the whole snapshot; nothing is merged. A TTL of zero disables
// caching and every call reaches the feed. No background refresh runs.
type Cache struct {
	feed  Feed
	ttl   time.Duration
	store *gocache.Cache
}

func NewCache(feed Feed, ttl time.Duration) *Cache {
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{
		feed:  feed,
		ttl:   ttl,
		store: gocache.New(ttl, 0),
	}
}

// Fetch is the get-or-refresh operation. Failed refreshes are not cached.
func (c *Cache) Fetch(ctx context.Context) (Snapshot, error) {
	if c.ttl == 0 {
		return c.feed.Fetch(ctx)
	}
	if v, ok := c.store.Get(snapshotKey); ok {
		return v.(Snapshot), nil
	}

	snap, err := c.feed.Fetch(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	c.store.Set(snapshotKey, snap, gocache.DefaultExpiration)
	return snap, nil
}

// Peek returns the cached snapshot and its expiry without refreshing.
func (c *Cache) Peek() (Snapshot, time.Time, bool) {
	v, expires, ok := c.store.GetWithExpiration(snapshotKey)
	if !ok {
		return Snapshot{}, time.Time{}, false
	}
	return v.(Snapshot), expires, true
}

func (c *Cache) Invalidate() {
	c.store.Delete(snapshotKey)
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}
