// Package cache holds the last collected snapshot and serves it within
// a configurable freshness window.
package cache

import (
	"sync"
	"time"

	"pistat/internal/metrics"
)

// CollectFunc produces a fresh snapshot on a cache miss.
type CollectFunc func() (*metrics.Snapshot, error)

type entry struct {
	snapshot  *metrics.Snapshot
	createdAt time.Time
}

// SnapshotCache stores a single snapshot with its creation time. It is
// an owned structure handed to the server rather than a package global,
// so tests can run it against a controlled clock.
type SnapshotCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	entry *entry
	now   func() time.Time
}

// New creates a cache with the given time-to-live. A zero TTL makes
// every lookup a miss.
func New(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{ttl: ttl, now: time.Now}
}

// GetOrCollect returns the cached snapshot when it is younger than the
// TTL, otherwise calls collect and stores the result. With bypass set,
// collect always runs and the stored entry is overwritten. The second
// return reports whether the snapshot came from the cache.
//
// collect runs without the lock held, so concurrent callers on a miss
// may collect redundantly; collection is read-only and idempotent, so
// the last writer simply wins. When collect fails, the previous entry
// is preserved and the error propagates.
func (c *SnapshotCache) GetOrCollect(collect CollectFunc, bypass bool) (*metrics.Snapshot, bool, error) {
	if !bypass {
		c.mu.RLock()
		e := c.entry
		fresh := e != nil && c.now().Sub(e.createdAt) < c.ttl
		c.mu.RUnlock()
		if fresh {
			return e.snapshot, true, nil
		}
	}

	snapshot, err := collect()
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.entry = &entry{snapshot: snapshot, createdAt: c.now()}
	c.mu.Unlock()

	return snapshot, false, nil
}

// Age returns how old the stored entry is, and false when the cache is
// empty.
func (c *SnapshotCache) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil {
		return 0, false
	}
	return c.now().Sub(c.entry.createdAt), true
}

// Clear drops the stored entry.
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}
