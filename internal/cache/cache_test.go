package cache

import (
	"errors"
	"testing"
	"time"

	"pistat/internal/metrics"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time         { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(ttl time.Duration) (*SnapshotCache, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := New(ttl)
	c.now = clock.now
	return c, clock
}

func countingCollector(clock *fakeClock, calls *int) CollectFunc {
	return func() (*metrics.Snapshot, error) {
		*calls++
		return &metrics.Snapshot{Timestamp: float64(clock.t.UnixNano()) / 1e9}, nil
	}
}

func TestGetOrCollect_HitWithinTTL(t *testing.T) {
	c, clock := newTestCache(2 * time.Second)
	calls := 0
	collect := countingCollector(clock, &calls)

	first, fromCache, err := c.GetOrCollect(collect, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Error("first call should not be served from cache")
	}

	clock.advance(1 * time.Second)

	second, fromCache, err := c.GetOrCollect(collect, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fromCache {
		t.Error("second call within TTL should be served from cache")
	}
	if second.Timestamp != first.Timestamp {
		t.Errorf("expected identical timestamp %v, got %v", first.Timestamp, second.Timestamp)
	}
	if calls != 1 {
		t.Errorf("expected 1 collection, got %d", calls)
	}
}

func TestGetOrCollect_MissAfterTTL(t *testing.T) {
	c, clock := newTestCache(2 * time.Second)
	calls := 0
	collect := countingCollector(clock, &calls)

	first, _, _ := c.GetOrCollect(collect, false)

	clock.advance(3 * time.Second)

	second, fromCache, err := c.GetOrCollect(collect, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Error("call after TTL should trigger fresh collection")
	}
	if second.Timestamp == first.Timestamp {
		t.Error("expected a new timestamp after TTL expiry")
	}
	if calls != 2 {
		t.Errorf("expected 2 collections, got %d", calls)
	}
}

func TestGetOrCollect_BypassAlwaysCollects(t *testing.T) {
	c, clock := newTestCache(time.Hour)
	calls := 0
	collect := countingCollector(clock, &calls)

	c.GetOrCollect(collect, false)
	clock.advance(time.Millisecond)
	_, fromCache, err := c.GetOrCollect(collect, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Error("bypass must not be served from cache")
	}
	if calls != 2 {
		t.Errorf("expected 2 collections with bypass, got %d", calls)
	}

	// The bypass result replaces the stored entry.
	clock.advance(time.Millisecond)
	third, fromCache, _ := c.GetOrCollect(collect, false)
	if !fromCache {
		t.Error("expected cache hit after bypass refreshed the entry")
	}
	if calls != 2 {
		t.Errorf("expected no extra collection, got %d", calls)
	}
	_ = third
}

func TestGetOrCollect_ErrorPreservesEntry(t *testing.T) {
	c, clock := newTestCache(2 * time.Second)
	calls := 0
	collect := countingCollector(clock, &calls)

	first, _, _ := c.GetOrCollect(collect, false)

	clock.advance(3 * time.Second)

	failing := func() (*metrics.Snapshot, error) {
		return nil, errors.New("collector blew up")
	}
	if _, _, err := c.GetOrCollect(failing, false); err == nil {
		t.Fatal("expected collection error to propagate")
	}

	// The stale entry must still be there, untouched.
	clock.advance(10 * time.Second)
	recovered, fromCache, err := c.GetOrCollect(collect, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Error("stale entry must not be served as fresh")
	}
	if recovered.Timestamp == first.Timestamp {
		t.Error("recovery should have collected a new snapshot")
	}
}

func TestGetOrCollect_ZeroTTLNeverHits(t *testing.T) {
	c, clock := newTestCache(0)
	calls := 0
	collect := countingCollector(clock, &calls)

	c.GetOrCollect(collect, false)
	_, fromCache, _ := c.GetOrCollect(collect, false)
	if fromCache {
		t.Error("zero TTL must disable cache hits")
	}
	if calls != 2 {
		t.Errorf("expected 2 collections, got %d", calls)
	}
}

func TestAgeAndClear(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	if _, ok := c.Age(); ok {
		t.Error("empty cache should report no age")
	}

	calls := 0
	c.GetOrCollect(countingCollector(clock, &calls), false)
	clock.advance(5 * time.Second)

	age, ok := c.Age()
	if !ok {
		t.Fatal("expected an entry after collection")
	}
	if age != 5*time.Second {
		t.Errorf("expected age 5s, got %v", age)
	}

	c.Clear()
	if _, ok := c.Age(); ok {
		t.Error("cleared cache should report no age")
	}
}
