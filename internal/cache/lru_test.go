package cache

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(maxSize int, ttl time.Duration) (*LRUCache[string], *clock) {
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](maxSize, ttl)
	c.now = clk.now
	return c, clk
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("expected overwrite, got %q", v)
	}
	if c.Size() != 1 {
		t.Fatalf("expected size 1, got %d", c.Size())
	}
}

func TestLRUCache_CapacityEviction(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	var evicted []string
	c.OnEvict(func(key string, _ string, reason EvictReason) {
		evicted = append(evicted, key+":"+reason.String())
	})
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // b becomes least recently used
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if len(evicted) != 1 || evicted[0] != "b:capacity" {
		t.Fatalf("unexpected evictions %v", evicted)
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	var reasons []EvictReason
	c.OnEvict(func(_ string, _ string, reason EvictReason) { reasons = append(reasons, reason) })

	c.Set("a", "1")
	c.Set("b", "2")

	clk.t = clk.t.Add(50 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to be alive")
	}

	// a was refreshed by the read, b was not.
	clk.t = clk.t.Add(30 * time.Second)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("expected 1 expired item, got %d", n)
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to survive")
	}

	clk.t = clk.t.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a to expire")
	}
	if len(reasons) != 2 || reasons[0] != EvictExpired || reasons[1] != EvictExpired {
		t.Fatalf("unexpected reasons %v", reasons)
	}
}

func TestLRUCache_Delete(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("a", "1")
	if !c.Delete("a") {
		t.Fatalf("expected delete to report presence")
	}
	if c.Delete("a") {
		t.Fatalf("second delete must report absence")
	}
}

func TestManager_CleanNow(t *testing.T) {
	c, clk := newTestCache(10, time.Second)
	c.Set("a", "1")
	m := NewManager(nil)
	m.Register("drafts", c)

	if n := m.CleanNow(); n != 0 {
		t.Fatalf("nothing should expire yet, got %d", n)
	}
	clk.t = clk.t.Add(time.Minute)
	if n := m.CleanNow(); n != 1 {
		t.Fatalf("expected 1 removal, got %d", n)
	}

	m.StartCleanup(time.Hour)
	m.Stop()
}
