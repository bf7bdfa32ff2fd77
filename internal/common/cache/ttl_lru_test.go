package cache

import (
	"testing"
	"time"
)

func TestTTLLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewTTLLRU[int, string](2, time.Minute)
	c.Set(1, "a")
	c.Set(2, "b")
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected hit for 1")
	}
	c.Set(3, "c")

	if _, ok := c.Get(2); ok {
		t.Fatal("expected 2 evicted")
	}
	if v, ok := c.Get(1); !ok || v != "a" {
		t.Fatalf("expected 1=a, got %q %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("expected len 2, got %d", c.Len())
	}
}

func TestTTLLRU_Expiry(t *testing.T) {
	c := NewTTLLRU[string, int](10, time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Set("k", 1)
	now = now.Add(500 * time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit before ttl")
	}
	now = now.Add(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after ttl")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be removed, len=%d", c.Len())
	}
}

func TestTTLLRU_DeletePurgeAndNil(t *testing.T) {
	c := NewTTLLRU[string, int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a deleted")
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatal("expected empty after purge")
	}

	var disabled *TTLLRU[string, int] = NewTTLLRU[string, int](0, time.Minute)
	disabled.Set("x", 1)
	if _, ok := disabled.Get("x"); ok {
		t.Fatal("disabled cache must always miss")
	}
}
