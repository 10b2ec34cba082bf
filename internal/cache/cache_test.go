package cache

import (
	"testing"
	"time"
)

func TestCache_GetSetExpire(t *testing.T) {
	c := New[int](time.Minute)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, ok := c.Get("jose"); ok {
		t.Fatalf("empty cache must miss")
	}

	c.Set("jose", 2)
	if v, ok := c.Get("jose"); !ok || v != 2 {
		t.Fatalf("Get = %v, %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("jose"); ok {
		t.Fatalf("expired entry must miss")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("a", "x")
	c.Set("b", "y")

	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Fatalf("Clear must drop entries")
	}
}

func TestCache_DisabledIsNil(t *testing.T) {
	c := New[int](0)
	if c != nil {
		t.Fatalf("expected nil cache for zero ttl")
	}

	c.Set("a", 1)
	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Fatalf("nil cache must never hit")
	}
}
