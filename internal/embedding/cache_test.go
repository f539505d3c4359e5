package embedding

import "testing"

func TestCache_PutGet(t *testing.T) {
	c := NewCache(2)

	if _, ok := c.Get("job"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Put("job", []float32{1, 2, 3})
	v, ok := c.Get("job")
	if !ok || len(v) != 3 || v[0] != 1 {
		t.Errorf("Get = %v, %v", v, ok)
	}

	c.Put("resume-a", []float32{4})
	c.Put("resume-b", []float32{5}) // evicts "job"

	if _, ok := c.Get("job"); ok {
		t.Error("expected oldest entry evicted")
	}
	if _, ok := c.Get("resume-a"); !ok {
		t.Error("expected resume-a to remain")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCache_GetRefreshesRecency(t *testing.T) {
	c := NewCache(2)
	c.Put("a", []float32{1})
	c.Put("b", []float32{2})

	c.Get("a")
	c.Put("c", []float32{3}) // should evict b, not a

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
}

func TestCache_OverwriteExisting(t *testing.T) {
	c := NewCache(2)
	c.Put("a", []float32{1})
	c.Put("a", []float32{9})

	v, _ := c.Get("a")
	if v[0] != 9 {
		t.Errorf("value = %v, want overwritten 9", v[0])
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCache_DefaultCapacity(t *testing.T) {
	c := NewCache(0)
	if c.capacity != defaultCacheSize {
		t.Errorf("capacity = %d, want %d", c.capacity, defaultCacheSize)
	}
}
