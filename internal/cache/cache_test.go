package cache

import "testing"

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a missing")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b survived eviction")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s evicted", k)
		}
	}
	if c.Len() != 2 || c.Evictions() != 1 {
		t.Errorf("Len = %d, Evictions = %d", c.Len(), c.Evictions())
	}
}

func TestCacheSetExisting(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("a = %d, want 10", v)
	}
	if k, _ := c.Oldest(); k != "b" {
		t.Errorf("Oldest = %q, want b", k)
	}
	if c.Len() != 2 || c.Evictions() != 0 {
		t.Errorf("Len = %d, Evictions = %d", c.Len(), c.Evictions())
	}
}

func TestGetOrCreate(t *testing.T) {
	c := New[int, string](0)
	calls := 0
	create := func() string { calls++; return "v" }
	for i := 0; i < 3; i++ {
		if got := c.GetOrCreate(7, create); got != "v" {
			t.Fatalf("GetOrCreate = %q", got)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestDeleteFunc(t *testing.T) {
	type key struct {
		program uint32
		name    string
	}
	c := New[key, int32](0)
	c.Set(key{1, "a"}, 0)
	c.Set(key{1, "b"}, 1)
	c.Set(key{2, "a"}, 0)

	if n := c.DeleteFunc(func(k key) bool { return k.program == 1 }); n != 2 {
		t.Errorf("DeleteFunc removed %d, want 2", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if !c.Delete(key{2, "a"}) || c.Delete(key{2, "a"}) {
		t.Error("Delete did not report presence correctly")
	}
	if _, ok := c.Oldest(); ok {
		t.Error("empty cache has an oldest key")
	}
}

func TestClear(t *testing.T) {
	c := New[int, int](4)
	for i := 0; i < 4; i++ {
		c.Set(i, i)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear", c.Len())
	}
	c.Set(9, 9)
	if k, _ := c.Oldest(); k != 9 {
		t.Errorf("Oldest = %d after Clear and Set", k)
	}
}
