package sprig

import "testing"

func TestMemoCacheComputesOnce(t *testing.T) {
	c := newMemoCache[string, int](10, 1, nil)
	calls := 0
	compute := func() int { calls++; return 42 }

	for i := 0; i < 3; i++ {
		if v := c.GetOrCompute("k", compute); v != 42 {
			t.Fatalf("GetOrCompute = %d, want 42", v)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestMemoCacheEvictsStaleEntries(t *testing.T) {
	var evicted []int
	c := newMemoCache[string, int](3, 1, func(v int) { evicted = append(evicted, v) })
	c.GetOrCompute("old", func() int { return 1 })
	c.GetOrCompute("warm", func() int { return 2 })

	for i := 0; i < 4; i++ {
		c.Tick()
		c.Lookup("warm")
	}

	if _, ok := c.Lookup("old"); ok {
		t.Error("stale entry survived the sweep")
	}
	if _, ok := c.Lookup("warm"); !ok {
		t.Error("recently used entry was evicted")
	}
	if len(evicted) != 1 || evicted[0] != 1 {
		t.Errorf("evicted = %v, want [1]", evicted)
	}
}

func TestMemoCacheSweepInterval(t *testing.T) {
	c := newMemoCache[string, int](1, 5, nil)
	c.Put("k", 1)
	for i := 0; i < 4; i++ {
		c.Tick()
	}
	if c.Len() != 1 {
		t.Errorf("entry swept before the interval elapsed")
	}
	c.Tick()
	if c.Len() != 0 {
		t.Errorf("Len = %d after sweep, want 0", c.Len())
	}
}

func TestMemoCachePutAndDeleteEvict(t *testing.T) {
	var evicted []int
	c := newMemoCache[string, int](10, 10, func(v int) { evicted = append(evicted, v) })
	c.Put("k", 1)
	c.Put("k", 2)
	c.Delete("k")
	c.Delete("missing")
	if len(evicted) != 2 || evicted[0] != 1 || evicted[1] != 2 {
		t.Errorf("evicted = %v, want [1 2]", evicted)
	}
}

func TestScaleCacheReusesResult(t *testing.T) {
	c := newScaleCache(DefaultCacheTTL, DefaultCacheSweepInterval)
	src := NewSolidBitmap(4, 4, testRed)

	a := c.Scale(src, 8, 8)
	b := c.Scale(src, 8, 8)
	if a != b {
		t.Error("second Scale returned a different bitmap")
	}
	if c.computed != 1 {
		t.Errorf("computed = %d, want 1", c.computed)
	}
	if c.Scale(src, 4, 4) != src {
		t.Error("identity size should return the source")
	}
	if c.computed != 1 {
		t.Errorf("identity scale counted as computed")
	}
}

func TestScaleCacheInvalidatesOnMutation(t *testing.T) {
	c := newScaleCache(DefaultCacheTTL, DefaultCacheSweepInterval)
	src := NewSolidBitmap(4, 4, testRed)
	before := c.Scale(src, 8, 8)

	src.Fill(testGreen)
	after := c.Scale(src, 8, 8)

	if after == before {
		t.Fatal("mutated source served a stale scale")
	}
	if !pixelIs(after, 7, 7, testGreen) {
		t.Errorf("rescaled pixel = %v, want green", after.At(7, 7))
	}
	if c.computed != 2 {
		t.Errorf("computed = %d, want 2", c.computed)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestScaleCacheBypass(t *testing.T) {
	c := newScaleCache(DefaultCacheTTL, DefaultCacheSweepInterval)
	if b := c.Scale(NewSolidBitmap(4, 4, testRed), 0, 3); b.Width() != 0 {
		t.Errorf("zero-width result = %dx%d", b.Width(), b.Height())
	}
	if b := c.Scale(nil, 3, 3); b.Width() != 3 || b.At(1, 1).A != 0 {
		t.Errorf("nil source should give a blank 3x3 bitmap")
	}
	if c.Len() != 0 {
		t.Errorf("bypasses were cached")
	}
	if c.computed != 2 {
		t.Errorf("computed = %d, want 2", c.computed)
	}
}

func TestScaledSizeRoundsUp(t *testing.T) {
	w, h := scaledSize(NewBitmap(3, 5), V(1.5, 2))
	if w != 5 || h != 10 {
		t.Errorf("scaledSize = %dx%d, want 5x10", w, h)
	}
}
