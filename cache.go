package sprig

import "math"

// Default cache tuning. Entries untouched for DefaultCacheTTL frames are
// dropped; sweeps run at most every DefaultCacheSweepInterval frames.
const (
	DefaultCacheTTL           = 250
	DefaultCacheSweepInterval = 100
)

// --- memoCache ---

type memoEntry[V any] struct {
	value    V
	lastUsed uint64
}

// memoCache memoizes values by key and forgets entries that have not been
// used for ttl frames. The frame clock advances with Tick.
type memoCache[K comparable, V any] struct {
	entries   map[K]*memoEntry[V]
	frame     uint64
	lastSweep uint64
	ttl       uint64
	interval  uint64
	onEvict   func(V)
}

func newMemoCache[K comparable, V any](ttl, interval int, onEvict func(V)) *memoCache[K, V] {
	return &memoCache[K, V]{
		entries:  make(map[K]*memoEntry[V]),
		ttl:      uint64(max(ttl, 1)),
		interval: uint64(max(interval, 1)),
		onEvict:  onEvict,
	}
}

// GetOrCompute returns the cached value for key, calling compute and storing
// the result on a miss.
func (c *memoCache[K, V]) GetOrCompute(key K, compute func() V) V {
	if e, ok := c.entries[key]; ok {
		e.lastUsed = c.frame
		return e.value
	}
	v := compute()
	c.entries[key] = &memoEntry[V]{value: v, lastUsed: c.frame}
	return v
}

// Lookup returns the cached value without computing anything.
func (c *memoCache[K, V]) Lookup(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	e.lastUsed = c.frame
	return e.value, true
}

// Put stores v under key, evicting any previous value.
func (c *memoCache[K, V]) Put(key K, v V) {
	if old, ok := c.entries[key]; ok && c.onEvict != nil {
		c.onEvict(old.value)
	}
	c.entries[key] = &memoEntry[V]{value: v, lastUsed: c.frame}
}

// Delete removes key from the cache.
func (c *memoCache[K, V]) Delete(key K) {
	if e, ok := c.entries[key]; ok {
		delete(c.entries, key)
		if c.onEvict != nil {
			c.onEvict(e.value)
		}
	}
}

// Tick advances the frame clock and sweeps stale entries when due.
func (c *memoCache[K, V]) Tick() {
	c.frame++
	if c.frame-c.lastSweep >= c.interval {
		c.sweep()
	}
}

func (c *memoCache[K, V]) sweep() {
	c.lastSweep = c.frame
	for k, e := range c.entries {
		if c.frame-e.lastUsed > c.ttl {
			delete(c.entries, k)
			if c.onEvict != nil {
				c.onEvict(e.value)
			}
		}
	}
}

// Clear drops every entry.
func (c *memoCache[K, V]) Clear() {
	if c.onEvict != nil {
		for _, e := range c.entries {
			c.onEvict(e.value)
		}
	}
	clear(c.entries)
}

// Len returns the number of cached entries.
func (c *memoCache[K, V]) Len() int { return len(c.entries) }

// --- scaleCache ---

type scaleKey struct {
	src  *Bitmap
	w, h int
}

type scaledBitmap struct {
	bitmap  *Bitmap
	version uint64
}

// scaleCache memoizes Bitmap.Scale results. A cached result is only reused
// while the source bitmap's version matches the version it was built from.
type scaleCache struct {
	memo *memoCache[scaleKey, scaledBitmap]

	// computed counts actual rescale operations (cache misses and bypasses).
	computed int
}

func newScaleCache(ttl, interval int) *scaleCache {
	return &scaleCache{memo: newMemoCache[scaleKey, scaledBitmap](ttl, interval, nil)}
}

// scaledSize returns the ceil-rounded size of src scaled by factor.
func scaledSize(src *Bitmap, factor Vec2) (int, int) {
	return int(math.Ceil(float64(src.Width())*factor.X - 1e-9)),
		int(math.Ceil(float64(src.Height())*factor.Y - 1e-9))
}

// Scale returns src resized to w×h, reusing a previous result when possible.
func (c *scaleCache) Scale(src *Bitmap, w, h int) *Bitmap {
	if src == nil || w <= 0 || h <= 0 {
		logger.Debug("scale cache bypass", "width", w, "height", h, "nil", src == nil)
		c.computed++
		if src == nil {
			return NewBitmap(max(w, 0), max(h, 0))
		}
		return src.Scale(w, h)
	}
	if w == src.Width() && h == src.Height() {
		return src
	}
	key := scaleKey{src, w, h}
	v := src.Version()
	entry := c.memo.GetOrCompute(key, func() scaledBitmap {
		c.computed++
		return scaledBitmap{bitmap: src.Scale(w, h), version: v}
	})
	if entry.version != v {
		c.computed++
		entry = scaledBitmap{bitmap: src.Scale(w, h), version: v}
		c.memo.Put(key, entry)
	}
	return entry.bitmap
}

// Tick advances the cache's frame clock.
func (c *scaleCache) Tick() { c.memo.Tick() }

// Clear drops every cached result.
func (c *scaleCache) Clear() { c.memo.Clear() }

// Len returns the number of cached results.
func (c *scaleCache) Len() int { return c.memo.Len() }
