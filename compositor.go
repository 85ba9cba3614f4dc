package sprig

import (
	"slices"
	"time"

	"cogentcore.org/core/base/ordmap"
)

// FrameStats describes the work done by one Compositor.Draw.
type FrameStats struct {
	Dynamic     int // dynamic blits painted
	Static      int // static blits cached
	StaticDrawn int // static blits repainted
	Culled      int // blits skipped as empty or off-screen
	Erased      int // rects restored from the background
	Presented   int // rects handed to Display.Present
	Duration    time.Duration
}

// compositorSnapshot is the saved state of a scene that is not on screen.
type compositorSnapshot struct {
	statics    *ordmap.Map[*Sprite, *Blit]
	source     *Bitmap
	background *Bitmap
	bgVersion  uint64
}

// Compositor is the root surface. It collects the frame's blits, keeps the
// static blit cache, and repaints only the dirty rectangles of the display.
//
// The dirty state rolls over two generations: a dynamic blit painted this
// frame is recorded in clearNextFrame, which becomes clearThisFrame on the
// next Draw and is erased before anything new is painted.
type Compositor struct {
	display Display
	scales  *scaleCache
	active  *Scene

	source     *Bitmap // background as supplied by the scene
	background *Bitmap // source scaled to the display
	bgVersion  uint64

	blits          []*Blit
	statics        *ordmap.Map[*Sprite, *Blit]
	clearThisFrame []Rect
	clearNextFrame []Rect
	softClear      []Rect
	sortBuf        []*Blit

	snapshots map[*Scene]*compositorSnapshot
	stats     FrameStats
	debug     bool
}

// NewCompositor creates a compositor painting into display.
func NewCompositor(display Display, cfg Config) *Compositor {
	c := &Compositor{
		display:   display,
		scales:    newScaleCache(cfg.CacheTTL, cfg.CacheSweepInterval),
		statics:   ordmap.New[*Sprite, *Blit](),
		snapshots: make(map[*Scene]*compositorSnapshot),
		debug:     cfg.Debug,
	}
	c.setBackground(nil)
	return c
}

// Display returns the display being painted.
func (c *Compositor) Display() Display { return c.display }

// Stats returns the statistics of the last Draw.
func (c *Compositor) Stats() FrameStats { return c.stats }

// StaticCount returns the number of cached static blits.
func (c *Compositor) StaticCount() int { return c.statics.Len() }

// DirtyRects returns copies of the pending dirty queues.
func (c *Compositor) DirtyRects() (thisFrame, nextFrame, soft []Rect) {
	return slices.Clone(c.clearThisFrame), slices.Clone(c.clearNextFrame), slices.Clone(c.softClear)
}

// --- Blit intake ---

// addBlit queues a dynamic blit for this frame.
func (c *Compositor) addBlit(b *Blit) {
	c.blits = append(c.blits, b)
}

// addStatic caches b under key. The blit is finalized immediately so the
// scale work happens once for the lifetime of the entry. The new footprint
// is always scheduled, so an entry is painted at least once.
func (c *Compositor) addStatic(key *Sprite, b *Blit) {
	b.Static = true
	b.finalize(c.scales)
	if old, ok := c.statics.ValueByKeyTry(key); ok {
		c.invalidate(old.paintRect())
	}
	c.invalidate(b.paintRect())
	c.statics.Add(key, b)
}

// removeStatic evicts key's cached blit and schedules its footprint for
// erasure this frame.
func (c *Compositor) removeStatic(key *Sprite) {
	b, ok := c.statics.ValueByKeyTry(key)
	if !ok {
		return
	}
	c.statics.DeleteKey(key)
	c.invalidate(b.paintRect())
}

// removeSavedStatic evicts key from a scene snapshot. Nothing is on screen
// for an inactive scene, so no rect is invalidated.
func (c *Compositor) removeSavedStatic(scene *Scene, key *Sprite) {
	if snap, ok := c.snapshots[scene]; ok {
		snap.statics.DeleteKey(key)
	}
}

// invalidate schedules r to be erased and repainted this frame.
func (c *Compositor) invalidate(r Rect) {
	r = r.Clip(displayRect(c.display))
	if r.Empty() {
		return
	}
	c.clearThisFrame = append(c.clearThisFrame, r.Snap())
}

// invalidateAll schedules the whole display for repaint.
func (c *Compositor) invalidateAll() {
	c.invalidate(displayRect(c.display))
}

// --- Background ---

// setBackground installs img as the background, scaled to the display. A
// nil image installs a blank placeholder.
func (c *Compositor) setBackground(img *Bitmap) {
	w, h := c.display.Size()
	c.source = img
	switch {
	case img == nil:
		c.background = NewBitmap(w, h)
	case img.Width() == w && img.Height() == h:
		c.background = img
	default:
		c.background = img.Scale(w, h)
	}
	if img != nil {
		c.bgVersion = img.Version()
	}
	c.invalidateAll()
}

// checkBackground reinstalls the background if its pixels changed.
func (c *Compositor) checkBackground() {
	if c.source != nil && c.source.Version() != c.bgVersion {
		c.setBackground(c.source)
	}
}

// --- Draw cycle ---

// discardFrame drops the blits collected for an aborted frame. The dirty
// queues are left untouched so the next frame repairs everything.
func (c *Compositor) discardFrame() {
	clear(c.blits)
	c.blits = c.blits[:0]
}

// Draw runs one compositing cycle: collect and cull, erase, paint, present and
// rotate the dirty queues.
func (c *Compositor) Draw() {
	var t0 time.Time
	if c.debug {
		t0 = time.Now()
	}
	stats := FrameStats{Static: c.statics.Len()}
	c.checkBackground()
	screen := displayRect(c.display)

	// Collect, finalize and cull.
	all := append(c.sortBuf[:0], c.blits...)
	for _, kv := range c.statics.Order {
		all = append(all, kv.Value)
	}
	slices.SortStableFunc(all, func(a, b *Blit) int { return a.Layer.Compare(b.Layer) })
	n := 0
	for _, b := range all {
		b.finalize(c.scales)
		r := b.paintRect()
		if r.Empty() || !r.Collides(screen) {
			stats.Culled++
			continue
		}
		all[n] = b
		n++
	}
	clear(all[n:])
	all = all[:n]

	// Erase. The damage region is kept disjoint so that no pixel is
	// blended twice when statics are repainted into it. Dynamic footprints
	// are part of it, so whatever lies under a dynamic blit is rebuilt in
	// layer order.
	var damage region
	var fromSoft []bool
	erase := func(r Rect, soft bool) {
		for _, p := range damage.add(r) {
			fromSoft = append(fromSoft, soft)
			c.erase(p)
		}
	}
	for _, r := range c.clearThisFrame {
		erase(r, false)
	}
	for _, r := range c.softClear {
		erase(r, true)
	}
	for _, b := range all {
		if !b.Static {
			erase(b.paintRect().Clip(screen), false)
		}
	}
	stats.Erased = len(damage)

	// Paint.
	clearNext := c.clearNextFrame
	var carried []Rect
	for _, b := range all {
		if b.Static {
			painted := false
			for i, d := range damage {
				p := b.paint(c.display, d)
				if p.Empty() {
					continue
				}
				painted = true
				if !fromSoft[i] {
					carried = append(carried, p)
				}
			}
			if painted {
				stats.StaticDrawn++
			}
			continue
		}
		p := b.paint(c.display, screen)
		if p.Empty() {
			continue
		}
		stats.Dynamic++
		clearNext = append(clearNext, p)
	}

	// Present. Every painted pixel lies inside the damage.
	present := slices.Clone([]Rect(damage))
	c.display.Present(present)
	stats.Presented = len(present)

	// Rotate.
	c.clearThisFrame = clearNext
	c.clearNextFrame = nil
	c.softClear = carried
	clear(c.blits)
	c.blits = c.blits[:0]
	clear(all)
	c.sortBuf = all[:0]
	c.scales.Tick()

	if c.debug {
		stats.Duration = time.Since(t0)
		c.debugLog(stats)
	}
	c.stats = stats
}

// erase restores r from the background.
func (c *Compositor) erase(r Rect) {
	ir := r.Pixels()
	c.display.Blit(c.background, ir.Min, ir, BlendNone)
}

// --- Scene swap ---

// saveScene snapshots the live cache and background under scene and
// resets the live state to a blank placeholder.
func (c *Compositor) saveScene(scene *Scene) {
	c.snapshots[scene] = &compositorSnapshot{
		statics:    c.statics,
		source:     c.source,
		background: c.background,
		bgVersion:  c.bgVersion,
	}
	c.resetLive()
}

// dropScene forgets the live state of scene without keeping a snapshot.
func (c *Compositor) dropScene(scene *Scene) {
	delete(c.snapshots, scene)
	c.resetLive()
}

func (c *Compositor) resetLive() {
	c.statics = ordmap.New[*Sprite, *Blit]()
	c.discardFrame()
	c.setBackground(nil)
	c.scales.Clear()
	c.active = nil
}

// enterScene makes scene live. A saved snapshot is restored, picking up a
// background set while the scene was covered; otherwise the cache starts
// empty with the scene's own background. The whole display is repainted
// either way. Reports whether a snapshot was restored.
func (c *Compositor) enterScene(scene *Scene) bool {
	c.active = scene
	snap, ok := c.snapshots[scene]
	if !ok {
		c.statics = ordmap.New[*Sprite, *Blit]()
		c.setBackground(scene.background)
		return false
	}
	delete(c.snapshots, scene)
	c.statics = snap.statics
	c.source = snap.source
	c.background = snap.background
	c.bgVersion = snap.bgVersion
	if scene.background != snap.source {
		c.setBackground(scene.background)
	}
	c.invalidateAll()
	return true
}
