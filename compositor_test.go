package sprig

import (
	"bytes"
	"errors"
	"testing"
)

var (
	testBG    = Color{0.1, 0.1, 0.15, 1}
	testRed   = Color{1, 0, 0, 1}
	testGreen = Color{0, 1, 0, 1}
	testBlue  = Color{0, 0, 1, 1}
	testGhost = Color{1, 1, 1, 0.5}
)

// newTestStage pushes a fresh scene of the display's size onto a director
// backed by a headless display.
func newTestStage(t *testing.T, w, h int) (*Director, *BitmapDisplay, *Scene) {
	t.Helper()
	display := NewBitmapDisplay(w, h)
	d := NewDirector(display, DefaultConfig())
	s := NewScene("main", V(float64(w), float64(h)))
	s.SetBackground(NewSolidBitmap(w, h, testBG))
	d.Push(s)
	return d, display, s
}

func renderN(t *testing.T, d *Director, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := d.Render(); err != nil {
			t.Fatalf("Render frame %d: %v", i, err)
		}
	}
}

// assertFullRepaintMatches checks that the incrementally composited canvas
// is identical to what a from-scratch repaint produces.
func assertFullRepaintMatches(t *testing.T, d *Director, display *BitmapDisplay) {
	t.Helper()
	got := bytes.Clone(display.Canvas().Image().Pix)
	d.Compositor().invalidateAll()
	renderN(t, d, 1)
	want := display.Canvas().Image().Pix
	if !bytes.Equal(got, want) {
		t.Fatalf("incremental frame differs from full repaint")
	}
}

func pixelIs(b *Bitmap, x, y int, c Color) bool {
	return b.At(x, y) == c.RGBA()
}

func TestCompositorFirstFramePaintsBackground(t *testing.T) {
	d, display, _ := newTestStage(t, 32, 32)
	renderN(t, d, 1)

	if !pixelIs(display.Canvas(), 5, 5, testBG) {
		t.Errorf("pixel = %v, want background", display.Canvas().At(5, 5))
	}
	if got := d.Compositor().Stats().Erased; got != 1 {
		t.Errorf("Erased = %d, want 1", got)
	}
}

func TestCompositorDynamicSpriteLeavesNoTrail(t *testing.T) {
	d, display, s := newTestStage(t, 64, 64)
	sp := NewSprite(s.Root(), "box", NewSolidBitmap(10, 10, testRed))
	sp.SetPos(V(5, 5))
	renderN(t, d, 1)

	if !pixelIs(display.Canvas(), 6, 6, testRed) {
		t.Fatalf("sprite not painted")
	}

	sp.SetPos(V(30, 30))
	renderN(t, d, 1)

	if !pixelIs(display.Canvas(), 6, 6, testBG) {
		t.Errorf("old footprint = %v, want background", display.Canvas().At(6, 6))
	}
	if !pixelIs(display.Canvas(), 35, 35, testRed) {
		t.Errorf("new footprint = %v, want red", display.Canvas().At(35, 35))
	}
}

func TestCompositorIncrementalMatchesFullRepaint(t *testing.T) {
	d, display, s := newTestStage(t, 96, 64)
	if err := s.Root().SetLayers("floor", "actors"); err != nil {
		t.Fatal(err)
	}
	tile := NewSolidBitmap(14, 14, testBlue)
	glass := NewSolidBitmap(20, 20, testGhost)
	for y := 0; y < 64; y += 16 {
		for x := 0; x < 96; x += 16 {
			sp := NewSprite(s.Root(), "tile", tile)
			sp.SetPos(V(float64(x+1), float64(y+1)))
			sp.SetLayer("floor")
		}
	}
	ghost := NewSprite(s.Root(), "ghost", glass)
	ghost.SetLayer("actors")
	mover := NewSprite(s.Root(), "mover", NewSolidBitmap(9, 7, testRed))
	mover.SetLayer("actors")

	steps := []Vec2{{3, 3}, {7.5, 4.25}, {20, 19}, {21, 19}, {60, 40}, {-4, 30}, {90, 60}, {40.4, 10.6}}
	for i, p := range steps {
		mover.SetPos(p)
		ghost.SetPos(V(float64(i*9), float64(i*5)))
		renderN(t, d, 1)
		assertFullRepaintMatches(t, d, display)
	}

	// Let the movers settle into the static cache, then disturb a tile.
	renderN(t, d, 10)
	if !mover.IsStatic() || !ghost.IsStatic() {
		t.Fatalf("movers should be static after settling")
	}
	s.Sprites()[7].SetVisible(false)
	renderN(t, d, 1)
	assertFullRepaintMatches(t, d, display)
}

func TestCompositorStaticSceneGoesQuiet(t *testing.T) {
	d, display, s := newTestStage(t, 64, 64)
	for i := 0; i < 4; i++ {
		sp := NewSprite(s.Root(), "tile", NewSolidBitmap(8, 8, testGreen))
		sp.SetPos(V(float64(i*10), 0))
	}
	renderN(t, d, 20)

	if got := d.Compositor().StaticCount(); got != 4 {
		t.Fatalf("StaticCount = %d, want 4", got)
	}
	blits := display.BlitCount()
	renderN(t, d, 3)
	if display.BlitCount() != blits {
		t.Errorf("idle frames blitted %d times, want 0", display.BlitCount()-blits)
	}
	if n := len(display.Presented()); n != 0 {
		t.Errorf("idle frame presented %d rects, want 0", n)
	}
	this, next, soft := d.Compositor().DirtyRects()
	if len(this)+len(next)+len(soft) != 0 {
		t.Errorf("dirty queues not drained: %v %v %v", this, next, soft)
	}
}

func TestCompositorSemiTransparentStaticNotDoubleBlended(t *testing.T) {
	d, display, s := newTestStage(t, 40, 40)
	pane := NewSprite(s.Root(), "pane", NewSolidBitmap(30, 30, testGhost))
	pane.SetPos(V(5, 5))
	renderN(t, d, 10)
	want := display.Canvas().At(20, 20)

	// Two overlapping invalidations over the static pane.
	c := d.Compositor()
	c.invalidate(R(10, 10, 15, 15))
	c.invalidate(R(15, 15, 15, 15))
	renderN(t, d, 3)

	if got := display.Canvas().At(20, 20); got != want {
		t.Errorf("overlapping repaint = %v, want %v", got, want)
	}
}

func TestCompositorScaledStaticRescaledOnce(t *testing.T) {
	d, _, s := newTestStage(t, 64, 64)
	zoom := NewView(s.Root(), "zoom")
	zoom.SetSize(V(32, 32))
	zoom.SetOutputSize(V(64, 64))
	NewSprite(zoom, "dot", NewSolidBitmap(4, 4, testRed))

	renderN(t, d, 30)

	if got := d.Compositor().scales.computed; got != 1 {
		t.Errorf("scale computed %d times, want 1", got)
	}
}

func TestCompositorImageMutationRepaints(t *testing.T) {
	d, display, s := newTestStage(t, 32, 32)
	img := NewSolidBitmap(8, 8, testRed)
	sp := NewSprite(s.Root(), "swatch", img)
	sp.SetPos(V(4, 4))
	renderN(t, d, 10)
	if !sp.IsStatic() {
		t.Fatal("sprite should be static")
	}

	img.Fill(testGreen)
	renderN(t, d, 1)

	if sp.IsStatic() {
		t.Error("sprite still static after its image changed")
	}
	if !pixelIs(display.Canvas(), 6, 6, testGreen) {
		t.Errorf("pixel = %v, want green", display.Canvas().At(6, 6))
	}
}

func TestCompositorAbortedFrameLeavesStateUntouched(t *testing.T) {
	d, display, s := newTestStage(t, 32, 32)
	sp := NewSprite(s.Root(), "ok", NewSolidBitmap(4, 4, testRed))
	renderN(t, d, 2)
	sp.SetPos(V(10, 10))

	NewSprite(s.Root(), "broken", nil)
	this, next, soft := d.Compositor().DirtyRects()
	frames := display.Frames()
	pix := bytes.Clone(display.Canvas().Image().Pix)

	err := d.Render()
	if err == nil {
		t.Fatal("Render succeeded with an image-less sprite")
	}
	var nie *NoImageError
	if !errors.As(err, &nie) || nie.Sprite != "broken" {
		t.Errorf("err = %v, want NoImageError for broken", err)
	}
	if !errors.Is(err, ErrNoImage) {
		t.Error("error does not match ErrNoImage")
	}
	if display.Frames() != frames {
		t.Error("aborted frame was presented")
	}
	if !bytes.Equal(pix, display.Canvas().Image().Pix) {
		t.Error("aborted frame touched the display")
	}
	this2, next2, soft2 := d.Compositor().DirtyRects()
	if len(this) != len(this2) || len(next) != len(next2) || len(soft) != len(soft2) {
		t.Error("aborted frame changed the dirty queues")
	}
	if len(d.Compositor().blits) != 0 {
		t.Error("aborted frame left queued blits")
	}
	if sp.Age() != 0 || sp.IsStatic() || d.Compositor().StaticCount() != 0 {
		t.Errorf("aborted frame changed sprite state: age=%d static=%v statics=%d",
			sp.Age(), sp.IsStatic(), d.Compositor().StaticCount())
	}
}

func TestCompositorAbortedFramesDoNotAgeSprites(t *testing.T) {
	d, display, s := newTestStage(t, 32, 32)
	sp := NewSprite(s.Root(), "late", NewSolidBitmap(4, 4, testRed))
	sp.SetPos(V(10, 10))
	broken := NewSprite(s.Root(), "broken", nil)

	for i := 0; i < DefaultStaticAge+2; i++ {
		if err := d.Render(); err == nil {
			t.Fatal("Render succeeded with an image-less sprite")
		}
	}
	if sp.IsStatic() || sp.Age() != 0 {
		t.Errorf("static=%v age=%d after aborted frames, want dynamic with age 0", sp.IsStatic(), sp.Age())
	}
	if n := d.Compositor().StaticCount(); n != 0 {
		t.Errorf("StaticCount = %d after aborted frames, want 0", n)
	}

	broken.Kill()
	renderN(t, d, 1)
	if !pixelIs(display.Canvas(), 11, 11, testRed) {
		t.Errorf("pixel = %v after recovery, want red", display.Canvas().At(11, 11))
	}
	renderN(t, d, DefaultStaticAge+2)
	if !sp.IsStatic() {
		t.Error("sprite not promoted after good frames")
	}
	if !pixelIs(display.Canvas(), 11, 11, testRed) {
		t.Errorf("pixel = %v once static, want red", display.Canvas().At(11, 11))
	}
}

func TestCompositorNewStaticIsPainted(t *testing.T) {
	d, display, s := newTestStage(t, 32, 32)
	renderN(t, d, 3)

	sp := NewSprite(s.Root(), "cached", NewSolidBitmap(4, 4, testRed))
	d.Compositor().addStatic(sp, newBlit(sp.Image(), V(20, 20), LayerKey{0}, BlendNormal))
	renderN(t, d, 1)

	if !pixelIs(display.Canvas(), 21, 21, testRed) {
		t.Errorf("pixel = %v, want red", display.Canvas().At(21, 21))
	}
}

func TestCompositorTranslucentMoverUnderTranslucentStatic(t *testing.T) {
	d, display, s := newTestStage(t, 64, 64)
	if err := s.Root().SetLayers("low", "high"); err != nil {
		t.Fatal(err)
	}
	pane := NewSprite(s.Root(), "pane", NewSolidBitmap(40, 40, testGhost))
	pane.SetLayer("high")
	mover := NewSprite(s.Root(), "mover", NewSolidBitmap(8, 8, Color{0, 0, 1, 0.5}))
	mover.SetLayer("low")
	mover.SetPos(V(50, 50))
	renderN(t, d, 10)
	if !pane.IsStatic() {
		t.Fatal("pane should be static")
	}

	mover.SetPos(V(10, 10))
	renderN(t, d, 1)
	assertFullRepaintMatches(t, d, display)

	mover.SetPos(V(14, 12))
	renderN(t, d, 1)
	assertFullRepaintMatches(t, d, display)

	renderN(t, d, 10)
	if !mover.IsStatic() {
		t.Fatal("mover should have settled")
	}
	assertFullRepaintMatches(t, d, display)
}

func TestCompositorLayerOrdering(t *testing.T) {
	d, display, s := newTestStage(t, 40, 40)
	if err := s.Root().SetLayers("back", "front"); err != nil {
		t.Fatal(err)
	}
	front := NewSprite(s.Root(), "front", NewSolidBitmap(20, 20, testRed))
	front.SetPos(V(10, 10))
	front.SetLayer("front")
	mid := NewSprite(s.Root(), "mid", NewSolidBitmap(20, 20, testGreen))
	mid.SetPos(V(5, 5))
	mid.SetLayer("back:above")
	back := NewSprite(s.Root(), "back", NewSolidBitmap(20, 20, testBlue))
	back.SetLayer("back")

	renderN(t, d, 1)

	c := display.Canvas()
	if !pixelIs(c, 2, 2, testBlue) {
		t.Errorf("back-only pixel = %v, want blue", c.At(2, 2))
	}
	if !pixelIs(c, 7, 7, testGreen) {
		t.Errorf("back:above over back = %v, want green", c.At(7, 7))
	}
	if !pixelIs(c, 12, 12, testRed) {
		t.Errorf("front over all = %v, want red", c.At(12, 12))
	}

	// Order holds once everything is served from the static cache.
	renderN(t, d, 10)
	assertFullRepaintMatches(t, d, display)
	if !pixelIs(c, 12, 12, testRed) {
		t.Errorf("static front = %v, want red", c.At(12, 12))
	}
}

func TestCompositorKillErasesStatic(t *testing.T) {
	d, display, s := newTestStage(t, 32, 32)
	sp := NewSprite(s.Root(), "doomed", NewSolidBitmap(8, 8, testRed))
	sp.SetPos(V(8, 8))
	renderN(t, d, 10)
	if d.Compositor().StaticCount() != 1 {
		t.Fatalf("StaticCount = %d, want 1", d.Compositor().StaticCount())
	}

	sp.Kill()
	renderN(t, d, 1)

	if d.Compositor().StaticCount() != 0 {
		t.Errorf("StaticCount = %d, want 0", d.Compositor().StaticCount())
	}
	if !pixelIs(display.Canvas(), 10, 10, testBG) {
		t.Errorf("pixel = %v, want background", display.Canvas().At(10, 10))
	}
}

func TestCompositorBackgroundChangeRepaintsAll(t *testing.T) {
	d, display, s := newTestStage(t, 16, 16)
	renderN(t, d, 3)

	s.SetBackground(NewSolidBitmap(8, 8, testGreen))
	renderN(t, d, 1)

	if !pixelIs(display.Canvas(), 15, 15, testGreen) {
		t.Errorf("pixel = %v, want scaled green background", display.Canvas().At(15, 15))
	}
}

func TestCompositorCullsOffscreen(t *testing.T) {
	d, _, s := newTestStage(t, 16, 16)
	sp := NewSprite(s.Root(), "away", NewSolidBitmap(4, 4, testRed))
	sp.SetPos(V(100, 100))
	renderN(t, d, 1)

	st := d.Compositor().Stats()
	if st.Culled != 1 || st.Dynamic != 0 {
		t.Errorf("stats = %+v, want 1 culled and 0 dynamic", st)
	}
}
