package sprig

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// textureKey identifies one upload of a bitmap's pixels.
type textureKey struct {
	bitmap  *Bitmap
	version uint64
}

// EbitenDisplay is a Display backed by ebiten. Blits land on an offscreen
// canvas; Present copies only the presented rectangles onto the window,
// which is never cleared between frames.
type EbitenDisplay struct {
	w, h     int
	canvas   *ebiten.Image
	target   *ebiten.Image
	textures *memoCache[textureKey, *ebiten.Image]
	pending  []Rect
}

// NewEbitenDisplay creates a w×h display.
func NewEbitenDisplay(w, h int) *EbitenDisplay {
	return &EbitenDisplay{
		w:      w,
		h:      h,
		canvas: ebiten.NewImage(w, h),
		textures: newMemoCache[textureKey](DefaultCacheTTL, DefaultCacheSweepInterval, func(img *ebiten.Image) {
			img.Deallocate()
		}),
	}
}

func (d *EbitenDisplay) Size() (int, int) { return d.w, d.h }

// texture returns the GPU copy of src, uploading it when its pixels changed.
func (d *EbitenDisplay) texture(src *Bitmap) *ebiten.Image {
	key := textureKey{src, src.Version()}
	return d.textures.GetOrCompute(key, func() *ebiten.Image {
		return ebiten.NewImageFromImage(src.Image())
	})
}

func (d *EbitenDisplay) Blit(src *Bitmap, dst image.Point, area image.Rectangle, mode BlendMode) image.Rectangle {
	area = area.Intersect(src.Bounds())
	if area.Empty() {
		return image.Rectangle{}
	}
	op := &ebiten.DrawImageOptions{Blend: mode.EbitenBlend()}
	op.GeoM.Translate(float64(dst.X), float64(dst.Y))
	d.canvas.DrawImage(d.texture(src).SubImage(area).(*ebiten.Image), op)
	out := image.Rectangle{Min: dst, Max: dst.Add(area.Size())}
	return out.Intersect(image.Rect(0, 0, d.w, d.h))
}

// Present copies the changed rectangles to the window. Rects presented
// before the window exists are held until the first Draw.
func (d *EbitenDisplay) Present(rects []Rect) {
	d.pending = append(d.pending, rects...)
	d.flush()
	d.textures.Tick()
}

func (d *EbitenDisplay) flush() {
	if d.target == nil {
		return
	}
	for _, r := range d.pending {
		ir := r.Pixels()
		op := &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy}
		op.GeoM.Translate(float64(ir.Min.X), float64(ir.Min.Y))
		d.target.DrawImage(d.canvas.SubImage(ir).(*ebiten.Image), op)
	}
	clear(d.pending)
	d.pending = d.pending[:0]
}

// Snapshot reads back the canvas. Only valid while the game loop runs.
func (d *EbitenDisplay) Snapshot() (*image.NRGBA, error) {
	pixels := make([]byte, 4*d.w*d.h)
	d.canvas.ReadPixels(pixels)
	return unpremultiply(pixels, d.w, d.h), nil
}

// --- Game loop ---

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title string
	// WindowScale multiplies the display size to get the window size.
	WindowScale int
	// TPS is the update rate. Zero keeps ebiten's default.
	TPS int
	// Input routes mouse and touch to the top scene.
	Input bool
}

// ErrQuit can be returned from a scene update callback to end Run cleanly.
var ErrQuit = errors.New("sprig: quit")

// game adapts a Director to ebiten.Game.
type game struct {
	director *Director
	display  *EbitenDisplay
	input    bool
	err      error

	touchIDs  []ebiten.TouchID
	touchMap  [maxPointers]ebiten.TouchID
	touchUsed [maxPointers]bool
}

// Update advances the director by one tick. A render error from the
// previous Draw is returned here because Draw cannot fail.
func (g *game) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.input {
		g.pollInput()
	}
	return g.director.Update(1 / float64(ebiten.TPS()))
}

func (g *game) Draw(screen *ebiten.Image) {
	g.display.target = screen
	if err := g.director.Render(); err != nil {
		g.err = err
	}
	g.display.flush()
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.display.Size()
}

// pollInput feeds the mouse (pointer 0) and touches (pointers 1-9) to the
// director.
func (g *game) pollInput() {
	mx, my := ebiten.CursorPosition()
	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}
	g.director.HandlePointer(0, Vec2{float64(mx), float64(my)}, pressed, button)

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	var active [maxPointers]bool
	for _, tid := range g.touchIDs {
		slot := g.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		g.director.HandlePointer(slot, Vec2{float64(tx), float64(ty)}, true, MouseButtonLeft)
	}
	for i := 1; i < maxPointers; i++ {
		if g.touchUsed[i] && !active[i] {
			if s := g.director.Scene(); s != nil {
				ps := &s.pointers[i]
				s.processPointer(i, ps.last, false, MouseButtonLeft)
			}
			g.touchUsed[i] = false
			g.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9). Returns -1 if
// every slot is taken.
func (g *game) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if g.touchUsed[i] && g.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !g.touchUsed[i] {
			g.touchUsed[i] = true
			g.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// Run opens a window and drives d until the window closes or an update
// fails. d must paint into an EbitenDisplay. ErrQuit ends Run without an
// error.
func Run(d *Director, cfg RunConfig) error {
	display, ok := d.Display().(*EbitenDisplay)
	if !ok {
		return fmt.Errorf("run: display is %T, want *EbitenDisplay", d.Display())
	}
	w, h := display.Size()
	scale := max(cfg.WindowScale, 1)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(w*scale, h*scale)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	ebiten.SetScreenClearedEveryFrame(false)

	err := ebiten.RunGame(&game{director: d, display: display, input: cfg.Input})
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}
