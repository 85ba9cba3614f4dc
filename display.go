package sprig

import (
	"image"
)

// Display is the platform raster layer the compositor paints into.
//
// Blit copies the area sub-rectangle of src onto the display with its
// top-left corner at dst and returns the display rectangle that changed.
// Present tells the platform which rectangles changed this frame.
type Display interface {
	Size() (w, h int)
	Blit(src *Bitmap, dst image.Point, area image.Rectangle, mode BlendMode) image.Rectangle
	Present(rects []Rect)
}

// displayRect returns the full rectangle of d.
func displayRect(d Display) Rect {
	w, h := d.Size()
	return Rect{0, 0, float64(w), float64(h)}
}

// --- BitmapDisplay ---

// BitmapDisplay is a headless Display backed by a Bitmap canvas. It keeps
// the rectangles of the most recent Present so callers can inspect what a
// frame changed.
type BitmapDisplay struct {
	canvas    *Bitmap
	presented []Rect
	frames    int
	blits     int

	// OnPresent, when set, is called with the rectangles of every Present.
	OnPresent func(canvas *Bitmap, rects []Rect)
}

// NewBitmapDisplay creates a w×h headless display.
func NewBitmapDisplay(w, h int) *BitmapDisplay {
	return &BitmapDisplay{canvas: NewBitmap(w, h)}
}

func (d *BitmapDisplay) Size() (int, int) { return d.canvas.Width(), d.canvas.Height() }

func (d *BitmapDisplay) Blit(src *Bitmap, dst image.Point, area image.Rectangle, mode BlendMode) image.Rectangle {
	d.blits++
	return d.canvas.Blit(src, dst, area, mode)
}

func (d *BitmapDisplay) Present(rects []Rect) {
	d.presented = append(d.presented[:0], rects...)
	d.frames++
	if d.OnPresent != nil {
		d.OnPresent(d.canvas, rects)
	}
}

// Canvas returns the bitmap the display paints into.
func (d *BitmapDisplay) Canvas() *Bitmap { return d.canvas }

// Presented returns the rectangles of the most recent Present.
func (d *BitmapDisplay) Presented() []Rect { return d.presented }

// Frames returns the number of Present calls so far.
func (d *BitmapDisplay) Frames() int { return d.frames }

// BlitCount returns the number of Blit calls so far.
func (d *BitmapDisplay) BlitCount() int { return d.blits }

// Snapshot returns a straight-alpha copy of the canvas.
func (d *BitmapDisplay) Snapshot() (*image.NRGBA, error) {
	return unpremultiply(d.canvas.Image().Pix, d.canvas.Width(), d.canvas.Height()), nil
}
