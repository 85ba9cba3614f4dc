package sprig

import (
	"image"
	"math"
)

// Blit is one paint operation travelling up the view chain: a surface, the
// Area of it to draw, where to draw it, and the accumulated scale. Views
// rewrite Position, Scale and Area as the blit passes through them; the
// compositor finalizes it into integer pixel rectangles.
type Blit struct {
	Surface  *Bitmap
	Position Vec2
	Area     Rect
	Scale    Vec2
	Layer    LayerKey
	Flags    BlendMode
	Static   bool

	finalized bool
	final     *Bitmap
	finalArea image.Rectangle
	finalPos  image.Point
}

// newBlit creates a blit that draws all of surface at pos.
func newBlit(surface *Bitmap, pos Vec2, layer LayerKey, flags BlendMode) *Blit {
	return &Blit{
		Surface:  surface,
		Position: pos,
		Area:     Rect{0, 0, float64(surface.Width()), float64(surface.Height())},
		Scale:    Vec2{1, 1},
		Layer:    layer,
		Flags:    flags,
	}
}

// Rect returns the destination rectangle of the blit in its current space.
func (b *Blit) Rect() Rect {
	return RectAt(b.Position, b.Area.Size().Mul(b.Scale))
}

// transform maps the blit from a child space into its parent space:
// parent = origin + child*scale.
func (b *Blit) transform(origin, scale Vec2) {
	b.Position = origin.Add(b.Position.Mul(scale))
	b.Scale = b.Scale.Mul(scale)
}

// clip restricts the destination rectangle to r, shrinking Area to match.
func (b *Blit) clip(r Rect) {
	dst := b.Rect()
	in := dst.Clip(r)
	if in.Empty() || b.Scale.X == 0 || b.Scale.Y == 0 {
		b.Area.Width, b.Area.Height = 0, 0
		return
	}
	b.Area.X += (in.X - dst.X) / b.Scale.X
	b.Area.Y += (in.Y - dst.Y) / b.Scale.Y
	b.Area.Width = in.Width / b.Scale.X
	b.Area.Height = in.Height / b.Scale.Y
	b.Position = in.TopLeft()
}

// finalize resolves the accumulated scale into a concrete surface and
// integer rectangles. It is a no-op once done, so a cached static blit is
// only rescaled the first time.
func (b *Blit) finalize(scales *scaleCache) {
	if b.finalized {
		return
	}
	b.finalized = true
	b.finalPos = b.Position.Point()

	if b.Area.Empty() || b.Scale.X <= 0 || b.Scale.Y <= 0 {
		b.final = b.Surface
		b.finalArea = image.Rectangle{}
		return
	}
	if b.Scale.Eq(Vec2{1, 1}) {
		b.final = b.Surface
		b.finalArea = areaPixels(b.Area, b.Surface.Bounds())
		return
	}
	w, h := scaledSize(b.Surface, b.Scale)
	b.final = scales.Scale(b.Surface, w, h)
	scaled := Rect{
		b.Area.X * b.Scale.X, b.Area.Y * b.Scale.Y,
		b.Area.Width * b.Scale.X, b.Area.Height * b.Scale.Y,
	}
	b.finalArea = areaPixels(scaled, b.final.Bounds())
}

// areaPixels rounds a source area to pixels and clamps it to bounds.
func areaPixels(r Rect, bounds image.Rectangle) image.Rectangle {
	x0 := int(math.Floor(r.X + 1e-6))
	y0 := int(math.Floor(r.Y + 1e-6))
	x1 := int(math.Ceil(r.Right() - 1e-6))
	y1 := int(math.Ceil(r.Bottom() - 1e-6))
	return image.Rect(x0, y0, x1, y1).Intersect(bounds)
}

// paintRect returns the display rectangle a finalized blit covers.
func (b *Blit) paintRect() Rect {
	if b.finalArea.Empty() {
		return Rect{X: float64(b.finalPos.X), Y: float64(b.finalPos.Y)}
	}
	return RectFromImage(image.Rectangle{Min: b.finalPos, Max: b.finalPos.Add(b.finalArea.Size())})
}

// paint draws the part of the blit that falls inside region.
func (b *Blit) paint(d Display, region Rect) Rect {
	dst := b.paintRect()
	in := dst.Clip(region)
	if in.Empty() {
		return Rect{}
	}
	ir := in.Pixels()
	off := ir.Min.Sub(b.finalPos)
	area := image.Rectangle{Min: b.finalArea.Min.Add(off), Max: b.finalArea.Min.Add(off).Add(ir.Size())}
	return RectFromImage(d.Blit(b.final, ir.Min, area, b.Flags))
}
