package sprig

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/transform"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is written into a Bitmap.
type Color struct {
	R, G, B, A float64
}

var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// BlendMode selects a compositing operation for a blit.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendNone                      // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// --- Bitmap ---

// Bitmap is a CPU-side premultiplied RGBA pixel buffer. Every mutating
// operation bumps Version so caches keyed on the bitmap can tell that their
// copy is stale.
type Bitmap struct {
	pix     *image.RGBA
	version uint64
}

// NewBitmap creates a transparent bitmap. Negative sizes are treated as 0.
func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{pix: image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))}
}

// NewBitmapFromImage copies img into a new bitmap whose origin is (0, 0).
func NewBitmapFromImage(img image.Image) *Bitmap {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Bitmap{pix: dst}
}

// NewSolidBitmap creates a w×h bitmap filled with c.
func NewSolidBitmap(w, h int, c Color) *Bitmap {
	b := NewBitmap(w, h)
	b.Fill(c)
	b.version = 0
	return b
}

func (b *Bitmap) Width() int  { return b.pix.Rect.Dx() }
func (b *Bitmap) Height() int { return b.pix.Rect.Dy() }

// Size returns the bitmap dimensions as a vector.
func (b *Bitmap) Size() Vec2 { return Vec2{float64(b.Width()), float64(b.Height())} }

// Bounds returns the pixel rectangle of the bitmap.
func (b *Bitmap) Bounds() image.Rectangle { return b.pix.Rect }

// Version increases every time the pixels change.
func (b *Bitmap) Version() uint64 { return b.version }

// Image exposes the underlying pixels. Callers that write to it directly
// must call Touch afterwards.
func (b *Bitmap) Image() *image.RGBA { return b.pix }

// Touch records an external mutation of the pixels.
func (b *Bitmap) Touch() { b.version++ }

// At returns the premultiplied pixel at (x, y).
func (b *Bitmap) At(x, y int) color.RGBA { return b.pix.RGBAAt(x, y) }

// Set writes a single pixel.
func (b *Bitmap) Set(x, y int, c Color) {
	b.pix.SetRGBA(x, y, c.RGBA())
	b.version++
}

// Fill replaces every pixel with c.
func (b *Bitmap) Fill(c Color) {
	draw.Draw(b.pix, b.pix.Rect, image.NewUniform(c.RGBA()), image.Point{}, draw.Src)
	b.version++
}

// FillRect replaces the pixels inside r with c.
func (b *Bitmap) FillRect(r Rect, c Color) {
	draw.Draw(b.pix, r.Pixels().Intersect(b.pix.Rect), image.NewUniform(c.RGBA()), image.Point{}, draw.Src)
	b.version++
}

// Blit draws the area sub-rectangle of src with its top-left at dst and
// returns the rectangle of b that was affected.
func (b *Bitmap) Blit(src *Bitmap, dst image.Point, area image.Rectangle, mode BlendMode) image.Rectangle {
	area = area.Intersect(src.pix.Rect)
	dr := image.Rectangle{Min: dst, Max: dst.Add(area.Size())}
	clipped := dr.Intersect(b.pix.Rect)
	if clipped.Empty() {
		return image.Rectangle{}
	}
	sp := area.Min.Add(clipped.Min.Sub(dr.Min))

	switch mode {
	case BlendNone:
		draw.Draw(b.pix, clipped, src.pix, sp, draw.Src)
	case BlendAdd, BlendMultiply, BlendScreen:
		bg := transform.Crop(b.pix, clipped)
		fg := transform.Crop(src.pix, image.Rectangle{Min: sp, Max: sp.Add(clipped.Size())})
		var out *image.RGBA
		switch mode {
		case BlendAdd:
			out = blend.Add(bg, fg)
		case BlendMultiply:
			out = blend.Multiply(bg, fg)
		default:
			out = blend.Screen(bg, fg)
		}
		draw.Draw(b.pix, clipped, out, image.Point{}, draw.Src)
	case BlendErase:
		eraseAlpha(b.pix, clipped, src.pix, sp)
	default:
		draw.Draw(b.pix, clipped, src.pix, sp, draw.Over)
	}
	b.version++
	return clipped
}

// eraseAlpha scales every destination pixel by the inverse source alpha.
func eraseAlpha(dst *image.RGBA, r image.Rectangle, src *image.RGBA, sp image.Point) {
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			sa := uint32(src.RGBAAt(sp.X+x, sp.Y+y).A)
			d := dst.RGBAAt(r.Min.X+x, r.Min.Y+y)
			k := 255 - sa
			dst.SetRGBA(r.Min.X+x, r.Min.Y+y, color.RGBA{
				R: uint8(uint32(d.R) * k / 255),
				G: uint8(uint32(d.G) * k / 255),
				B: uint8(uint32(d.B) * k / 255),
				A: uint8(uint32(d.A) * k / 255),
			})
		}
	}
}

// Copy returns an independent copy of b.
func (b *Bitmap) Copy() *Bitmap { return NewBitmapFromImage(b.pix) }

// Crop returns a new bitmap holding the pixels of b inside r.
func (b *Bitmap) Crop(r image.Rectangle) *Bitmap {
	r = r.Intersect(b.pix.Rect)
	if r.Empty() {
		return NewBitmap(0, 0)
	}
	return NewBitmapFromImage(b.pix.SubImage(r))
}

// Scale returns a new bitmap resized to w×h. Integer upscales use nearest
// neighbour so they stay pixel exact.
func (b *Bitmap) Scale(w, h int) *Bitmap {
	out := NewBitmap(w, h)
	if w <= 0 || h <= 0 || b.Width() == 0 || b.Height() == 0 {
		return out
	}
	var s draw.Scaler = draw.ApproxBiLinear
	if w%b.Width() == 0 && h%b.Height() == 0 {
		s = draw.NearestNeighbor
	}
	s.Scale(out.pix, out.pix.Rect, b.pix, b.pix.Rect, draw.Src, nil)
	return out
}

// Flip returns a mirrored copy of b.
func (b *Bitmap) Flip(x, y bool) *Bitmap {
	img := b.pix
	if x {
		img = transform.FlipH(img)
	}
	if y {
		img = transform.FlipV(img)
	}
	if img == b.pix {
		return b.Copy()
	}
	return &Bitmap{pix: img}
}

// Rotate returns a copy of b rotated clockwise by angle radians. The result
// grows to hold the whole rotated image.
func (b *Bitmap) Rotate(angle float64) *Bitmap {
	deg := angle * 180 / math.Pi
	img := transform.Rotate(b.pix, deg, &transform.RotationOptions{ResizeBounds: true})
	if img == b.pix {
		return b.Copy()
	}
	return &Bitmap{pix: img}
}
