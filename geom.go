package sprig

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	// ErrMalformedRect is returned by ParseRect for argument lists that are
	// not (w, h) or (x, y, w, h).
	ErrMalformedRect = errors.New("sprig: malformed rect")
	// ErrMalformedVec is returned by ParseVec2 for argument lists that are
	// not (v) or (x, y).
	ErrMalformedVec = errors.New("sprig: malformed vector")
)

// --- Vec2 ---

// Vec2 is a 2D vector used for positions, offsets, sizes, and scale factors.
// It is a value type; every operation returns a new vector.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{x, y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Div divides componentwise. A zero divisor component yields 0 rather than
// an infinity so degenerate views collapse instead of exploding.
func (v Vec2) Div(o Vec2) Vec2 {
	return Vec2{safeDiv(v.X, o.X), safeDiv(v.Y, o.Y)}
}

func (v Vec2) Scale(s float64) Vec2     { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) DivScalar(s float64) Vec2 { return Vec2{safeDiv(v.X, s), safeDiv(v.Y, s)} }
func (v Vec2) Floor() Vec2              { return Vec2{math.Floor(v.X), math.Floor(v.Y)} }
func (v Vec2) Ceil() Vec2               { return Vec2{math.Ceil(v.X), math.Ceil(v.Y)} }
func (v Vec2) Round() Vec2              { return Vec2{math.Round(v.X), math.Round(v.Y)} }
func (v Vec2) IsZero() bool             { return v.X == 0 && v.Y == 0 }

// Lerp returns the point t of the way from v to o.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 { return v.Add(o.Sub(v).Scale(t)) }

// Eq reports whether v and o are equal within 1e-9.
func (v Vec2) Eq(o Vec2) bool {
	return math.Abs(v.X-o.X) < 1e-9 && math.Abs(v.Y-o.Y) < 1e-9
}

// Point rounds v to the nearest integer point.
func (v Vec2) Point() image.Point {
	return image.Pt(int(math.Round(v.X)), int(math.Round(v.Y)))
}

func (v Vec2) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// ParseVec2 builds a vector from one value (both components) or two values.
func ParseVec2(vals ...float64) (Vec2, error) {
	switch len(vals) {
	case 1:
		return Vec2{vals[0], vals[0]}, nil
	case 2:
		return Vec2{vals[0], vals[1]}, nil
	}
	return Vec2{}, fmt.Errorf("%w: got %d values", ErrMalformedVec, len(vals))
}

// --- Rect ---

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward. Right and Bottom are always
// derived from X+Width and Y+Height.
type Rect struct {
	X, Y, Width, Height float64
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect { return Rect{x, y, w, h} }

// RectAt builds a rect from a position and a size.
func RectAt(pos, size Vec2) Rect { return Rect{pos.X, pos.Y, size.X, size.Y} }

// RectFromImage converts an integer pixel rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy())}
}

// ParseRect accepts (w, h) or (x, y, w, h).
func ParseRect(vals ...float64) (Rect, error) {
	switch len(vals) {
	case 2:
		return Rect{0, 0, vals[0], vals[1]}, nil
	case 4:
		return Rect{vals[0], vals[1], vals[2], vals[3]}, nil
	}
	return Rect{}, fmt.Errorf("%w: got %d values", ErrMalformedRect, len(vals))
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) TopLeft() Vec2     { return Vec2{r.X, r.Y} }
func (r Rect) TopRight() Vec2    { return Vec2{r.Right(), r.Y} }
func (r Rect) BottomLeft() Vec2  { return Vec2{r.X, r.Bottom()} }
func (r Rect) BottomRight() Vec2 { return Vec2{r.Right(), r.Bottom()} }
func (r Rect) MidTop() Vec2      { return Vec2{r.X + r.Width/2, r.Y} }
func (r Rect) MidBottom() Vec2   { return Vec2{r.X + r.Width/2, r.Bottom()} }
func (r Rect) MidLeft() Vec2     { return Vec2{r.X, r.Y + r.Height/2} }
func (r Rect) MidRight() Vec2    { return Vec2{r.Right(), r.Y + r.Height/2} }
func (r Rect) Center() Vec2      { return Vec2{r.X + r.Width/2, r.Y + r.Height/2} }
func (r Rect) Size() Vec2        { return Vec2{r.Width, r.Height} }

// SetLeft moves the rect so its left edge is at x.
func (r *Rect) SetLeft(x float64) { r.X = x }

// SetTop moves the rect so its top edge is at y.
func (r *Rect) SetTop(y float64) { r.Y = y }

// SetRight moves the rect so its right edge is at x. Width is unchanged.
func (r *Rect) SetRight(x float64) { r.X = x - r.Width }

// SetBottom moves the rect so its bottom edge is at y. Height is unchanged.
func (r *Rect) SetBottom(y float64) { r.Y = y - r.Height }

// SetCenter moves the rect so it is centered on c.
func (r *Rect) SetCenter(c Vec2) {
	r.X = c.X - r.Width/2
	r.Y = c.Y - r.Height/2
}

// SetTopLeft moves the rect so its top-left corner is at p.
func (r *Rect) SetTopLeft(p Vec2) { r.X, r.Y = p.X, p.Y }

// SetSize resizes the rect, keeping its top-left corner.
func (r *Rect) SetSize(s Vec2) { r.Width, r.Height = s.X, s.Y }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ContainsRect reports whether other lies entirely inside r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Collides reports whether r and other share a region of positive area.
// Unlike Intersects, touching edges do not collide and empty rects never do.
func (r Rect) Collides(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Clip returns the intersection of r and other. Disjoint rects produce a
// zero-sized rect positioned at r's top-left clamped into other.
func (r Rect) Clip(other Rect) Rect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.Right(), other.Right())
	y1 := math.Min(r.Bottom(), other.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Union returns the smallest rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.Right(), other.Right())
	y1 := math.Max(r.Bottom(), other.Bottom())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Move returns r translated by d.
func (r Rect) Move(d Vec2) Rect { return Rect{r.X + d.X, r.Y + d.Y, r.Width, r.Height} }

// Inflate grows r by d on every side (negative values shrink it).
func (r Rect) Inflate(d float64) Rect {
	return Rect{r.X - d, r.Y - d, r.Width + 2*d, r.Height + 2*d}
}

// Snap expands r outward to integer coordinates so that every pixel the
// rect touches is covered.
func (r Rect) Snap() Rect {
	if r.Empty() {
		return Rect{X: math.Floor(r.X), Y: math.Floor(r.Y)}
	}
	x0, y0 := math.Floor(r.X), math.Floor(r.Y)
	x1, y1 := math.Ceil(r.Right()), math.Ceil(r.Bottom())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Pixels returns the integer rectangle covering r.
func (r Rect) Pixels() image.Rectangle {
	s := r.Snap()
	return image.Rect(int(s.X), int(s.Y), int(s.Right()), int(s.Bottom()))
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%g, %g, %g, %g)", r.X, r.Y, r.Width, r.Height)
}

// collidesAny reports whether r collides with any rect in list.
func collidesAny(r Rect, list []Rect) bool {
	for _, o := range list {
		if r.Collides(o) {
			return true
		}
	}
	return false
}

// Subtract returns the parts of r not covered by o as at most four
// non-overlapping rects.
func (r Rect) Subtract(o Rect) []Rect {
	in := r.Clip(o)
	if in.Empty() {
		if r.Empty() {
			return nil
		}
		return []Rect{r}
	}
	var out []Rect
	if in.Y > r.Y {
		out = append(out, Rect{r.X, r.Y, r.Width, in.Y - r.Y})
	}
	if in.Bottom() < r.Bottom() {
		out = append(out, Rect{r.X, in.Bottom(), r.Width, r.Bottom() - in.Bottom()})
	}
	if in.X > r.X {
		out = append(out, Rect{r.X, in.Y, in.X - r.X, in.Height})
	}
	if in.Right() < r.Right() {
		out = append(out, Rect{in.Right(), in.Y, r.Right() - in.Right(), in.Height})
	}
	return out
}

// region is a set of pairwise disjoint rects. Painting into each member
// touches every covered pixel exactly once.
type region []Rect

// add inserts the parts of r not already covered and returns them.
func (g *region) add(r Rect) []Rect {
	if r.Empty() {
		return nil
	}
	pieces := []Rect{r}
	for _, o := range *g {
		var next []Rect
		for _, p := range pieces {
			next = append(next, p.Subtract(o)...)
		}
		pieces = next
		if len(pieces) == 0 {
			return nil
		}
	}
	*g = append(*g, pieces...)
	return pieces
}
