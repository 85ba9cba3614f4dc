package sprig

import "strings"

// Anchor picks the point of an image or view that lines up with its
// position. The offset is Rel*size + Abs, so named anchors are relative
// and AnchorAt gives an explicit pixel offset.
type Anchor struct {
	Rel Vec2
	Abs Vec2
}

var (
	AnchorTopLeft     = Anchor{}
	AnchorMidTop      = Anchor{Rel: Vec2{0.5, 0}}
	AnchorTopRight    = Anchor{Rel: Vec2{1, 0}}
	AnchorMidLeft     = Anchor{Rel: Vec2{0, 0.5}}
	AnchorCenter      = Anchor{Rel: Vec2{0.5, 0.5}}
	AnchorMidRight    = Anchor{Rel: Vec2{1, 0.5}}
	AnchorBottomLeft  = Anchor{Rel: Vec2{0, 1}}
	AnchorMidBottom   = Anchor{Rel: Vec2{0.5, 1}}
	AnchorBottomRight = Anchor{Rel: Vec2{1, 1}}
)

var namedAnchors = map[string]Anchor{
	"topleft":     AnchorTopLeft,
	"midtop":      AnchorMidTop,
	"topright":    AnchorTopRight,
	"midleft":     AnchorMidLeft,
	"center":      AnchorCenter,
	"midright":    AnchorMidRight,
	"bottomleft":  AnchorBottomLeft,
	"midbottom":   AnchorMidBottom,
	"bottomright": AnchorBottomRight,
}

// AnchorAt returns an anchor at a fixed pixel offset from the top-left.
func AnchorAt(x, y float64) Anchor { return Anchor{Abs: Vec2{x, y}} }

// ParseAnchor looks up a named anchor such as "center" or "midbottom".
func ParseAnchor(name string) (Anchor, bool) {
	a, ok := namedAnchors[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

func (a Anchor) offset(size Vec2) Vec2 {
	return a.Rel.Mul(size).Add(a.Abs)
}
