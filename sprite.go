package sprig

import "fmt"

// DefaultStaticAge is the number of unchanged frames after which a sprite
// is promoted to a cached static blit.
const DefaultStaticAge = 4

// Sprite is a leaf drawable bound to a Bitmap. Properties are changed
// through setters so that every change that affects pixels or placement
// drops the sprite out of the static cache.
type Sprite struct {
	name   string
	scene  *Scene
	parent *View

	image   *Bitmap
	pos     Vec2
	anchor  Anchor
	scale   Vec2
	angle   float64
	flipX   bool
	flipY   bool
	layer   string
	visible bool
	mask    *Rect
	blend   BlendMode

	// Derived
	transformed  *Bitmap
	imageVersion uint64
	offset       Vec2
	age          int
	static       bool
	dead         bool
}

// NewSprite creates a sprite attached to parent. img may be nil, but the
// sprite must have an image before it is drawn while visible.
func NewSprite(parent *View, name string, img *Bitmap) *Sprite {
	if parent == nil {
		panic("sprig: cannot create sprite with nil parent")
	}
	if parent.dead {
		panic(fmt.Sprintf("sprig: cannot create sprite %q under killed view %q", name, parent.name))
	}
	s := &Sprite{
		name:    name,
		scene:   parent.scene,
		parent:  parent,
		image:   img,
		scale:   Vec2{1, 1},
		visible: true,
	}
	parent.sprites = append(parent.sprites, s)
	s.scene.registerSprite(s)
	if s.scene.debug() {
		debugCheckChildCount(parent)
	}
	return s
}

// --- Accessors ---

func (s *Sprite) Name() string         { return s.name }
func (s *Sprite) Scene() *Scene        { return s.scene }
func (s *Sprite) Parent() *View        { return s.parent }
func (s *Sprite) Image() *Bitmap       { return s.image }
func (s *Sprite) Pos() Vec2            { return s.pos }
func (s *Sprite) X() float64           { return s.pos.X }
func (s *Sprite) Y() float64           { return s.pos.Y }
func (s *Sprite) Anchor() Anchor       { return s.anchor }
func (s *Sprite) Scale() Vec2          { return s.scale }
func (s *Sprite) Angle() float64       { return s.angle }
func (s *Sprite) FlipX() bool          { return s.flipX }
func (s *Sprite) FlipY() bool          { return s.flipY }
func (s *Sprite) Layer() string        { return s.layer }
func (s *Sprite) Visible() bool        { return s.visible }
func (s *Sprite) BlendMode() BlendMode { return s.blend }
func (s *Sprite) IsKilled() bool       { return s.dead }

// IsStatic reports whether the sprite is currently served from the
// compositor's static cache.
func (s *Sprite) IsStatic() bool { return s.static }

// Age returns the number of consecutive unchanged dynamic draws.
func (s *Sprite) Age() int { return s.age }

// Size returns the size of the transformed image, or zero without an image.
func (s *Sprite) Size() Vec2 {
	if !s.refresh() {
		return Vec2{}
	}
	return s.transformed.Size()
}

// --- Setters ---

// SetImage binds a new bitmap.
func (s *Sprite) SetImage(img *Bitmap) {
	if s.image == img {
		return
	}
	s.image = img
	s.invalidate()
}

func (s *Sprite) SetPos(p Vec2) {
	if s.pos == p {
		return
	}
	s.pos = p
	s.expireStatic()
}

func (s *Sprite) SetX(x float64) { s.SetPos(Vec2{x, s.pos.Y}) }
func (s *Sprite) SetY(y float64) { s.SetPos(Vec2{s.pos.X, y}) }

func (s *Sprite) SetAnchor(a Anchor) {
	if s.anchor == a {
		return
	}
	s.anchor = a
	s.invalidate()
}

// SetScale sets the image scale factor.
func (s *Sprite) SetScale(sc Vec2) {
	if s.scale == sc {
		return
	}
	s.scale = sc
	s.invalidate()
}

// SetAngle sets the clockwise rotation in radians.
func (s *Sprite) SetAngle(a float64) {
	if s.angle == a {
		return
	}
	s.angle = a
	s.invalidate()
}

func (s *Sprite) SetFlipX(f bool) {
	if s.flipX == f {
		return
	}
	s.flipX = f
	s.invalidate()
}

func (s *Sprite) SetFlipY(f bool) {
	if s.flipY == f {
		return
	}
	s.flipY = f
	s.invalidate()
}

// SetLayer sets the sprite's layer name, optionally with an ":above" or
// ":below" modifier.
func (s *Sprite) SetLayer(layer string) {
	if s.layer == layer {
		return
	}
	s.layer = layer
	s.expireStatic()
}

func (s *Sprite) SetVisible(v bool) {
	if s.visible == v {
		return
	}
	s.visible = v
	s.expireStatic()
}

func (s *Sprite) SetBlendMode(m BlendMode) {
	if s.blend == m {
		return
	}
	s.blend = m
	s.expireStatic()
}

// SetMask overrides the collision box. The rect is relative to the
// sprite's drawn top-left corner. Nil restores the image box.
func (s *Sprite) SetMask(m *Rect) {
	if m == nil {
		s.mask = nil
		return
	}
	r := *m
	s.mask = &r
}

// invalidate drops the transformed image and any static state.
func (s *Sprite) invalidate() {
	s.transformed = nil
	s.expireStatic()
}

// expireStatic returns the sprite to the dynamic state. If it was cached,
// the compositor evicts the blit and erases its footprint next frame.
func (s *Sprite) expireStatic() {
	if s.static {
		s.scene.removeStatic(s)
		s.static = false
	}
	s.age = 0
}

// resetStatic forgets static state without touching the compositor. Used
// when a scene enters without a saved cache.
func (s *Sprite) resetStatic() {
	s.static = false
	s.age = 0
}

// --- Transform ---

// refresh brings the transformed image up to date with the bound image,
// expiring static state if the image changed underneath. Returns false if
// there is no image.
func (s *Sprite) refresh() bool {
	if s.image == nil {
		return false
	}
	if s.transformed != nil && s.image.Version() != s.imageVersion {
		s.invalidate()
	}
	if s.transformed == nil {
		s.recalc()
	}
	return true
}

// recalc runs the flip → scale → rotate pipeline. Rotation runs last
// because it grows the bounding box that the anchor offset is based on.
func (s *Sprite) recalc() {
	img := s.image
	cacheable := true
	if s.flipX || s.flipY {
		img = img.Flip(s.flipX, s.flipY)
		cacheable = false
	}
	if s.scale != (Vec2{1, 1}) {
		w, h := scaledSize(img, s.scale)
		if sc := s.scene.scaleCache(); sc != nil && cacheable {
			img = sc.Scale(img, w, h)
		} else {
			img = img.Scale(w, h)
		}
	}
	if s.angle != 0 {
		img = img.Rotate(s.angle)
	}
	s.transformed = img
	s.imageVersion = s.image.Version()
	s.offset = s.anchor.offset(img.Size())
}

// --- Drawing ---

// draw submits this frame's blit. Unchanged sprites age each frame and are
// moved to the static cache once they are older than the scene's static
// age; static sprites submit nothing. The sprite must be visible with a
// refreshed image.
func (s *Sprite) draw() {
	if s.static {
		return
	}
	b := newBlit(s.transformed, s.pos.Sub(s.offset), LayerKey{s.parent.resolveLayer(s.layer)}, s.blend)
	if s.age > s.scene.staticAge() {
		s.static = true
		s.age = 0
		s.parent.staticBlit(s, b)
		return
	}
	s.age++
	s.parent.blit(b)
}

// layerKey returns the sprite's global ordering key.
func (s *Sprite) layerKey() LayerKey {
	return s.parent.layerKey(LayerKey{s.parent.resolveLayer(s.layer)})
}

// --- Collision ---

// CollisionBox returns the sprite's box in scene space. The box is exact:
// at fractional positions it can differ by up to half a pixel from the
// painted rect, which is rounded to whole display pixels.
func (s *Sprite) CollisionBox() Rect {
	if !s.refresh() {
		return RectAt(s.pos, Vec2{})
	}
	box := RectAt(Vec2{}, s.transformed.Size())
	if s.mask != nil {
		box = *s.mask
	}
	return s.parent.warpCollisionBox(box.Move(s.pos.Sub(s.offset)))
}

// CollidePoint reports whether the scene-space point p lies on the sprite.
func (s *Sprite) CollidePoint(p Vec2) bool {
	return s.CollisionBox().Contains(p.X, p.Y)
}

// CollideRect reports whether the scene-space rect r overlaps the sprite.
func (s *Sprite) CollideRect(r Rect) bool {
	return s.CollisionBox().Collides(r)
}

// CollideSprite reports whether o overlaps the sprite.
func (s *Sprite) CollideSprite(o *Sprite) bool {
	return s.CollisionBox().Collides(o.CollisionBox())
}

// CollideView reports whether v overlaps the sprite.
func (s *Sprite) CollideView(v *View) bool {
	return s.CollisionBox().Collides(v.CollisionBox())
}

// --- Lifecycle ---

// Kill removes the sprite from its view and the scene. A cached static
// blit is evicted and erased on the next frame.
func (s *Sprite) Kill() {
	if s.dead {
		return
	}
	s.parent.sprites = removePtr(s.parent.sprites, s)
	s.kill()
}

func (s *Sprite) kill() {
	s.expireStatic()
	s.scene.unregisterSprite(s)
	s.dead = true
	s.parent = nil
	s.image = nil
	s.transformed = nil
	s.mask = nil
}
