package sprig

import (
	"fmt"
	"slices"
)

// View is a transform and clipping node. It never paints pixels itself: it
// maps the blits of its sprites and child views from its local space into
// its parent's space, optionally cropping them.
//
// A view's local space spans Size. It is drawn into its parent at Pos
// (shifted by Anchor) covering OutputSize, so the local→parent scale is
// OutputSize/Size.
type View struct {
	name   string
	scene  *Scene
	parent *View

	pos        Vec2
	size       Vec2
	outputSize Vec2
	cropSize   Vec2
	anchor     Anchor
	visible    bool
	crop       bool
	layer      string
	layers     []string
	mask       *Rect

	views   []*View
	sprites []*Sprite
	dead    bool
}

// NewView creates a view attached to parent. Panics if parent is nil or
// has been killed.
func NewView(parent *View, name string) *View {
	if parent == nil {
		panic("sprig: cannot create view with nil parent")
	}
	if parent.dead {
		panic(fmt.Sprintf("sprig: cannot create view %q under killed view %q", name, parent.name))
	}
	v := &View{
		name:    name,
		scene:   parent.scene,
		parent:  parent,
		size:    parent.size,
		visible: true,
	}
	parent.views = append(parent.views, v)
	v.scene.registerView(v)
	if v.scene.debug() {
		debugCheckDepth(v)
	}
	return v
}

// newRootView creates the parentless view a scene uses as its camera.
func newRootView(s *Scene, size Vec2) *View {
	return &View{name: "root", scene: s, size: size, visible: true}
}

// --- Accessors ---

func (v *View) Name() string       { return v.name }
func (v *View) Scene() *Scene      { return v.scene }
func (v *View) Parent() *View      { return v.parent }
func (v *View) Pos() Vec2          { return v.pos }
func (v *View) Size() Vec2         { return v.size }
func (v *View) CropSize() Vec2     { return v.cropSizeOrSize() }
func (v *View) Anchor() Anchor     { return v.anchor }
func (v *View) Visible() bool      { return v.visible }
func (v *View) Crop() bool         { return v.crop }
func (v *View) Layer() string      { return v.layer }
func (v *View) Layers() []string   { return slices.Clone(v.layers) }
func (v *View) IsKilled() bool     { return v.dead }
func (v *View) Views() []*View     { return v.views }
func (v *View) Sprites() []*Sprite { return v.sprites }

// OutputSize returns the size the view occupies in its parent. It defaults
// to Size.
func (v *View) OutputSize() Vec2 {
	if v.outputSize.IsZero() {
		return v.size
	}
	return v.outputSize
}

// Mask returns the explicit collision rect, or nil.
func (v *View) Mask() *Rect {
	if v.mask == nil {
		return nil
	}
	m := *v.mask
	return &m
}

// Scale returns the local→parent scale factor. A non-positive size
// component yields 0 so the view collapses instead of dividing by zero.
func (v *View) Scale() Vec2 {
	if v.outputSize.IsZero() {
		return Vec2{1, 1}
	}
	var s Vec2
	if v.size.X > 0 {
		s.X = v.outputSize.X / v.size.X
	}
	if v.size.Y > 0 {
		s.Y = v.outputSize.Y / v.size.Y
	}
	return s
}

func (v *View) cropSizeOrSize() Vec2 {
	if v.cropSize.IsZero() {
		return v.size
	}
	return v.cropSize
}

// origin is where local (0, 0) lands in the parent.
func (v *View) origin() Vec2 {
	return v.pos.Sub(v.anchor.offset(v.OutputSize()))
}

// cropRect is the crop region expressed in parent space.
func (v *View) cropRect() Rect {
	return RectAt(v.origin(), v.cropSizeOrSize().Mul(v.Scale()))
}

// --- Setters ---

// SetPos moves the view within its parent.
func (v *View) SetPos(p Vec2) {
	if v.pos == p {
		return
	}
	v.pos = p
	v.changed()
}

// SetSize sets the view's local extent.
func (v *View) SetSize(s Vec2) {
	if v.size == s {
		return
	}
	v.size = s
	v.changed()
}

// SetOutputSize sets the extent the view covers in its parent.
func (v *View) SetOutputSize(s Vec2) {
	if v.outputSize == s {
		return
	}
	v.outputSize = s
	v.changed()
}

// SetScale sets OutputSize to Size*s.
func (v *View) SetScale(s Vec2) {
	v.SetOutputSize(v.size.Mul(s))
}

// SetCropSize sets the local extent kept when cropping is on.
func (v *View) SetCropSize(s Vec2) {
	if v.cropSize == s {
		return
	}
	v.cropSize = s
	v.changed()
}

// SetCrop turns cropping on or off.
func (v *View) SetCrop(crop bool) {
	if v.crop == crop {
		return
	}
	v.crop = crop
	v.changed()
}

func (v *View) SetAnchor(a Anchor) {
	if v.anchor == a {
		return
	}
	v.anchor = a
	v.changed()
}

func (v *View) SetVisible(visible bool) {
	if v.visible == visible {
		return
	}
	v.visible = visible
	v.changed()
}

// SetLayer sets the view's layer within its parent's layer list.
func (v *View) SetLayer(layer string) {
	if v.layer == layer {
		return
	}
	v.layer = layer
	v.changed()
}

// SetLayers declares the ordered layer names available to this view's
// children. The list can be set once; setting an identical list again is
// a no-op and any other change returns ErrLayersLocked.
func (v *View) SetLayers(layers ...string) error {
	if len(v.layers) > 0 {
		if slices.Equal(v.layers, layers) {
			return nil
		}
		return fmt.Errorf("%w: view %q", ErrLayersLocked, v.name)
	}
	v.layers = slices.Clone(layers)
	v.changed()
	return nil
}

// SetMask overrides the collision box. The rect is relative to the view's
// top-left corner in parent space. Nil restores the default box.
func (v *View) SetMask(m *Rect) {
	if m == nil {
		v.mask = nil
		return
	}
	r := *m
	v.mask = &r
}

// changed expires every cached static blit below v, since their screen
// position or clipping may now differ.
func (v *View) changed() {
	if v.scene.debug() {
		debugCheckKilled(v, "modify")
	}
	for _, s := range v.sprites {
		s.expireStatic()
	}
	for _, c := range v.views {
		c.changed()
	}
}

// --- Transform chain ---

// resolveLayer resolves a child's layer name against this view's layers.
func (v *View) resolveLayer(name string) float64 {
	return resolveLayer(v.layers, name)
}

// apply maps b from this view's local space into its parent's space.
func (v *View) apply(b *Blit) {
	b.transform(v.origin(), v.Scale())
	if v.crop {
		b.clip(v.cropRect())
	}
}

// blit forwards a dynamic blit toward the compositor. Invisible views drop
// it.
func (v *View) blit(b *Blit) {
	if !v.visible || v.dead {
		return
	}
	v.apply(b)
	if v.parent == nil {
		v.scene.submit(b)
		return
	}
	b.Layer = b.Layer.prepend(v.parent.resolveLayer(v.layer))
	v.parent.blit(b)
}

// staticBlit forwards a blit that the compositor caches under key.
func (v *View) staticBlit(key *Sprite, b *Blit) {
	if !v.visible || v.dead {
		return
	}
	v.apply(b)
	if v.parent == nil {
		v.scene.submitStatic(key, b)
		return
	}
	b.Layer = b.Layer.prepend(v.parent.resolveLayer(v.layer))
	v.parent.staticBlit(key, b)
}

// warpCollisionBox maps box from this view's local space into scene space.
// The root view is the scene space, so it returns box untouched.
func (v *View) warpCollisionBox(box Rect) Rect {
	if v.parent == nil {
		return box
	}
	box = RectAt(v.origin().Add(box.TopLeft().Mul(v.Scale())), box.Size().Mul(v.Scale()))
	if v.crop {
		box = box.Clip(v.cropRect())
	}
	return v.parent.warpCollisionBox(box)
}

// layerKey computes the ordering key of a view's contents without drawing.
func (v *View) layerKey(tail LayerKey) LayerKey {
	for c := v; c.parent != nil; c = c.parent {
		tail = tail.prepend(c.parent.resolveLayer(c.layer))
	}
	return tail
}

// --- Collision ---

// CollisionBox returns the view's box in scene space.
func (v *View) CollisionBox() Rect {
	box := RectAt(Vec2{}, v.OutputSize())
	if v.mask != nil {
		box = *v.mask
	}
	box = box.Move(v.origin())
	if v.parent == nil {
		return box
	}
	return v.parent.warpCollisionBox(box)
}

// CollidePoint reports whether the scene-space point p lies in the view.
func (v *View) CollidePoint(p Vec2) bool {
	return v.CollisionBox().Contains(p.X, p.Y)
}

// CollideRect reports whether the scene-space rect r overlaps the view.
func (v *View) CollideRect(r Rect) bool {
	return v.CollisionBox().Collides(r)
}

// CollideSprite reports whether s overlaps the view.
func (v *View) CollideSprite(s *Sprite) bool {
	return v.CollisionBox().Collides(s.CollisionBox())
}

// CollideView reports whether o overlaps the view.
func (v *View) CollideView(o *View) bool {
	return v.CollisionBox().Collides(o.CollisionBox())
}

// --- Drawing ---

// collect asks every sprite below v to submit its blit for this frame.
// Sprites draw before child views, each in creation order.
func (v *View) collect(out []*Sprite) ([]*Sprite, error) {
	if !v.visible || v.dead {
		return out, nil
	}
	for _, s := range v.sprites {
		if !s.visible || s.dead {
			continue
		}
		if !s.refresh() {
			return out, &NoImageError{Sprite: s.name}
		}
		out = append(out, s)
	}
	var err error
	for _, c := range v.views {
		if out, err = c.collect(out); err != nil {
			return out, err
		}
	}
	return out, nil
}

// --- Lifecycle ---

// Kill destroys the view, its child views and its sprites. Cached static
// blits are evicted and their footprint erased on the next frame.
func (v *View) Kill() {
	if v.dead {
		return
	}
	if v.parent == nil {
		panic("sprig: cannot kill a scene's root view")
	}
	v.parent.views = removePtr(v.parent.views, v)
	v.kill()
}

func (v *View) kill() {
	for _, s := range v.sprites {
		s.kill()
	}
	for _, c := range v.views {
		c.kill()
	}
	v.scene.unregisterView(v)
	v.dead = true
	v.sprites = nil
	v.views = nil
	v.parent = nil
	v.mask = nil
}

// removePtr removes p from list without leaving a dangling pointer in the
// backing array.
func removePtr[T any](list []*T, p *T) []*T {
	i := slices.Index(list, p)
	if i < 0 {
		return list
	}
	copy(list[i:], list[i+1:])
	list[len(list)-1] = nil
	return list[:len(list)-1]
}
