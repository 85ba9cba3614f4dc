package sprig

import (
	"slices"
)

// Scene owns a view tree, the sprites in it, and the per-frame behaviour
// (actors, tweens, camera, update callback) that mutates them. A scene
// renders only while it is the Director's top scene.
type Scene struct {
	name       string
	size       Vec2
	root       *View
	director   *Director
	background *Bitmap

	sprites []*Sprite
	views   []*View
	drawBuf []*Sprite

	camera   *Camera
	actors   []*Actor
	tweens   []*TweenGroup
	onUpdate func(dt float64) error

	// Input state
	handlers     handlerRegistry
	pointers     [maxPointers]pointerState
	dragDeadZone float64
}

// NewScene creates a scene whose root view spans size.
func NewScene(name string, size Vec2) *Scene {
	s := &Scene{name: name, size: size, dragDeadZone: defaultDragDeadZone}
	s.root = newRootView(s, size)
	return s
}

func (s *Scene) Name() string          { return s.name }
func (s *Scene) Size() Vec2            { return s.size }
func (s *Scene) Root() *View           { return s.root }
func (s *Scene) Director() *Director   { return s.director }
func (s *Scene) Background() *Bitmap   { return s.background }
func (s *Scene) Sprites() []*Sprite    { return s.sprites }
func (s *Scene) Views() []*View        { return s.views }
func (s *Scene) Actors() []*Actor      { return s.actors }
func (s *Scene) Tweens() []*TweenGroup { return s.tweens }

// IsActive reports whether the scene is the one being rendered.
func (s *Scene) IsActive() bool {
	return s.director != nil && s.director.Scene() == s
}

// SetBackground sets the image painted under every sprite. It is scaled to
// the display. A live scene repaints the whole display next frame.
func (s *Scene) SetBackground(img *Bitmap) {
	s.background = img
	if s.IsActive() {
		s.director.compositor.setBackground(img)
	}
}

// SetUpdateFunc sets a callback run once per update, after actors and
// tweens. A returned error aborts Director.Update.
func (s *Scene) SetUpdateFunc(fn func(dt float64) error) {
	s.onUpdate = fn
}

// Camera returns the camera steering the root view, creating it on first
// use.
func (s *Scene) Camera() *Camera {
	if s.camera == nil {
		s.camera = NewCamera(s.root)
	}
	return s.camera
}

// Start runs body as an actor, first resumed on the next update.
func (s *Scene) Start(name string, body func(ctx *ActorContext)) *Actor {
	a := NewActor(name, body)
	s.actors = append(s.actors, a)
	return a
}

// Animate registers g to be advanced on every update until it is done.
func (s *Scene) Animate(g *TweenGroup) *TweenGroup {
	s.tweens = append(s.tweens, g)
	return g
}

// Update advances actors, tweens, the update callback and the camera by
// dt seconds.
func (s *Scene) Update(dt float64) error {
	s.actors = slices.DeleteFunc(s.actors, func(a *Actor) bool {
		return !a.Step(dt)
	})
	for _, g := range s.tweens {
		g.Update(float32(dt))
	}
	s.tweens = slices.DeleteFunc(s.tweens, func(g *TweenGroup) bool { return g.Done })
	if s.onUpdate != nil {
		if err := s.onUpdate(dt); err != nil {
			return err
		}
	}
	if s.camera != nil {
		s.camera.update(float32(dt))
	}
	return nil
}

// stopActors abandons every running actor.
func (s *Scene) stopActors() {
	for _, a := range s.actors {
		a.Stop()
	}
	s.actors = nil
}

// --- Registry ---

func (s *Scene) registerSprite(sp *Sprite)   { s.sprites = append(s.sprites, sp) }
func (s *Scene) unregisterSprite(sp *Sprite) { s.sprites = removePtr(s.sprites, sp) }
func (s *Scene) registerView(v *View)        { s.views = append(s.views, v) }
func (s *Scene) unregisterView(v *View)      { s.views = removePtr(s.views, v) }

// --- Compositor plumbing ---

// submit hands a dynamic blit to the compositor. Inactive scenes drop it.
func (s *Scene) submit(b *Blit) {
	if s.IsActive() {
		s.director.compositor.addBlit(b)
	}
}

// submitStatic caches b as the static blit of key.
func (s *Scene) submitStatic(key *Sprite, b *Blit) {
	if s.IsActive() {
		s.director.compositor.addStatic(key, b)
	}
}

// removeStatic evicts key's static blit, live or saved.
func (s *Scene) removeStatic(key *Sprite) {
	if s.director == nil {
		return
	}
	if s.IsActive() {
		s.director.compositor.removeStatic(key)
		return
	}
	s.director.compositor.removeSavedStatic(s, key)
}

// scaleCache returns the live scale cache, or nil when the scene is not
// being rendered.
func (s *Scene) scaleCache() *scaleCache {
	if !s.IsActive() {
		return nil
	}
	return s.director.compositor.scales
}

// staticAge returns the promotion threshold for sprites in this scene.
func (s *Scene) staticAge() int {
	if s.director == nil {
		return DefaultStaticAge
	}
	return s.director.cfg.StaticAge
}

// collect asks every sprite to submit its blit for this frame. All drawable
// sprites are checked first, so a sprite without an image fails the frame
// before any sprite ages or is promoted.
func (s *Scene) collect() error {
	drawn, err := s.root.collect(s.drawBuf[:0])
	if err == nil {
		for _, sp := range drawn {
			sp.draw()
		}
	}
	clear(drawn)
	s.drawBuf = drawn[:0]
	return err
}

// resetStatic forgets the static state of every sprite.
func (s *Scene) resetStatic() {
	for _, sp := range s.sprites {
		sp.resetStatic()
	}
}

// --- Queries ---

// ScreenToScene maps a display point into scene space.
func (s *Scene) ScreenToScene(p Vec2) Vec2 {
	return p.Sub(s.root.origin()).Div(s.root.Scale())
}

// SceneToScreen maps a scene-space point onto the display.
func (s *Scene) SceneToScreen(p Vec2) Vec2 {
	return s.root.origin().Add(p.Mul(s.root.Scale()))
}

// SpritesAt returns the visible sprites whose collision box contains the
// scene-space point p, topmost first. Ties in layer order go to the sprite
// drawn later.
func (s *Scene) SpritesAt(p Vec2) []*Sprite {
	type hit struct {
		sprite *Sprite
		key    LayerKey
		order  int
	}
	var hits []hit
	order := 0
	var walk func(v *View)
	walk = func(v *View) {
		if !v.visible {
			return
		}
		for _, sp := range v.sprites {
			order++
			if sp.visible && sp.image != nil && sp.CollidePoint(p) {
				hits = append(hits, hit{sp, sp.layerKey(), order})
			}
		}
		for _, c := range v.views {
			walk(c)
		}
	}
	walk(s.root)
	slices.SortStableFunc(hits, func(a, b hit) int {
		if c := b.key.Compare(a.key); c != 0 {
			return c
		}
		return b.order - a.order
	})
	out := make([]*Sprite, len(hits))
	for i, h := range hits {
		out[i] = h.sprite
	}
	return out
}

// SpriteAt returns the topmost sprite at p, or nil.
func (s *Scene) SpriteAt(p Vec2) *Sprite {
	if hits := s.SpritesAt(p); len(hits) > 0 {
		return hits[0]
	}
	return nil
}
