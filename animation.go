package sprig

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 properties of a Sprite simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenAngle) and either call Update(dt) each frame or hand it to
// Scene.Animate. Values are written through the sprite's setters, so an
// animated sprite stays dynamic. If the target sprite is killed, the group
// stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(vals [4]float64)
	target *Sprite
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target. If the target has been killed, Done is set and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsKilled() {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(vals)
}

// TweenPosition animates the sprite's position to `to` over duration seconds.
func TweenPosition(s *Sprite, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := s.Pos()
	g := &TweenGroup{count: 2, target: s}
	g.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	g.apply = func(v [4]float64) { s.SetPos(Vec2{v[0], v[1]}) }
	return g
}

// TweenScale animates the sprite's scale factor to `to`.
func TweenScale(s *Sprite, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := s.Scale()
	g := &TweenGroup{count: 2, target: s}
	g.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	g.apply = func(v [4]float64) { s.SetScale(Vec2{v[0], v[1]}) }
	return g
}

// TweenAngle animates the sprite's rotation in radians.
func TweenAngle(s *Sprite, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: s}
	g.tweens[0] = gween.New(float32(s.Angle()), float32(to), duration, fn)
	g.apply = func(v [4]float64) { s.SetAngle(v[0]) }
	return g
}

// TweenView animates a view's position. It stops when the view is killed.
func TweenView(v *View, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := v.Pos()
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	g.apply = func(vals [4]float64) {
		if v.IsKilled() {
			g.Done = true
			return
		}
		v.SetPos(Vec2{vals[0], vals[1]})
	}
	return g
}
