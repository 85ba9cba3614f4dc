package sprig

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for the camera's X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera steers a view so that a point of its local space sits at the
// center of the area the view covers in its parent. A scene's camera drives
// its root view, so Pos is the scene-space point shown at the display center.
//
// Every move goes through View.SetPos, so sprites under a moving camera are
// re-blitted dynamically and come back to the static cache once it stops.
type Camera struct {
	// Pos is the local-space point centered in the view's output area.
	Pos Vec2

	view *View

	followTarget *Sprite
	followOffset Vec2
	followLerp   float64

	// BoundsEnabled clamps Pos so the visible area stays within Bounds.
	BoundsEnabled bool
	// Bounds is the local-space rect Pos is clamped to when BoundsEnabled.
	Bounds Rect

	scrollTween *scrollAnim
}

// NewCamera creates a camera for v, starting at whatever v currently shows.
func NewCamera(v *View) *Camera {
	c := &Camera{view: v}
	c.Pos = c.center()
	return c
}

// View returns the view the camera moves.
func (c *Camera) View() *View { return c.view }

// center returns the local point currently at the center of the output area.
func (c *Camera) center() Vec2 {
	v := c.view
	return v.OutputSize().Scale(0.5).Sub(v.origin()).Div(v.Scale())
}

// Follow makes the camera track a sprite with the given offset and lerp
// factor. A lerp of 1.0 snaps immediately; lower values give smoother
// following.
func (c *Camera) Follow(s *Sprite, offset Vec2, lerp float64) {
	c.followTarget = s
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to `to` over duration seconds.
func (c *Camera) ScrollTo(to Vec2, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.Pos.X), float32(to.X), duration, easeFn),
		tweenY: gween.New(float32(c.Pos.Y), float32(to.Y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool { return c.scrollTween != nil }

// SetBounds enables bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// LookAt centers the camera on p immediately.
func (c *Camera) LookAt(p Vec2) {
	c.Pos = p
	c.scrollTween = nil
	if c.BoundsEnabled {
		c.clampToBounds()
	}
	c.apply()
}

// update advances follow, scroll and bounds clamping, then moves the view.
// Called from Scene.Update.
func (c *Camera) update(dt float32) {
	if c.view.IsKilled() {
		return
	}

	if c.followTarget != nil {
		if c.followTarget.IsKilled() {
			c.followTarget = nil
		} else {
			target := c.followTarget.Pos().Add(c.followOffset)
			c.Pos = c.Pos.Lerp(target, c.followLerp)
		}
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.Pos.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Pos.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
	c.apply()
}

// apply positions the view so that Pos lands at the output center.
func (c *Camera) apply() {
	v := c.view
	origin := v.OutputSize().Scale(0.5).Sub(c.Pos.Mul(v.Scale()))
	v.SetPos(origin.Add(v.anchor.offset(v.OutputSize())))
}

// clampToBounds restricts Pos so the visible area stays within Bounds.
func (c *Camera) clampToBounds() {
	half := c.view.OutputSize().Scale(0.5).Div(c.view.Scale())

	minX := c.Bounds.X + half.X
	maxX := c.Bounds.Right() - half.X
	minY := c.Bounds.Y + half.Y
	maxY := c.Bounds.Bottom() - half.Y

	// If bounds are smaller than the visible area, center the camera.
	if minX > maxX {
		c.Pos.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.Pos.X = math.Max(minX, math.Min(c.Pos.X, maxX))
	}
	if minY > maxY {
		c.Pos.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Pos.Y = math.Max(minY, math.Min(c.Pos.Y, maxY))
	}
}

// VisibleBounds returns the local-space rect currently shown.
func (c *Camera) VisibleBounds() Rect {
	size := c.view.OutputSize().Div(c.view.Scale())
	return RectAt(c.Pos.Sub(size.Scale(0.5)), size)
}
