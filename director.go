package sprig

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
)

// Director owns the compositor and a stack of scenes. Only the top scene
// is updated and rendered. Scenes below it keep their cached static blits
// so that returning to them does not rebuild the cache.
type Director struct {
	cfg        Config
	display    Display
	compositor *Compositor
	stack      []*Scene
	frames     uint64

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	screenshotQueue []string
	injectQueue     []injectedPointer
	script          *Script
}

// NewDirector creates a director painting into display. Zero fields in cfg
// take their defaults.
func NewDirector(display Display, cfg Config) *Director {
	cfg = cfg.withDefaults()
	d := &Director{
		cfg:           cfg,
		display:       display,
		compositor:    NewCompositor(display, cfg),
		ScreenshotDir: "screenshots",
	}
	if cfg.Debug {
		d.SetDebugMode(true)
	}
	return d
}

func (d *Director) Config() Config          { return d.cfg }
func (d *Director) Display() Display        { return d.display }
func (d *Director) Compositor() *Compositor { return d.compositor }
func (d *Director) Frames() uint64          { return d.frames }
func (d *Director) Stack() []*Scene         { return slices.Clone(d.stack) }
func (d *Director) DisplaySize() (int, int) { return d.display.Size() }

// Scene returns the top scene, or nil if the stack is empty.
func (d *Director) Scene() *Scene {
	if len(d.stack) == 0 {
		return nil
	}
	return d.stack[len(d.stack)-1]
}

// SetDebugMode enables or disables debug mode for this director's scenes.
// When enabled, frame stats are logged, deep view nesting and crowded views
// are reported, and modifying a killed view panics. Enabling also lowers the
// package logger to debug level, which is shared by every director.
func (d *Director) SetDebugMode(enabled bool) {
	d.cfg.Debug = enabled
	d.compositor.debug = enabled
	if enabled {
		logger.SetLevel(log.DebugLevel)
	}
}

// Push suspends the current scene, keeping its static cache, and makes s
// the top scene. Panics if s is already on the stack.
func (d *Director) Push(s *Scene) {
	if slices.Contains(d.stack, s) {
		panic(fmt.Sprintf("sprig: scene %q is already on the stack", s.name))
	}
	if top := d.Scene(); top != nil {
		d.compositor.saveScene(top)
	}
	d.stack = append(d.stack, s)
	d.enter(s)
}

// Pop discards the top scene and resumes the one below it, restoring its
// static cache. Returns the popped scene, or nil if the stack was empty.
func (d *Director) Pop() *Scene {
	top := d.Scene()
	if top == nil {
		return nil
	}
	d.leave(top)
	d.stack[len(d.stack)-1] = nil
	d.stack = d.stack[:len(d.stack)-1]
	if next := d.Scene(); next != nil {
		d.enter(next)
	}
	return top
}

// Replace discards the top scene and makes s the top scene in its place.
// With an empty stack it behaves like Push.
func (d *Director) Replace(s *Scene) *Scene {
	top := d.Scene()
	if top == nil {
		d.Push(s)
		return nil
	}
	if top == s {
		return nil
	}
	if slices.Contains(d.stack, s) {
		panic(fmt.Sprintf("sprig: scene %q is already on the stack", s.name))
	}
	d.leave(top)
	d.stack[len(d.stack)-1] = s
	d.enter(s)
	return top
}

// leave detaches a discarded scene from the compositor.
func (d *Director) leave(s *Scene) {
	d.compositor.dropScene(s)
	s.stopActors()
	s.director = nil
	logger.Debug("scene left", "scene", s.name)
}

// enter makes s live. Without a saved cache every sprite restarts in the
// dynamic state.
func (d *Director) enter(s *Scene) {
	s.director = d
	if !d.compositor.enterScene(s) {
		s.resetStatic()
	}
	w, h := d.display.Size()
	s.root.SetOutputSize(Vec2{float64(w), float64(h)})
	logger.Debug("scene entered", "scene", s.name, "depth", len(d.stack))
}

// Update advances the top scene by dt seconds. An attached script steps
// first, then one queued injected pointer sample is delivered.
func (d *Director) Update(dt float64) error {
	if d.script != nil {
		d.script.step(d)
	}
	d.processInjected()
	s := d.Scene()
	if s == nil {
		return nil
	}
	if err := s.Update(dt); err != nil {
		return fmt.Errorf("update %s: %w", s.name, err)
	}
	return nil
}

// Render draws one frame of the top scene. If any sprite fails to submit
// its blit the frame is abandoned before the display is touched.
func (d *Director) Render() error {
	if s := d.Scene(); s != nil {
		if err := s.collect(); err != nil {
			d.compositor.discardFrame()
			return fmt.Errorf("render %s: %w", s.name, err)
		}
	}
	d.compositor.Draw()
	d.frames++
	d.flushScreenshots()
	return nil
}

// HandlePointer feeds a pointer sample in display coordinates to the top
// scene.
func (d *Director) HandlePointer(id int, screen Vec2, pressed bool, button MouseButton) {
	s := d.Scene()
	if s == nil || id < 0 || id >= maxPointers {
		return
	}
	s.processPointer(id, s.ScreenToScene(screen), pressed, button)
}
