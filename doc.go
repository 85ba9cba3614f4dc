// Package sprig is a retained-mode 2D sprite compositor with dirty-rectangle
// redraw.
//
// Sprig keeps a tree of views and sprites per scene and repaints only what
// changed between frames. Sprites that stay unchanged for a few frames are
// promoted to cached static blits, which are left on screen untouched until
// something beneath or beside them is invalidated. Scaled images are
// memoized so that a scaled sprite is resized once, not once per frame.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens an [Ebitengine]
// window and drives a [Director]:
//
//	d := sprig.NewDirector(sprig.NewEbitenDisplay(320, 240), sprig.DefaultConfig())
//	scene := sprig.NewScene("main", sprig.V(320, 240))
//	hero := sprig.NewSprite(scene.Root(), "hero", img)
//	hero.SetPos(sprig.V(100, 50))
//	d.Push(scene)
//	sprig.Run(d, sprig.RunConfig{Title: "My Game", WindowScale: 2})
//
// Any [Display] can be painted: [BitmapDisplay] renders headlessly into a
// CPU canvas and the termdisplay package renders into a terminal.
//
// # Views
//
// A [View] maps its children from a local space of Size into OutputSize in
// its parent, optionally cropping them. Layers are declared per view with
// [View.SetLayers] and referenced by name from children, with ":above" and
// ":below" modifiers.
//
// # Scenes
//
// The [Director] holds a stack of scenes. [Director.Push] keeps the static
// cache of the scene it covers so that [Director.Pop] restores it without
// repainting from scratch. Scenes run actors ([Scene.Start]), tweens
// ([Scene.Animate], via [gween]) and a [Camera].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package sprig
