package main

import (
	"math"
	"math/rand/v2"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/sprig"
)

var (
	colorFloor  = sprig.Color{R: 0.2, G: 0.22, B: 0.28, A: 1}
	colorBox    = sprig.Color{R: 0.31, G: 0.71, B: 1, A: 1}
	colorSpin   = sprig.Color{R: 1, G: 0.6, B: 0.2, A: 1}
	colorOrbit  = sprig.Color{R: 0.5, G: 1, B: 0.5, A: 0.8}
	colorArena  = sprig.Color{R: 0.1, G: 0.1, B: 0.12, A: 1}
	colorBorder = sprig.Color{R: 0.9, G: 0.9, B: 0.9, A: 1}
)

// gradient returns a w×h vertical gradient.
func gradient(w, h int, top, bottom sprig.Color) *sprig.Bitmap {
	b := sprig.NewBitmap(w, h)
	for y := 0; y < h; y++ {
		t := float64(y) / float64(max(h-1, 1))
		c := sprig.Color{
			R: top.R + (bottom.R-top.R)*t,
			G: top.G + (bottom.G-top.G)*t,
			B: top.B + (bottom.B-top.B)*t,
			A: 1,
		}
		b.FillRect(sprig.R(0, float64(y), float64(w), 1), c)
	}
	return b
}

// buildDemo creates the demo scene: a floor of static tiles, boxes that
// wander between random points, a spinning scaled sprite, and a cropped
// arena view whose contents orbit its center.
func buildDemo(w, h int, rng *rand.Rand) (*sprig.Scene, error) {
	size := sprig.V(float64(w), float64(h))
	scene := sprig.NewScene("demo", size)
	scene.SetBackground(gradient(w, h,
		sprig.Color{R: 0.08, G: 0.08, B: 0.12, A: 1},
		sprig.Color{R: 0.16, G: 0.12, B: 0.2, A: 1}))

	root := scene.Root()
	if err := root.SetLayers("floor", "actors", "hud"); err != nil {
		return nil, err
	}

	tile := max(w/10, 4)
	floor := sprig.NewSolidBitmap(tile-1, tile-1, colorFloor)
	for y := h / 2; y < h; y += tile {
		for x := 0; x < w; x += tile {
			t := sprig.NewSprite(root, "tile", floor)
			t.SetPos(sprig.V(float64(x), float64(y)))
			t.SetLayer("floor")
		}
	}

	box := sprig.NewSolidBitmap(max(tile/2, 2), max(tile/2, 2), colorBox)
	for i := range 4 {
		s := sprig.NewSprite(root, "box", box)
		s.SetPos(sprig.V(rng.Float64()*size.X, rng.Float64()*size.Y))
		s.SetAnchor(sprig.AnchorCenter)
		s.SetLayer("actors")
		scene.Start("wander", func(ctx *sprig.ActorContext) {
			ctx.WaitFor(float64(i) * 0.5)
			for {
				to := sprig.V(rng.Float64()*size.X, rng.Float64()*size.Y)
				g := scene.Animate(sprig.TweenPosition(s, to, 1.5, ease.InOutQuad))
				ctx.WaitUntil(func() bool { return g.Done })
				// Rest long enough to settle into the static cache.
				ctx.WaitFor(0.5)
			}
		})
	}

	spin := sprig.NewSprite(root, "spinner", sprig.NewSolidBitmap(max(tile/3, 2), max(tile/3, 2), colorSpin))
	spin.SetPos(sprig.V(size.X/4, size.Y/4))
	spin.SetAnchor(sprig.AnchorCenter)
	spin.SetScale(sprig.V(2, 2))
	spin.SetLayer("actors:above")
	scene.Start("spin", func(ctx *sprig.ActorContext) {
		for {
			scene.Animate(sprig.TweenAngle(spin, spin.Angle()+math.Pi/2, 0.5, ease.OutCubic))
			ctx.WaitFor(1)
		}
	})

	arena := sprig.NewView(root, "arena")
	arena.SetLayer("hud")
	arenaSize := sprig.V(size.X/3, size.Y/3)
	arena.SetSize(arenaSize)
	arena.SetPos(sprig.V(size.X-arenaSize.X-2, 2))
	arena.SetCrop(true)
	if err := arena.SetLayers("back", "front"); err != nil {
		return nil, err
	}
	frame := sprig.NewSprite(arena, "arena-frame", sprig.NewSolidBitmap(int(arenaSize.X), int(arenaSize.Y), colorBorder))
	frame.SetLayer("back:below")
	inner := sprig.NewSprite(arena, "arena-floor", sprig.NewSolidBitmap(int(arenaSize.X)-2, int(arenaSize.Y)-2, colorArena))
	inner.SetPos(sprig.V(1, 1))
	inner.SetLayer("back")

	orbit := sprig.NewSprite(arena, "orbiter", sprig.NewSolidBitmap(max(tile/2, 2), max(tile/2, 2), colorOrbit))
	orbit.SetAnchor(sprig.AnchorCenter)
	orbit.SetLayer("front")
	center := arenaSize.Scale(0.5)
	radius := arenaSize.X / 2
	scene.Start("orbit", func(ctx *sprig.ActorContext) {
		angle := 0.0
		for {
			angle += ctx.Wait() * math.Pi
			orbit.SetPos(center.Add(sprig.V(math.Cos(angle), math.Sin(angle)).Scale(radius)))
		}
	})

	scene.OnClick(func(pc sprig.PointerContext) {
		if pc.Sprite != nil {
			pc.Sprite.SetFlipX(!pc.Sprite.FlipX())
		}
	})
	return scene, nil
}
