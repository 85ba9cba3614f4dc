package sprig

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	s := NewScene("tween", V(100, 100))
	sp := NewSprite(s.Root(), "pos", NewSolidBitmap(1, 1, testRed))
	sp.SetPos(V(10, 20))

	g := TweenPosition(sp, V(100, 200), 1.0, ease.Linear)

	// Exact halves avoid float32 accumulation drift.
	g.Update(0.5)
	if math.Abs(sp.X()-55) > 0.5 {
		t.Errorf("midway X = %f, want ~55", sp.X())
	}
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if sp.Pos() != V(100, 200) {
		t.Errorf("Pos = %v, want (100, 200)", sp.Pos())
	}
}

func TestTweenScaleReachesTarget(t *testing.T) {
	s := NewScene("tween", V(100, 100))
	sp := NewSprite(s.Root(), "scale", NewSolidBitmap(2, 2, testRed))

	g := TweenScale(sp, V(2, 3), 0.5, ease.Linear)
	g.Update(0.25)
	g.Update(0.25)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(sp.Scale().X-2) > 0.01 || math.Abs(sp.Scale().Y-3) > 0.01 {
		t.Errorf("Scale = %v, want ~(2, 3)", sp.Scale())
	}
	if sp.Size() != V(4, 6) {
		t.Errorf("Size = %v, want (4, 6)", sp.Size())
	}
}

func TestTweenAngle(t *testing.T) {
	s := NewScene("tween", V(100, 100))
	sp := NewSprite(s.Root(), "spin", NewSolidBitmap(2, 2, testRed))

	g := TweenAngle(sp, math.Pi, 1.0, ease.Linear)
	g.Update(1)

	if math.Abs(sp.Angle()-math.Pi) > 1e-6 {
		t.Errorf("Angle = %f, want pi", sp.Angle())
	}
}

func TestTweenKeepsSpriteDynamic(t *testing.T) {
	d, _, s := newTestStage(t, 64, 64)
	sp := NewSprite(s.Root(), "slider", NewSolidBitmap(4, 4, testRed))
	s.Animate(TweenPosition(sp, V(40, 0), 1.0, ease.Linear))

	for i := 0; i < 10; i++ {
		if err := d.Update(0.05); err != nil {
			t.Fatal(err)
		}
		renderN(t, d, 1)
		if sp.IsStatic() {
			t.Fatalf("frame %d: animated sprite was promoted", i)
		}
	}
}

func TestTweenStopsOnKilledSprite(t *testing.T) {
	s := NewScene("tween", V(100, 100))
	sp := NewSprite(s.Root(), "doomed", NewSolidBitmap(1, 1, testRed))
	g := TweenPosition(sp, V(50, 50), 1.0, ease.Linear)
	g.Update(0.25)

	sp.Kill()
	g.Update(0.25)

	if !g.Done {
		t.Error("tween on a killed sprite should be done")
	}
}

func TestTweenView(t *testing.T) {
	s := NewScene("tween", V(100, 100))
	v := NewView(s.Root(), "panel")
	g := TweenView(v, V(30, -10), 0.5, ease.Linear)
	g.Update(0.5)
	if !g.Done || v.Pos() != V(30, -10) {
		t.Errorf("Pos = %v done=%v, want (30, -10) and done", v.Pos(), g.Done)
	}

	g = TweenView(v, V(0, 0), 1, ease.Linear)
	v.Kill()
	g.Update(0.5)
	if !g.Done {
		t.Error("tween on a killed view should be done")
	}
}

func TestTweenUpdateAfterDoneIsNoop(t *testing.T) {
	s := NewScene("tween", V(100, 100))
	sp := NewSprite(s.Root(), "settled", NewSolidBitmap(1, 1, testRed))
	g := TweenPosition(sp, V(5, 5), 0.1, ease.Linear)
	g.Update(1)
	sp.SetPos(V(0, 0))
	g.Update(1)
	if sp.Pos() != V(0, 0) {
		t.Errorf("finished tween moved the sprite to %v", sp.Pos())
	}
}
