package sprig

import "fmt"

// debug reports whether the scene's director runs in debug mode. A scene
// that was never pushed is not checked.
func (s *Scene) debug() bool {
	return s.director != nil && s.director.cfg.Debug
}

// debugLog reports per-frame compositor stats.
func (c *Compositor) debugLog(stats FrameStats) {
	if !c.debug {
		return
	}
	logger.Debug("frame",
		"dynamic", stats.Dynamic,
		"static", stats.Static,
		"staticDrawn", stats.StaticDrawn,
		"culled", stats.Culled,
		"erased", stats.Erased,
		"presented", stats.Presented,
		"scaleCache", c.scales.Len(),
		"took", stats.Duration)
}

// debugCheckKilled panics with a descriptive message when a killed view is
// used. Only called in debug mode.
func debugCheckKilled(v *View, op string) {
	if v.dead {
		panic(fmt.Sprintf("sprig debug: %s on killed view %q", op, v.name))
	}
}

// debugCheckDepth warns if view nesting exceeds the threshold.
const debugMaxViewDepth = 32

func debugCheckDepth(v *View) {
	depth := 0
	for p := v; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxViewDepth {
		logger.Warn("view nesting too deep", "view", v.name, "depth", depth, "max", debugMaxViewDepth)
	}
}

// debugCheckChildCount warns if a view holds more than 1000 sprites.
const debugMaxChildCount = 1000

func debugCheckChildCount(v *View) {
	if len(v.sprites) > debugMaxChildCount {
		logger.Warn("view has too many sprites", "view", v.name, "sprites", len(v.sprites), "max", debugMaxChildCount)
	}
}
