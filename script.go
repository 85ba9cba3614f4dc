package sprig

import (
	"fmt"
	"os"
)

// injectedPointer is a queued synthetic pointer sample in display
// coordinates. It is routed exactly like real input.
type injectedPointer struct {
	pos     Vec2
	pressed bool
	button  MouseButton
}

// InjectPress queues a left-button press at a display position. Queued
// samples are consumed one per Update, before the scene updates.
func (d *Director) InjectPress(p Vec2) {
	d.injectQueue = append(d.injectQueue, injectedPointer{pos: p, pressed: true, button: MouseButtonLeft})
}

// InjectMove queues a move with the left button held.
func (d *Director) InjectMove(p Vec2) {
	d.injectQueue = append(d.injectQueue, injectedPointer{pos: p, pressed: true, button: MouseButtonLeft})
}

// InjectRelease queues a left-button release.
func (d *Director) InjectRelease(p Vec2) {
	d.injectQueue = append(d.injectQueue, injectedPointer{pos: p, button: MouseButtonLeft})
}

// InjectClick queues a press and a release at p. Consumes two frames.
func (d *Director) InjectClick(p Vec2) {
	d.InjectPress(p)
	d.InjectRelease(p)
}

// InjectDrag queues a press at from, frames-2 evenly spaced moves and a
// release at to. frames is at least 2.
func (d *Director) InjectDrag(from, to Vec2, frames int) {
	frames = max(frames, 2)
	d.InjectPress(from)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		d.InjectMove(from.Lerp(to, float64(i)/float64(steps+1)))
	}
	d.InjectRelease(to)
}

// Pending returns the number of queued synthetic samples.
func (d *Director) Pending() int { return len(d.injectQueue) }

// processInjected feeds one queued sample to the top scene.
func (d *Director) processInjected() {
	if len(d.injectQueue) == 0 {
		return
	}
	ev := d.injectQueue[0]
	d.injectQueue = d.injectQueue[1:]
	d.HandlePointer(0, ev.pos, ev.pressed, ev.button)
}

// --- Scripts ---

// ScriptStep is one action of an input script. Action is one of
// "click", "drag", "wait" or "screenshot".
type ScriptStep struct {
	Action string  `yaml:"action" toml:"action"`
	Label  string  `yaml:"label" toml:"label"`
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	FromX  float64 `yaml:"from_x" toml:"from_x"`
	FromY  float64 `yaml:"from_y" toml:"from_y"`
	ToX    float64 `yaml:"to_x" toml:"to_x"`
	ToY    float64 `yaml:"to_y" toml:"to_y"`
	Frames int     `yaml:"frames" toml:"frames"`
}

type scriptDoc struct {
	Steps []ScriptStep `yaml:"steps" toml:"steps"`
}

// Script replays injected input and screenshots across frames, for
// reproducible headless runs. Attach it with Director.SetScript.
type Script struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript reads a YAML, JSON or TOML script, chosen by extension.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	sc, err := ParseScript(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}
	return sc, nil
}

// ParseScript decodes a script document. JSON is read as YAML.
func ParseScript(data []byte, format string) (*Script, error) {
	var doc scriptDoc
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range doc.Steps {
		switch st.Action {
		case "click", "drag", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: doc.Steps}, nil
}

// SetScript attaches a script. It advances at the start of every Update.
// Nil detaches.
func (d *Director) SetScript(sc *Script) { d.script = sc }

// Done reports whether every step has run and its input has been consumed.
func (sc *Script) Done() bool { return sc.done }

// step advances the script by one frame.
func (sc *Script) step(d *Director) {
	if sc.done || d.Pending() > 0 {
		return
	}
	if sc.waitCount > 0 {
		sc.waitCount--
		return
	}
	if sc.cursor >= len(sc.steps) {
		sc.done = true
		return
	}

	st := sc.steps[sc.cursor]
	sc.cursor++
	switch st.Action {
	case "screenshot":
		d.Screenshot(st.Label)
	case "click":
		d.InjectClick(Vec2{st.X, st.Y})
	case "drag":
		d.InjectDrag(Vec2{st.FromX, st.FromY}, Vec2{st.ToX, st.ToY}, st.Frames)
	case "wait":
		if st.Frames > 0 {
			sc.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
	logger.Debug("script step", "n", sc.cursor, "action", st.Action)

	if sc.cursor >= len(sc.steps) && sc.waitCount == 0 && d.Pending() == 0 {
		sc.done = true
	}
}
