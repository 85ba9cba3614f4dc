package sprig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScriptJSON(t *testing.T) {
	sc, err := ParseScript([]byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "drag", "from_x": 1, "from_y": 2, "to_x": 3, "to_y": 4, "frames": 5}
		]
	}`), "yaml")
	require.NoError(t, err)
	require.Len(t, sc.steps, 4)
	assert.Equal(t, ScriptStep{Action: "screenshot", Label: "initial"}, sc.steps[0])
	assert.Equal(t, ScriptStep{Action: "click", X: 100, Y: 200}, sc.steps[1])
	assert.Equal(t, 3, sc.steps[2].Frames)
	assert.Equal(t, ScriptStep{Action: "drag", FromX: 1, FromY: 2, ToX: 3, ToY: 4, Frames: 5}, sc.steps[3])
}

func TestParseScriptTOML(t *testing.T) {
	sc, err := ParseScript([]byte(`
[[steps]]
action = "click"
x = 5.0
y = 6.0
`), "toml")
	require.NoError(t, err)
	assert.Equal(t, []ScriptStep{{Action: "click", X: 5, Y: 6}}, sc.steps)
}

func TestParseScriptErrors(t *testing.T) {
	tests := map[string]string{
		"invalid": `steps: [`,
		"empty":   `{"steps": []}`,
		"action":  `{"steps": [{"action": "jump"}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScript([]byte(doc), "yaml")
			assert.Error(t, err)
		})
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smoke.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"steps": [{"action": "wait", "frames": 2}]}`), 0o644))
	sc, err := LoadScript(path)
	require.NoError(t, err)
	assert.Len(t, sc.steps, 1)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScriptRun(t *testing.T) {
	d, s, _ := newInputStage(t)
	d.ScreenshotDir = t.TempDir()
	clicks := 0
	s.OnClick(func(PointerContext) { clicks++ })

	sc, err := ParseScript([]byte(`
steps:
  - {action: click, x: 15, y: 15}
  - {action: wait, frames: 2}
  - {action: screenshot, label: done}
`), "yaml")
	require.NoError(t, err)
	d.SetScript(sc)

	require.NoError(t, d.Update(0))
	assert.Equal(t, 1, d.Pending(), "press delivered, release queued")
	require.NoError(t, d.Update(0))
	assert.Equal(t, 1, clicks)

	for range 2 {
		require.NoError(t, d.Update(0))
		assert.False(t, sc.Done())
	}
	require.NoError(t, d.Update(0))
	assert.True(t, sc.Done())
	assert.Equal(t, []string{"done"}, d.screenshotQueue)

	require.NoError(t, d.Update(0))
	assert.True(t, sc.Done())
}

func TestInjectDrag(t *testing.T) {
	d, s, btn := newInputStage(t)
	var moves []Vec2
	starts, ends := 0, 0
	s.OnDragStart(func(DragContext) { starts++ })
	s.OnDrag(func(ctx DragContext) { moves = append(moves, ctx.Pos) })
	s.OnDragEnd(func(ctx DragContext) {
		ends++
		assert.Same(t, btn, ctx.Sprite)
	})

	d.InjectDrag(V(15, 15), V(45, 15), 3)
	require.Equal(t, 3, d.Pending())
	for d.Pending() > 0 {
		require.NoError(t, d.Update(0))
	}

	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
	assert.Equal(t, []Vec2{V(30, 15)}, moves)
}

func TestInjectDragMinFrames(t *testing.T) {
	d, _, _ := newInputStage(t)
	d.InjectDrag(V(0, 0), V(10, 10), 0)
	assert.Equal(t, 2, d.Pending())
}

func TestInjectWithoutScene(t *testing.T) {
	d := NewDirector(NewBitmapDisplay(10, 10), DefaultConfig())
	d.InjectClick(V(1, 1))
	require.NoError(t, d.Update(0))
	assert.Equal(t, 1, d.Pending(), "samples drain even with no scene")
}
