package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRenderWritesPNG(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "frame.png")
	script := filepath.Join(dir, "smoke.json")
	require.NoError(t, os.WriteFile(script, []byte(`{"steps": [
		{"action": "click", "x": 10, "y": 10},
		{"action": "wait", "frames": 1}
	]}`), 0o644))

	t.Cleanup(func() { flagScript, flagOut = "", "sprig.png" })

	out := execute(t, "render", "--frames", "8", "--width", "64", "--height", "48",
		"--out", png, "--script", script)

	assert.Contains(t, out, "frame   7:")
	assert.Contains(t, out, "wrote "+png)
	assert.NotContains(t, out, "script unfinished")
	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestConfigPrintsEffectiveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprig.toml")
	require.NoError(t, os.WriteFile(path, []byte("static_age = 9\n"), 0o644))
	t.Cleanup(func() { flagConfig = "" })

	out := execute(t, "config", "--config", path)
	assert.Contains(t, out, "static_age: 9")
}
