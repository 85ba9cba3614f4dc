package sprig

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "hello"},
		{"hello world", "hello_world"},
		{"a/b\\c:d", "a_b_c_d"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"valid-name.v2", "valid-name.v2"},
		{"café", "caf_"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.input)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{64, 0, 32, 128, 10, 20, 30, 255}, 2, 1)
	c := img.NRGBAAt(0, 0)
	if c.R != 127 || c.B != 63 || c.A != 128 {
		t.Errorf("half-alpha pixel = %v, want R=127 B=63 A=128", c)
	}
	if o := img.NRGBAAt(1, 0); o.R != 10 || o.A != 255 {
		t.Errorf("opaque pixel = %v, want unchanged", o)
	}
}

func TestSavePNG(t *testing.T) {
	d, display, s := newTestStage(t, 16, 8)
	NewSprite(s.Root(), "mark", NewSolidBitmap(4, 4, testRed))
	renderN(t, d, 1)

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := SavePNG(display, path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("bounds = %v, want 16x8", b)
	}
	r, g, _, a := img.At(1, 1).RGBA()
	if r != 0xffff || g != 0 || a != 0xffff {
		t.Errorf("pixel (1,1) = %v, want opaque red", img.At(1, 1))
	}
}

func TestSavePNGUnreadableDisplay(t *testing.T) {
	var d Display = struct{ Display }{NewBitmapDisplay(2, 2)}
	if err := SavePNG(d, filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Error("SavePNG succeeded on a display without Snapshot")
	}
}

func TestDirectorScreenshot(t *testing.T) {
	d, _, _ := newTestStage(t, 8, 8)
	d.ScreenshotDir = filepath.Join(t.TempDir(), "shots")

	d.Screenshot("title screen")
	d.Screenshot("")
	renderN(t, d, 1)

	entries, err := os.ReadDir(d.ScreenshotDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("wrote %d files, want 2", len(entries))
	}
	names := entries[0].Name() + " " + entries[1].Name()
	for _, want := range []string{"_title_screen.png", "_unlabeled.png"} {
		if !strings.Contains(names, want) {
			t.Errorf("files %q missing %q", names, want)
		}
	}

	renderN(t, d, 1)
	entries, _ = os.ReadDir(d.ScreenshotDir)
	if len(entries) != 2 {
		t.Errorf("queue not drained: %d files after a second frame", len(entries))
	}
}
