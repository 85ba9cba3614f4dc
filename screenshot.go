package sprig

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Snapshotter is implemented by displays that can read back what has been
// presented.
type Snapshotter interface {
	Snapshot() (*image.NRGBA, error)
}

// Screenshot queues a labeled screenshot to be captured at the end of the
// next Render. The PNG is written to ScreenshotDir with a timestamped
// filename. Displays that cannot be read back are skipped with a warning.
func (d *Director) Screenshot(label string) {
	d.screenshotQueue = append(d.screenshotQueue, label)
}

// flushScreenshots captures the presented frame for every queued label.
func (d *Director) flushScreenshots() {
	if len(d.screenshotQueue) == 0 {
		return
	}
	defer func() { d.screenshotQueue = d.screenshotQueue[:0] }()

	snap, ok := d.display.(Snapshotter)
	if !ok {
		logger.Warn("screenshot: display cannot be read back", "display", fmt.Sprintf("%T", d.display))
		return
	}
	img, err := snap.Snapshot()
	if err != nil {
		logger.Warn("screenshot", "err", err)
		return
	}
	if err := os.MkdirAll(d.ScreenshotDir, 0o755); err != nil {
		logger.Warn("screenshot: mkdir", "dir", d.ScreenshotDir, "err", err)
		return
	}

	stamp := time.Now().Format("20060102_150405")
	for _, label := range d.screenshotQueue {
		path := filepath.Join(d.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			logger.Warn("screenshot", "err", err)
		}
	}
}

// SavePNG writes the display's current contents to path.
func SavePNG(d Display, path string) error {
	snap, ok := d.(Snapshotter)
	if !ok {
		return fmt.Errorf("save %s: display %T cannot be read back", path, d)
	}
	img, err := snap.Snapshot()
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return writePNG(path, img)
}

// unpremultiply converts premultiplied RGBA bytes to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
