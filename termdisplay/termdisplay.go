// Package termdisplay renders a sprig compositor into a terminal. Each cell
// shows two vertically stacked pixels using the upper half block glyph: the
// foreground colors the top pixel and the background the bottom one.
package termdisplay

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/sprig"
)

// halfBlock is U+2580 UPPER HALF BLOCK.
const halfBlock = '▀'

// Display paints into a CPU canvas and re-emits only the presented
// rectangles as terminal cells.
type Display struct {
	*sprig.BitmapDisplay
	screen tcell.Screen
	cells  int
}

// New creates a display covering the screen. The pixel height is twice the
// number of rows.
func New(screen tcell.Screen) *Display {
	cols, rows := screen.Size()
	return &Display{
		BitmapDisplay: sprig.NewBitmapDisplay(cols, rows*2),
		screen:        screen,
	}
}

// Screen returns the terminal screen.
func (d *Display) Screen() tcell.Screen { return d.screen }

// CellsWritten returns the number of cells emitted so far.
func (d *Display) CellsWritten() int { return d.cells }

// Present records the rects and redraws the cells they touch.
func (d *Display) Present(rects []sprig.Rect) {
	d.BitmapDisplay.Present(rects)
	canvas := d.Canvas()
	w, h := canvas.Width(), canvas.Height()
	for _, r := range rects {
		x0 := max(int(math.Floor(r.X)), 0)
		x1 := min(int(math.Ceil(r.Right())), w)
		row0 := max(int(math.Floor(r.Y/2)), 0)
		row1 := min(int(math.Ceil(r.Bottom()/2)), h/2)
		for row := row0; row < row1; row++ {
			for x := x0; x < x1; x++ {
				top := canvas.At(x, row*2)
				bottom := canvas.At(x, row*2+1)
				d.screen.SetContent(x, row, halfBlock, nil, cellStyle(top, bottom))
				d.cells++
			}
		}
	}
	d.screen.Show()
}

// cellStyle colors a half-block cell. Canvas pixels are premultiplied, which
// is the pixel composited over black.
func cellStyle(top, bottom color.RGBA) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
		Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
}
