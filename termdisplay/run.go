package termdisplay

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/sprig"
)

// RunConfig controls the terminal loop.
type RunConfig struct {
	// TPS is the number of update+render ticks per second.
	TPS int
}

// Run drives d until ctx is cancelled, the user presses Esc, q or Ctrl+C,
// or an update or render fails. The mouse is routed as pointer 0; terminal
// rows are mapped to pixel rows of the top half of each cell.
func Run(ctx context.Context, d *sprig.Director, screen tcell.Screen, cfg RunConfig) error {
	tps := cfg.TPS
	if tps <= 0 {
		tps = 30
	}
	dt := 1 / float64(tps)
	screen.EnableMouse()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if stop := handleEvent(d, screen, ev); stop {
				return nil
			}
		case <-ticker.C:
			if err := d.Update(dt); err != nil {
				return err
			}
			if err := d.Render(); err != nil {
				return err
			}
		}
	}
}

// handleEvent reports whether the loop should stop.
func handleEvent(d *sprig.Director, screen tcell.Screen, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			return ev.Rune() == 'q'
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		pos := sprig.Vec2{X: float64(x), Y: float64(y * 2)}
		buttons := ev.Buttons()
		var button sprig.MouseButton
		switch {
		case buttons&tcell.Button2 != 0:
			button = sprig.MouseButtonRight
		case buttons&tcell.Button3 != 0:
			button = sprig.MouseButtonMiddle
		}
		pressed := buttons&(tcell.Button1|tcell.Button2|tcell.Button3) != 0
		d.HandlePointer(0, pos, pressed, button)
	case *tcell.EventResize:
		screen.Sync()
	}
	return false
}
