package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/sprig"
	"github.com/phanxgames/sprig/termdisplay"
)

var (
	flagBackend string
	flagStyle   string
	flagWatch   bool
	flagTPS     int
	flagWidth   int
	flagHeight  int
	flagSeed    uint64
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the demo scene",
	Long: `Run the demo scene in a window (--backend ebiten) or in the terminal
(--backend term). Click a sprite to flip it.

A style sheet (YAML or TOML) may restyle sprites and views by name; with
--watch it is re-applied whenever the file changes.

Examples:
  sprig demo --width 320 --height 240
  sprig demo --backend term
  sprig demo --style demo.yaml --watch`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&flagBackend, "backend", "ebiten", "Display backend: ebiten or term")
	demoCmd.Flags().StringVar(&flagStyle, "style", "", "Style sheet to apply (YAML or TOML)")
	demoCmd.Flags().BoolVar(&flagWatch, "watch", false, "Re-apply the style sheet when it changes")
	demoCmd.Flags().IntVar(&flagTPS, "tps", 60, "Updates per second")
	demoCmd.Flags().IntVar(&flagWidth, "width", 320, "Display width in pixels (ebiten backend)")
	demoCmd.Flags().IntVar(&flagHeight, "height", 240, "Display height in pixels (ebiten backend)")
	demoCmd.Flags().Uint64Var(&flagSeed, "seed", 1, "RNG seed")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(flagSeed, flagSeed))

	switch flagBackend {
	case "ebiten":
		d := sprig.NewDirector(sprig.NewEbitenDisplay(flagWidth, flagHeight), cfg)
		if err := setupDemo(d, rng); err != nil {
			return err
		}
		return sprig.Run(d, sprig.RunConfig{Title: "sprig demo", WindowScale: 2, TPS: flagTPS, Input: true})

	case "term":
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		defer screen.Fini()
		// Logging to stderr would scribble over the screen.
		sprig.SetLogger(log.New(io.Discard))

		d := sprig.NewDirector(termdisplay.New(screen), cfg)
		if err := setupDemo(d, rng); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return termdisplay.Run(ctx, d, screen, termdisplay.RunConfig{TPS: flagTPS})

	default:
		return fmt.Errorf("unknown backend %q (want ebiten or term)", flagBackend)
	}
}

// setupDemo builds the demo scene, applies the style sheet, and wires the
// watcher into the scene's update callback.
func setupDemo(d *sprig.Director, rng *rand.Rand) error {
	w, h := d.DisplaySize()
	scene, err := buildDemo(w, h, rng)
	if err != nil {
		return err
	}
	d.Push(scene)

	if flagStyle == "" {
		return nil
	}
	sheet, err := sprig.LoadStyleSheet(flagStyle)
	if err != nil {
		return err
	}
	if err := applySheet(sheet, scene); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	watcher, err := sprig.WatchStyleSheet(flagStyle)
	if err != nil {
		return err
	}
	scene.SetUpdateFunc(func(float64) error {
		if sheet := watcher.Poll(); sheet != nil {
			if err := applySheet(sheet, scene); err != nil {
				sprig.Logger().Warn("style reload", "err", err)
			}
		}
		return nil
	})
	return nil
}

func applySheet(sheet *sprig.StyleSheet, scene *sprig.Scene) error {
	warnings, err := sheet.Apply(scene)
	for _, w := range warnings {
		sprig.Logger().Debug("style warning", "warning", w.String())
	}
	return err
}
