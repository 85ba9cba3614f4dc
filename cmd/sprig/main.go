// sprig runs the sprig demo scene on a window, a terminal, or headlessly.
//
// Usage:
//
//	sprig demo                  - Run the demo scene in a window
//	sprig demo --backend term   - Run the demo scene in the terminal
//	sprig render --out demo.png - Render frames headlessly and save a PNG
//	sprig config                - Print the effective configuration
//
// Global flags:
//
//	--config <path>  - YAML or TOML config file
//	--debug          - Log per-frame compositor stats
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/sprig"
)

var (
	// Global flags
	flagConfig string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sprig",
	Short: "Sprig - dirty-rectangle sprite compositor demos",
	Long: `Sprig renders a scene graph of views and sprites, repainting only the
rectangles that changed since the previous frame.

Examples:
  sprig demo
  sprig demo --backend term --style demo.yaml --watch
  sprig render --frames 60 --out frame.png
  sprig config --config sprig.toml`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML or TOML config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log per-frame compositor stats")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads --config (if any) and applies --debug.
func loadConfig() (sprig.Config, error) {
	cfg := sprig.DefaultConfig()
	if flagConfig != "" {
		var err error
		if cfg, err = sprig.LoadConfig(flagConfig); err != nil {
			return cfg, err
		}
	}
	if flagDebug {
		cfg.Debug = true
	}
	return cfg, nil
}
