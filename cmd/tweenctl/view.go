// View command opens a scene in a window.
package main

import (
	"github.com/decker502/proptween/pkg/app"
	"github.com/decker502/proptween/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

// View flag values.
var (
	viewTPS       int
	viewTimeScale float64
)

var viewCmd = &cobra.Command{
	Use:   "view <scene.yaml>",
	Short: "Open a scene in a window",
	Long: `View renders the scene and feeds the mouse or touch position to the
pointer listeners. Keys: R reload, Space pause, Up/Down time scale, F11 fullscreen.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		viewer, err := app.NewApp(app.Config{
			ScenePath:        args[0],
			Verbose:          settings.Verbose,
			TPS:              viewTPS,
			TimeScale:        viewTimeScale,
			DefaultTPS:       settings.TPS,
			DefaultTimeScale: settings.TimeScale,
			Settings:         game.OpenSettingsManager("proptween"),
		})
		if err != nil {
			return err
		}

		ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
		ebiten.SetWindowTitle("tweenctl - " + args[0])
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		return ebiten.RunGame(viewer)
	},
}

func init() {
	viewCmd.Flags().IntVar(&viewTPS, "tps", 0, "ticks per second, saved for later runs (default: scene playback, then config, then saved)")
	viewCmd.Flags().Float64Var(&viewTimeScale, "time-scale", 0, "time scale, saved for later runs (default: scene playback, then config, then saved)")
}
