package main

import (
	"flag"
	"log"
	"os"

	"github.com/decker502/proptween/pkg/app"
	"github.com/decker502/proptween/pkg/embedded"
	"github.com/decker502/proptween/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	sceneFlag     = flag.String("scene", "data/scenes/hover_button.yaml", "Scene file (data/ paths are read from the embedded bundle first)")
	verboseFlag   = flag.Bool("verbose", false, "Enable verbose logging (default off)")
	tpsFlag       = flag.Int("tps", 0, "Ticks per second, saved (0 = scene playback, then saved setting)")
	timeScaleFlag = flag.Float64("time-scale", 0, "Playback speed multiplier, saved (0 = scene playback, then saved setting)")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	viewer, err := app.NewApp(app.Config{
		ScenePath: *sceneFlag,
		Verbose:   *verboseFlag,
		TPS:       *tpsFlag,
		TimeScale: *timeScaleFlag,
		Settings:  game.OpenSettingsManager("proptween"),
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("查看器初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("proptween - " + *sceneFlag)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
}
