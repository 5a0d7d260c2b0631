package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/particlefx/pkg/app"
	"github.com/gonewx/particlefx/pkg/embedded"
	"github.com/gonewx/particlefx/pkg/game"
)

var (
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging")
	effectFlag   = flag.String("effect", "", "Start with specific effect name")
	autoPlayFlag = flag.Bool("auto-play", false, "Auto cycle through effects every 3 seconds")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源（效果库和效果定义打包在二进制中）
	embedded.Init(dataFS)

	gdataManager, err := gdata.Open(gdata.Config{AppName: "particlefx"})
	if err != nil {
		log.Printf("Warning: settings storage unavailable: %v", err)
		gdataManager = nil
	}
	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		log.Fatalf("Failed to initialize settings: %v", err)
	}

	viewer, err := app.NewApp(app.Config{
		Verbose:  *verboseFlag,
		Effect:   *effectFlag,
		AutoPlay: *autoPlayFlag,
		Data:     embedded.FS(),
		Settings: settings,
	})
	if err != nil {
		log.Fatalf("Failed to initialize viewer: %v", err)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("粒子效果查看器")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(settings.GetSettings().Fullscreen)

	if err := ebiten.RunGame(viewer); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}

	if err := viewer.Close(); err != nil {
		log.Printf("Warning: %v", err)
	}
}
