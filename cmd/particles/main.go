// Package main provides the particle effect viewer reading effects from disk,
// for editing effect definitions without rebuilding.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--data <dir>          Directory containing data/effects (default ".")
//	--library <path>      Effect library inside the data dir (default data/effects/library.yaml)
//	--filter <keyword>    Initial filter by name (e.g., --filter=fire)
//	--effect <name>       Start with specific effect (e.g., --effect=campfire)
//	--auto-play           Automatically cycle through effects every 3 seconds
//	--verbose             Enable verbose logging
//
// Controls:
//
//	Mouse Click       - Spawn effect at cursor position
//	Right Drag        - Move the attractor of effects with a user-defined attractor
//	Left/Right Arrow  - Switch to previous/next effect
//	Page Up/Down      - Jump 10 effects forward/backward
//	Home/End          - Jump to first/last effect
//	0-9               - Quick jump to effect by index (0=10th, 1=1st, etc.)
//	Space             - Spawn effect at screen center
//	P / .             - Toggle pause / step one frame while paused
//	F or /            - Enter search mode
//	R                 - Clear all effects
//	S                 - Stop emission of all effects
//	[ / ]             - Decrease/increase angle offset by 15°
//	\                 - Reset angle offset to 0°
//	- / =             - Slow down / speed up simulation
//	H                 - Toggle HUD
//	F11               - Toggle fullscreen
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/particlefx/pkg/app"
	"github.com/gonewx/particlefx/pkg/game"
)

var (
	dataFlag     = flag.String("data", ".", "Directory containing data/effects")
	libraryFlag  = flag.String("library", game.DefaultLibraryPath, "Effect library path inside the data directory")
	filterFlag   = flag.String("filter", "", "Initial filter by name keyword")
	effectFlag   = flag.String("effect", "", "Start with specific effect name")
	autoPlayFlag = flag.Bool("auto-play", false, "Auto cycle through effects every 3 seconds")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	log.Println("=== Particle Effect Viewer ===")
	log.Printf("Data directory: %q", *dataFlag)
	log.Printf("Initial filter: %q", *filterFlag)
	log.Printf("Start effect: %q", *effectFlag)

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
		Verbose:     *verboseFlag,
		Effect:      *effectFlag,
		Filter:      *filterFlag,
		AutoPlay:    *autoPlayFlag,
		Data:        os.DirFS(*dataFlag),
		LibraryPath: *libraryFlag,
		Settings:    settings,
	})
	if err != nil {
		log.Fatal("Failed to initialize viewer: ", err)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Particle Effect Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(settings.GetSettings().Fullscreen)

	if err := ebiten.RunGame(viewer); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}

	if err := viewer.Close(); err != nil {
		log.Printf("Warning: %v", err)
	}
	log.Println("Particle viewer closed")
}
