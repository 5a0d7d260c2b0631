// Package main is a terminal particle viewer: effects are simulated exactly
// as in the graphical viewer and drawn as colored density glyphs.
//
// Usage:
//
//	go run ./cmd/particles-term [--data .] [--effect campfire]
//
// Keys: Left/Right or n/p switch effect, Space spawns at center, mouse click
// spawns at the cursor, r clears, s stops emission, +/- changes speed,
// Esc/q quits.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/gonewx/particlefx/pkg/app"
	"github.com/gonewx/particlefx/pkg/ecs"
	"github.com/gonewx/particlefx/pkg/game"
	"github.com/gonewx/particlefx/pkg/systems"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	maxFrameTime  = 0.1
)

var (
	dataFlag       = flag.String("data", ".", "Directory containing data/effects")
	libraryFlag    = flag.String("library", game.DefaultLibraryPath, "Effect library path inside the data directory")
	effectFlag     = flag.String("effect", "", "Start with specific effect name")
	cellWidthFlag  = flag.Float64("cell-width", 8, "World units per terminal column")
	cellHeightFlag = flag.Float64("cell-height", 16, "World units per terminal row")
	verboseFlag    = flag.Bool("verbose", false, "Log to particles-term.log")
)

type termViewer struct {
	screen        tcell.Screen
	effectSystem  *systems.EffectSystem
	renderer      *systems.TerminalRenderSystem
	browser       *app.EffectBrowser
	timeScale     float64
	statusMessage string
}

func newTermViewer(screen tcell.Screen, rm *game.ResourceManager) *termViewer {
	em := ecs.NewEntityManager()
	v := &termViewer{
		screen:       screen,
		effectSystem: systems.NewEffectSystem(em, rm, rm),
		renderer:     systems.NewTerminalRenderSystem(screen, *cellWidthFlag, *cellHeightFlag),
		browser:      app.NewEffectBrowser(rm.EffectNames()),
		timeScale:    1,
	}
	v.effectSystem.Verbose = *verboseFlag
	return v
}

// center returns the world position of the middle of the screen.
func (v *termViewer) center() (float64, float64) {
	w, h := v.screen.Size()
	return float64(w) * v.renderer.CellWidth / 2, float64(h) * v.renderer.CellHeight / 2
}

func (v *termViewer) spawn(x, y float64) {
	name, ok := v.browser.Current()
	if !ok {
		return
	}
	if _, err := v.effectSystem.TriggerEffect(name, x, y); err != nil {
		log.Printf("Failed to create effect %s: %v", name, err)
		v.statusMessage = fmt.Sprintf("error: %v", err)
		return
	}
	v.statusMessage = "spawned " + name
}

func (v *termViewer) switchEffect(delta int) {
	v.browser.Move(delta)
	v.effectSystem.StopAll()
	v.spawn(v.center())
}

// handleEvent returns false when the viewer should quit.
func (v *termViewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRight:
			v.switchEffect(1)
		case tcell.KeyLeft:
			v.switchEffect(-1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'n':
				v.switchEffect(1)
			case 'p':
				v.switchEffect(-1)
			case ' ':
				v.spawn(v.center())
			case 'r':
				v.statusMessage = fmt.Sprintf("cleared %d effects", v.effectSystem.Clear())
			case 's':
				v.effectSystem.StopAll()
				v.statusMessage = "stopped"
			case '+', '=':
				v.timeScale = math.Min(game.MaxTimeScale, v.timeScale*1.25)
			case '-':
				v.timeScale = math.Max(game.MinTimeScale, v.timeScale/1.25)
			}
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			col, row := ev.Position()
			v.spawn((float64(col)+0.5)*v.renderer.CellWidth, (float64(row)+0.5)*v.renderer.CellHeight)
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *termViewer) draw() {
	v.renderer.Begin(0, 0)
	v.effectSystem.Draw(v.renderer)
	v.renderer.Render()

	name, _ := v.browser.Current()
	status := fmt.Sprintf(" %s (%d/%d)  effects %d  particles %d  speed %.2fx  %s ",
		name, v.browser.Index()+1, v.browser.Len(),
		v.effectSystem.ActiveEffects(), v.effectSystem.NumParticles(), v.timeScale, v.statusMessage)
	_, h := v.screen.Size()
	drawText(v.screen, 0, h-1, status, tcell.StyleDefault.Reverse(true))
	v.screen.Show()
}

// drawText writes s starting at column x and returns the column after it.
// Columns advance by display width, so wide runes take two cells.
func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
	return x
}

func (v *termViewer) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !v.handleEvent(ev) {
				return
			}

		case now := <-ticker.C:
			dt := math.Min(now.Sub(last).Seconds(), maxFrameTime)
			last = now
			v.effectSystem.Update(dt * v.timeScale)
			v.draw()
		}
	}
}

func main() {
	flag.Parse()

	// 终端被 tcell 接管，日志只能写入文件
	log.SetOutput(io.Discard)
	if *verboseFlag {
		f, err := os.Create("particles-term.log")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	rm := game.NewResourceManager(os.DirFS(*dataFlag))
	rm.Verbose = *verboseFlag
	if err := rm.LoadEffectLibrary(*libraryFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load effect library: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse()

	viewer := newTermViewer(screen, rm)
	if *effectFlag != "" && !viewer.browser.Select(*effectFlag) {
		log.Printf("Warning: effect %q not found", *effectFlag)
	}
	viewer.spawn(viewer.center())
	viewer.run()
}
