// Package app 提供粒子效果查看器的核心包装器
//
// 该包将查看器初始化逻辑从 main 包提取出来，使其可以被根目录的嵌入版本
// (main.go) 和读取磁盘数据的 cmd/particles 共用。
package app

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gonewx/particlefx/pkg/ecs"
	"github.com/gonewx/particlefx/pkg/entities"
	"github.com/gonewx/particlefx/pkg/game"
	"github.com/gonewx/particlefx/pkg/systems"
)

const (
	ScreenWidth  = 1024
	ScreenHeight = 768

	autoPlayInterval = 3 * time.Second
	angleStep        = 15.0 // 度
	timeScaleStep    = 1.25
	hudFontSize      = 14
	hudLineHeight    = 20
)

// Config 定义查看器启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Effect 指定启动时选中的效果，为空则使用上次查看的效果
	Effect string
	// Filter 初始名称过滤
	Filter string
	// AutoPlay 每 3 秒自动切换到下一个效果
	AutoPlay bool

	// Data 是包含 data/effects 的文件系统
	Data fs.FS
	// LibraryPath 效果库路径，为空时使用 game.DefaultLibraryPath
	LibraryPath string

	// Settings 持久化的查看器设置，可为 nil
	Settings *game.SettingsManager
}

// App 是查看器的核心包装器，实现 ebiten.Game 接口
type App struct {
	entityManager   *ecs.EntityManager
	effectSystem    *systems.EffectSystem
	renderSystem    *systems.RenderSystem
	resourceManager *game.ResourceManager
	settings        *game.SettingsManager

	browser *EffectBrowser

	// Search mode
	searchMode bool

	// Auto-play mode
	autoPlay      bool
	lastSpawnTime time.Time

	// Pause mode (冻结模拟，'.' 单步)
	paused bool

	// Angle offset in degrees, applied to newly spawned effects
	angleOffset float64

	statusMessage string
	hudFace       *text.GoTextFace

	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.Data == nil {
		return nil, fmt.Errorf("data filesystem is required")
	}

	settings := cfg.Settings
	if settings == nil {
		var err error
		if settings, err = game.NewSettingsManager(nil); err != nil {
			return nil, fmt.Errorf("设置初始化失败: %w", err)
		}
	}

	// 创建资源管理器
	resourceManager := game.NewResourceManager(cfg.Data)
	resourceManager.Verbose = cfg.Verbose

	libraryPath := cfg.LibraryPath
	if libraryPath == "" {
		libraryPath = game.DefaultLibraryPath
	}
	if err := resourceManager.LoadEffectLibrary(libraryPath); err != nil {
		return nil, fmt.Errorf("效果库加载失败: %w", err)
	}

	em := ecs.NewEntityManager()
	effectSystem := systems.NewEffectSystem(em, resourceManager, resourceManager)
	effectSystem.Verbose = cfg.Verbose

	hudFace, err := newHUDFace()
	if err != nil {
		return nil, fmt.Errorf("failed to load HUD font: %w", err)
	}

	browser := NewEffectBrowser(resourceManager.EffectNames())
	if cfg.Filter != "" && browser.SetFilter(cfg.Filter) == 0 {
		log.Printf("[App] Warning: No effects match initial filter %q, showing all", cfg.Filter)
		browser.SetFilter("")
	}

	startEffect := cfg.Effect
	if startEffect == "" {
		startEffect = settings.GetSettings().LastEffect
	}
	if startEffect != "" && !browser.Select(startEffect) {
		log.Printf("[App] Warning: effect %q not found, starting with the first one", startEffect)
	}

	a := &App{
		entityManager:   em,
		effectSystem:    effectSystem,
		renderSystem:    systems.NewRenderSystem(resourceManager),
		resourceManager: resourceManager,
		settings:        settings,
		browser:         browser,
		autoPlay:        cfg.AutoPlay,
		lastSpawnTime:   time.Now(),
		hudFace:         hudFace,
		verbose:         cfg.Verbose,
	}

	log.Printf("[App] Particle viewer initialized: %d total effects, %d after filter", browser.Total(), browser.Len())

	// 启动时自动在屏幕中心生成当前选择的效果，避免空白屏幕
	a.selectionChanged()

	return a, nil
}

func newHUDFace() (*text.GoTextFace, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	return &text.GoTextFace{Source: src, Size: hudFontSize}, nil
}

// Update 更新查看器逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", ScreenWidth, ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	if a.searchMode {
		a.updateSearchMode()
	} else if err := a.updateNormalMode(); err != nil {
		return err
	}

	deltaTime := 1.0 / 60.0 * a.settings.GetSettings().TimeScale
	if !a.paused {
		a.effectSystem.Update(deltaTime)
	} else if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		a.effectSystem.Update(deltaTime)
	}
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	if !fullscreen {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
	}
	a.settings.SetFullscreen(fullscreen)
}

// updateSearchMode handles input when in search mode
func (a *App) updateSearchMode() {
	// Exit search mode
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.searchMode = false
		a.statusMessage = fmt.Sprintf("Search: %q (%d results)", a.browser.Query(), a.browser.Len())
		log.Printf("[App] Exited search mode. Query: %q, Results: %d", a.browser.Query(), a.browser.Len())
		if a.browser.Len() > 0 {
			a.selectionChanged()
		}
		return
	}

	query := a.browser.Query()

	// Backspace to delete character
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if len(query) > 0 {
			a.browser.SetFilter(query[:len(query)-1])
		}
		return
	}

	// Capture text input
	runes := ebiten.AppendInputChars(nil)
	if len(runes) == 0 {
		return
	}
	for _, r := range runes {
		// Only accept alphanumeric and some special characters
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			query += string(r)
		}
	}
	n := a.browser.SetFilter(query)
	log.Printf("[App] Search query: %q, Results: %d", query, n)
}

// updateNormalMode handles input when in normal mode
func (a *App) updateNormalMode() error {
	// Quit
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	// Enter search mode
	if inpututil.IsKeyJustPressed(ebiten.KeyF) || inpututil.IsKeyJustPressed(ebiten.KeySlash) {
		a.searchMode = true
		a.statusMessage = "Search mode: Type to filter effects..."
		log.Println("[App] Entered search mode")
		return nil
	}

	// Toggle pause (冻结模拟，'.' 单步前进)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
		if a.paused {
			a.statusMessage = "PAUSED - P to resume, . to step"
		} else {
			a.statusMessage = "Resumed"
		}
		return nil
	}

	// Quick jump with number keys (0-9)
	for i := 0; i <= 9; i++ {
		key := ebiten.Key(int(ebiten.Key0) + i)
		if inpututil.IsKeyJustPressed(key) {
			targetIndex := i
			if i == 0 {
				targetIndex = 10 // 0 key jumps to 10th effect
			}
			if a.browser.SelectIndex(targetIndex - 1) {
				a.selectionChanged()
			}
			return nil
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		a.browser.Move(-1)
		a.selectionChanged()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		a.browser.Move(1)
		a.selectionChanged()
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		a.browser.Move(-10)
		a.selectionChanged()
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		a.browser.Move(10)
		a.selectionChanged()
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		a.browser.First()
		a.selectionChanged()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		a.browser.Last()
		a.selectionChanged()
	}

	// Clear effects
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		n := a.effectSystem.Clear()
		a.statusMessage = fmt.Sprintf("Cleared %d effects", n)
	}

	// Stop emission, live particles play out
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.effectSystem.StopAll()
		a.statusMessage = "Stopped all emitters"
	}

	// Angle offset controls
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		a.angleOffset -= angleStep
		a.statusMessage = fmt.Sprintf("Angle offset: %.0f°", a.angleOffset)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		a.angleOffset += angleStep
		a.statusMessage = fmt.Sprintf("Angle offset: %.0f°", a.angleOffset)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackslash) {
		a.angleOffset = 0
		a.statusMessage = "Angle offset reset to 0°"
	}

	// Time scale
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		a.settings.SetTimeScale(a.settings.GetSettings().TimeScale * timeScaleStep)
		a.statusMessage = fmt.Sprintf("Time scale: %.2fx", a.settings.GetSettings().TimeScale)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		a.settings.SetTimeScale(a.settings.GetSettings().TimeScale / timeScaleStep)
		a.statusMessage = fmt.Sprintf("Time scale: %.2fx", a.settings.GetSettings().TimeScale)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.settings.SetShowHUD(!a.settings.GetSettings().ShowHUD)
	}

	// Spawn at center
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.spawnCurrentEffect(ScreenWidth/2, ScreenHeight/2, 0)
	}

	// Spawn at mouse click
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		a.spawnCurrentEffect(float64(x), float64(y), 0)
	}

	// 按住右键：吸引点跟随鼠标
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		x, y := ebiten.CursorPosition()
		a.effectSystem.SetAttractor(float64(x), float64(y))
	} else if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		a.effectSystem.ClearAttractor()
	}

	// Auto-play mode
	if a.autoPlay && !a.paused && time.Since(a.lastSpawnTime) > autoPlayInterval {
		a.browser.Move(1)
		a.selectionChanged()
	}

	return nil
}

// selectionChanged stops the previous effects and spawns the newly selected
// one at the screen center.
func (a *App) selectionChanged() {
	name, ok := a.browser.Current()
	if !ok {
		a.statusMessage = "No effects available"
		return
	}
	a.settings.SetLastEffect(name)
	log.Printf("[App] Current effect: %s (%d/%d)", name, a.browser.Index()+1, a.browser.Len())

	a.effectSystem.StopAll()
	var stopAfter float64
	if a.autoPlay {
		stopAfter = autoPlayInterval.Seconds()
	}
	a.spawnCurrentEffect(ScreenWidth/2, ScreenHeight/2, stopAfter)
}

// spawnCurrentEffect spawns the currently selected effect at the given position
func (a *App) spawnCurrentEffect(x, y, stopAfter float64) {
	name, ok := a.browser.Current()
	if !ok {
		a.statusMessage = "No effects to spawn"
		return
	}

	a.lastSpawnTime = time.Now()
	_, err := a.effectSystem.TriggerEffectWith(name, x, y, entities.EffectOptions{
		StopAfter:   stopAfter,
		Orientation: a.angleOffset * math.Pi / 180,
	})
	if err != nil {
		log.Printf("[App] Failed to create effect %s: %v", name, err)
		a.statusMessage = fmt.Sprintf("Error: %v", err)
		return
	}
	a.statusMessage = fmt.Sprintf("Spawned: %s (angle: %.0f°)", name, a.angleOffset)
}

// Draw 绘制查看器画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	bg := a.settings.GetSettings().Background
	screen.Fill(color.RGBA{R: uint8(bg[0] * 255), G: uint8(bg[1] * 255), B: uint8(bg[2] * 255), A: 255})

	a.renderSystem.Begin(screen, 0, 0)
	a.effectSystem.Draw(a.renderSystem)

	if a.settings.GetSettings().ShowHUD || a.searchMode {
		a.drawHUD(screen)
	}
}

func (a *App) printAt(screen *ebiten.Image, s string, x, y int) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, s, a.hudFace, op)
}

// drawHUD draws the overlay with effect info and controls
func (a *App) drawHUD(screen *ebiten.Image) {
	name, ok := a.browser.Current()
	if !ok {
		a.printAt(screen, "No effects match current filter", 10, 10)
	} else {
		a.printAt(screen, fmt.Sprintf("Particle Viewer - Effect %d/%d: %s", a.browser.Index()+1, a.browser.Len(), name), 10, 10)
		if entry, found := a.resourceManager.Library().Effect(name); found && entry.Description != "" {
			a.printAt(screen, entry.Description, 10, 30)
		}
	}

	if q := a.browser.Query(); q != "" {
		a.printAt(screen, fmt.Sprintf("Filter: %q (%d/%d effects)", q, a.browser.Len(), a.browser.Total()), 10, 50)
	}

	s := a.settings.GetSettings()
	a.printAt(screen, fmt.Sprintf("Effects: %d  Particles: %d  Time scale: %.2fx  Angle: %.0f°",
		a.effectSystem.ActiveEffects(), a.effectSystem.NumParticles(), s.TimeScale, a.angleOffset), 10, 70)

	if a.searchMode {
		a.printAt(screen, fmt.Sprintf("SEARCH: %s_", a.browser.Query()), 10, 90)
		a.printAt(screen, "(Type to filter, Backspace to delete, Enter/Esc to exit)", 10, 110)
	} else if a.statusMessage != "" {
		a.printAt(screen, a.statusMessage, 10, 90)
	}

	controls := []string{
		"Navigation: <-/-> Prev/Next  PgUp/PgDn Jump 10  Home/End First/Last  1-9,0 Quick Jump",
		"Actions:    Click/Space Spawn  Right drag Attractor  R Clear  S Stop  P Pause  . Step",
		"View:       [ ] \\ Angle  -/= Time scale  H HUD  F11 Fullscreen  F or / Search  Q Quit",
	}
	y := ScreenHeight - len(controls)*hudLineHeight - 10
	for i, line := range controls {
		a.printAt(screen, line, 10, y+i*hudLineHeight)
	}

	if a.paused {
		a.printAt(screen, "PAUSED (P to resume)", ScreenWidth-200, 10)
	} else if a.autoPlay {
		a.printAt(screen, "AUTO-PLAY", ScreenWidth-120, 10)
	}
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回查看器的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Close 保存查看器设置
func (a *App) Close() error {
	if err := a.settings.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
