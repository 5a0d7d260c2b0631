package game

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"log"
	"path"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/particlefx/internal/particle"
	"github.com/gonewx/particlefx/pkg/config"
	"github.com/gonewx/particlefx/pkg/particles"
)

// DefaultLibraryPath is where the effect library lives inside the data FS.
const DefaultLibraryPath = "data/effects/library.yaml"

// ResourceManager is responsible for centralized management of effect resources.
// It loads the effect library, caches parsed effect definitions and owns the
// frame images particles are drawn with.
//
// The ResourceManager implements the following key features:
// - Effect definition loading and caching (YAML, resolved by library name)
// - Frame images from PNG files or rasterized procedurally
// - particles.ImageProvider for the simulation and systems.TextureSource for rendering
//
// Frame pixels are kept as image.Image; GPU textures are created lazily on the
// first Texture call, so the manager can be used without a running game loop.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. The internal caches use standard Go maps.
// For the single-threaded game loop, no synchronization is needed.
//
// Usage:
//
//	rm := NewResourceManager(embedded.FS())
//	if err := rm.LoadEffectLibrary(DefaultLibraryPath); err != nil {
//	    log.Fatalf("Failed to load effect library: %v", err)
//	}
//	def, err := rm.LoadEffectDefinition("campfire")
type ResourceManager struct {
	fsys    fs.FS
	library *config.EffectLibrary

	definitionCache map[string]*particle.EffectDefinition // effect name -> parsed definition
	imageCache      map[string]image.Image                // texture key -> pixels
	frames          map[string]particles.FrameImage       // frame ref -> texture region
	textureCache    map[string]*ebiten.Image              // texture key -> GPU image

	// Verbose enables load logs.
	Verbose bool
}

// NewResourceManager creates a ResourceManager reading from fsys. Paths given
// to the manager are relative to the root of fsys, e.g. "data/effects/fire.yaml".
func NewResourceManager(fsys fs.FS) *ResourceManager {
	return &ResourceManager{
		fsys:            fsys,
		definitionCache: make(map[string]*particle.EffectDefinition),
		imageCache:      make(map[string]image.Image),
		frames:          make(map[string]particles.FrameImage),
		textureCache:    make(map[string]*ebiten.Image),
	}
}

// LoadEffectLibrary reads the library at libraryPath and prepares every frame
// image it lists. Previously cached definitions are dropped.
func (rm *ResourceManager) LoadEffectLibrary(libraryPath string) error {
	data, err := fs.ReadFile(rm.fsys, libraryPath)
	if err != nil {
		return fmt.Errorf("failed to read effect library %s: %w", libraryPath, err)
	}

	lib, err := config.ParseEffectLibrary(data)
	if err != nil {
		return fmt.Errorf("invalid effect library %s: %w", libraryPath, err)
	}

	for _, spec := range lib.Images {
		if err := rm.loadFrame(spec); err != nil {
			return fmt.Errorf("failed to load frame image %q: %w", spec.Name, err)
		}
	}

	rm.library = lib
	rm.definitionCache = make(map[string]*particle.EffectDefinition)

	if rm.Verbose {
		log.Printf("[ResourceManager] 加载效果库 %s: %d 个效果, %d 个帧图片", libraryPath, len(lib.Effects), len(lib.Images))
	}
	return nil
}

// Library returns the loaded effect library, or nil.
func (rm *ResourceManager) Library() *config.EffectLibrary {
	return rm.library
}

// EffectNames returns the library's effect names in file order.
func (rm *ResourceManager) EffectNames() []string {
	if rm.library == nil {
		return nil
	}
	return rm.library.EffectNames()
}

// LoadEffectDefinition loads an effect by library name and caches it.
// It implements entities.EffectLoader.
//
// Frame references without a matching library image are reported but not
// fatal; those systems simply skip drawing.
func (rm *ResourceManager) LoadEffectDefinition(name string) (*particle.EffectDefinition, error) {
	if def, exists := rm.definitionCache[name]; exists {
		return def, nil
	}
	if rm.library == nil {
		return nil, fmt.Errorf("effect library not loaded")
	}

	entry, ok := rm.library.Effect(name)
	if !ok {
		return nil, fmt.Errorf("unknown effect %q", name)
	}

	data, err := fs.ReadFile(rm.fsys, entry.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect %s: %w", entry.File, err)
	}

	def, err := particle.ParseEffectDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load effect %s: %w", entry.File, err)
	}
	if def.Name == "" {
		def.Name = name
	}

	for _, sys := range def.Systems {
		for _, ref := range sys.AnimationFrames {
			if _, ok := rm.frames[ref]; !ok {
				log.Printf("[ResourceManager] 警告：效果 %q 的系统 %q 引用了未知帧图片 %q", name, sys.Name, ref)
			}
		}
	}

	rm.definitionCache[name] = def
	return def, nil
}

// GetEffectDefinition retrieves a cached definition, or nil if not loaded yet.
func (rm *ResourceManager) GetEffectDefinition(name string) *particle.EffectDefinition {
	return rm.definitionCache[name]
}

// FrameImage implements particles.ImageProvider.
func (rm *ResourceManager) FrameImage(ref string) (particles.FrameImage, bool) {
	img, ok := rm.frames[ref]
	return img, ok
}

// Texture implements systems.TextureSource. The GPU image is created on first use.
func (rm *ResourceManager) Texture(key string) *ebiten.Image {
	if tex, exists := rm.textureCache[key]; exists {
		return tex
	}
	src, ok := rm.imageCache[key]
	if !ok {
		return nil
	}
	tex := ebiten.NewImageFromImage(src)
	rm.textureCache[key] = tex
	return tex
}

// LoadImage decodes an image file and caches its pixels under its path.
func (rm *ResourceManager) LoadImage(imagePath string) (image.Image, error) {
	if cached, exists := rm.imageCache[imagePath]; exists {
		return cached, nil
	}

	file, err := rm.fsys.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", imagePath, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", imagePath, err)
	}

	rm.imageCache[imagePath] = img
	return img, nil
}

// AddFrameImage registers an in-memory frame image under ref, replacing any
// previous one.
func (rm *ResourceManager) AddFrameImage(ref string, img image.Image) {
	key := "frame:" + ref
	rm.imageCache[key] = img
	delete(rm.textureCache, key)

	b := img.Bounds()
	rm.frames[ref] = particles.FrameImage{
		Texture: key,
		Width:   float64(b.Dx()),
		Height:  float64(b.Dy()),
		U2:      1,
		V2:      1,
	}
}

// loadFrame prepares one library image: a region of a file, a whole file, or
// a rasterized shape.
func (rm *ResourceManager) loadFrame(spec config.ImageSpec) error {
	if spec.File == "" {
		img, err := RasterizeFrame(spec)
		if err != nil {
			return err
		}
		rm.AddFrameImage(spec.Name, img)
		return nil
	}

	file := path.Clean(spec.File)
	img, err := rm.LoadImage(file)
	if err != nil {
		return err
	}

	b := img.Bounds()
	region := b
	if spec.Region != nil {
		region = image.Rect(spec.Region[0], spec.Region[1], spec.Region[0]+spec.Region[2], spec.Region[1]+spec.Region[3]).Add(b.Min)
		if !region.In(b) {
			return fmt.Errorf("region %v exceeds image bounds %v", spec.Region, b.Size())
		}
	}

	w := float32(b.Dx())
	h := float32(b.Dy())
	rm.frames[spec.Name] = particles.FrameImage{
		Texture: file,
		Width:   float64(region.Dx()),
		Height:  float64(region.Dy()),
		U1:      float32(region.Min.X-b.Min.X) / w,
		V1:      float32(region.Min.Y-b.Min.Y) / h,
		U2:      float32(region.Max.X-b.Min.X) / w,
		V2:      float32(region.Max.Y-b.Min.Y) / h,
	}

	if spec.Color[0] != 1 || spec.Color[1] != 1 || spec.Color[2] != 1 || spec.Color[3] != 1 {
		log.Printf("[ResourceManager] 警告：帧图片 %q 来自文件，忽略 color 设置", spec.Name)
	}
	return nil
}
