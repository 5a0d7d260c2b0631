package game

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"
)

const testLibrary = `
effects:
  - name: sparkle
    file: data/effects/sparkle.yaml
  - name: broken
    file: data/effects/broken.yaml
  - name: missing
    file: data/effects/missing.yaml
images:
  - name: dot
    size: 8
  - name: sheet_1
    file: data/images/sheet.png
    region: [16, 0, 16, 8]
  - name: sheet
    file: data/images/sheet.png
`

const sparkleYAML = `
systems:
  - name: core
    max_particles: 4
    particle_lifetime: 1
    emitter: {emission_rate: 4}
    keyframes: [{time: 0}]
    animation: {frames: [dot, nowhere]}
`

// testPNG 创建一个 32x8 的 PNG 图集
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 8))
	for x := 0; x < 32; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func newTestResourceManager(t *testing.T) *ResourceManager {
	t.Helper()
	fsys := fstest.MapFS{
		"data/effects/library.yaml": {Data: []byte(testLibrary)},
		"data/effects/sparkle.yaml": {Data: []byte(sparkleYAML)},
		"data/effects/broken.yaml":  {Data: []byte("systems: []\n")},
		"data/images/sheet.png":     {Data: testPNG(t)},
	}
	rm := NewResourceManager(fsys)
	if err := rm.LoadEffectLibrary(DefaultLibraryPath); err != nil {
		t.Fatalf("LoadEffectLibrary failed: %v", err)
	}
	return rm
}

func TestResourceManager_LoadLibrary(t *testing.T) {
	rm := newTestResourceManager(t)

	if rm.Library() == nil {
		t.Fatal("Library() returned nil after load")
	}
	names := rm.EffectNames()
	if len(names) != 3 || names[0] != "sparkle" {
		t.Errorf("EffectNames() = %v", names)
	}

	// 程序化帧：整张纹理
	dot, ok := rm.FrameImage("dot")
	if !ok {
		t.Fatal("Expected dot frame")
	}
	if dot.Width != 8 || dot.Height != 8 {
		t.Errorf("dot size = %vx%v, want 8x8", dot.Width, dot.Height)
	}
	if dot.U1 != 0 || dot.V1 != 0 || dot.U2 != 1 || dot.V2 != 1 {
		t.Errorf("dot UV = (%v,%v)-(%v,%v), want full texture", dot.U1, dot.V1, dot.U2, dot.V2)
	}

	// 图集区域：右半部分
	region, ok := rm.FrameImage("sheet_1")
	if !ok {
		t.Fatal("Expected sheet_1 frame")
	}
	if region.Texture != "data/images/sheet.png" {
		t.Errorf("region texture = %q", region.Texture)
	}
	if region.Width != 16 || region.Height != 8 {
		t.Errorf("region size = %vx%v, want 16x8", region.Width, region.Height)
	}
	if region.U1 != 0.5 || region.U2 != 1 || region.V1 != 0 || region.V2 != 1 {
		t.Errorf("region UV = (%v,%v)-(%v,%v), want (0.5,0)-(1,1)", region.U1, region.V1, region.U2, region.V2)
	}

	whole, _ := rm.FrameImage("sheet")
	if whole.Width != 32 || whole.Texture != region.Texture {
		t.Errorf("whole sheet frame = %+v", whole)
	}

	if _, ok := rm.FrameImage("nowhere"); ok {
		t.Error("Unknown frame should not resolve")
	}
}

func TestResourceManager_LoadEffectDefinition(t *testing.T) {
	rm := newTestResourceManager(t)

	def, err := rm.LoadEffectDefinition("sparkle")
	if err != nil {
		t.Fatalf("LoadEffectDefinition failed: %v", err)
	}
	if def.Name != "sparkle" {
		t.Errorf("Expected library name to fill the empty definition name, got %q", def.Name)
	}
	if len(def.Systems) != 1 || def.Systems[0].MaxParticles != 4 {
		t.Errorf("Unexpected definition: %+v", def.Systems)
	}

	// 第二次加载应返回缓存
	again, err := rm.LoadEffectDefinition("sparkle")
	if err != nil || again != def {
		t.Error("Expected cached definition on second load")
	}
	if rm.GetEffectDefinition("sparkle") != def {
		t.Error("GetEffectDefinition should return the cached definition")
	}
	if rm.GetEffectDefinition("broken") != nil {
		t.Error("GetEffectDefinition should not load")
	}
}

func TestResourceManager_LoadEffectDefinitionErrors(t *testing.T) {
	rm := newTestResourceManager(t)

	tests := []struct {
		name    string
		wantErr string
	}{
		{"unknown", "unknown effect"},
		{"missing", "failed to read effect"},
		{"broken", "failed to load effect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rm.LoadEffectDefinition(tt.name)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}

	empty := NewResourceManager(fstest.MapFS{})
	if _, err := empty.LoadEffectDefinition("sparkle"); err == nil || !strings.Contains(err.Error(), "not loaded") {
		t.Errorf("expected library not loaded error, got %v", err)
	}
	if empty.EffectNames() != nil {
		t.Error("EffectNames() should be nil before load")
	}
}

func TestResourceManager_LibraryErrors(t *testing.T) {
	sheet := testPNG(t)

	tests := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr string
	}{
		{"missing library", fstest.MapFS{}, "failed to read effect library"},
		{"invalid library", fstest.MapFS{
			"data/effects/library.yaml": {Data: []byte("effects: []\n")},
		}, "invalid effect library"},
		{"missing image file", fstest.MapFS{
			"data/effects/library.yaml": {Data: []byte("effects: [{name: a, file: a.yaml}]\nimages: [{name: x, file: data/none.png}]\n")},
		}, "failed to load frame image \"x\""},
		{"region out of bounds", fstest.MapFS{
			"data/effects/library.yaml": {Data: []byte("effects: [{name: a, file: a.yaml}]\nimages: [{name: x, file: data/s.png, region: [24, 0, 16, 8]}]\n")},
			"data/s.png":                {Data: sheet},
		}, "exceeds image bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := NewResourceManager(tt.fsys)
			err := rm.LoadEffectLibrary(DefaultLibraryPath)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestResourceManager_AddFrameImage(t *testing.T) {
	rm := NewResourceManager(fstest.MapFS{})
	rm.AddFrameImage("custom", image.NewRGBA(image.Rect(0, 0, 12, 6)))

	frame, ok := rm.FrameImage("custom")
	if !ok {
		t.Fatal("Expected custom frame")
	}
	if frame.Width != 12 || frame.Height != 6 || frame.Texture != "frame:custom" {
		t.Errorf("frame = %+v", frame)
	}
	if rm.Texture("nothing") != nil {
		t.Error("Texture of unknown key should be nil")
	}
}
