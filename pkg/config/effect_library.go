package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Image shapes that can be rasterized without an image file.
const (
	ShapeDisc   = "disc"
	ShapeGlow   = "glow"
	ShapeRing   = "ring"
	ShapeSquare = "square"
	ShapeSpark  = "spark"
)

// EffectLibrary 效果库配置（data/effects/library.yaml）
// 列出可用的效果定义文件和粒子帧图片
type EffectLibrary struct {
	Effects []EffectEntry `yaml:"effects"` // 效果列表
	Images  []ImageSpec   `yaml:"images"`  // 帧图片列表
}

// EffectEntry maps an effect name to its definition file.
type EffectEntry struct {
	Name        string `yaml:"name"`        // 效果名称，如 "campfire"
	File        string `yaml:"file"`        // 定义文件路径，如 "data/effects/campfire.yaml"
	Description string `yaml:"description"` // 描述（可选）
}

// ImageSpec describes one animation frame image. Either File is set (a PNG,
// optionally cut to Region) or the frame is rasterized from Shape.
type ImageSpec struct {
	Name string `yaml:"name"` // 帧引用名，粒子定义的 animation.frames 使用此名称

	// 程序化生成
	Shape     string    `yaml:"shape"`     // disc, glow, ring, square, spark；默认 disc
	Size      int       `yaml:"size"`      // 边长（像素），默认 16
	Color     []float64 `yaml:"color"`     // RGB 或 RGBA，默认白色
	Thickness float64   `yaml:"thickness"` // ring 的环宽（占半径比例），默认 0.25

	// 图片文件
	File   string `yaml:"file"`   // PNG 路径（可选）
	Region []int  `yaml:"region"` // 图集中的区域 [x, y, w, h]（可选）
}

// LoadEffectLibrary 从YAML文件加载效果库配置
func LoadEffectLibrary(path string) (*EffectLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect library %s: %w", path, err)
	}

	lib, err := ParseEffectLibrary(data)
	if err != nil {
		return nil, fmt.Errorf("invalid effect library %s: %w", path, err)
	}
	return lib, nil
}

// ParseEffectLibrary parses, defaults and validates library YAML.
func ParseEffectLibrary(data []byte) (*EffectLibrary, error) {
	var lib EffectLibrary
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse effect library YAML: %w", err)
	}

	applyLibraryDefaults(&lib)

	if err := validateEffectLibrary(&lib); err != nil {
		return nil, err
	}
	return &lib, nil
}

// Effect looks up an effect entry by name.
func (l *EffectLibrary) Effect(name string) (EffectEntry, bool) {
	for _, e := range l.Effects {
		if e.Name == name {
			return e, true
		}
	}
	return EffectEntry{}, false
}

// EffectNames returns effect names in file order.
func (l *EffectLibrary) EffectNames() []string {
	names := make([]string, len(l.Effects))
	for i, e := range l.Effects {
		names[i] = e.Name
	}
	return names
}

// applyLibraryDefaults 为缺失的可选字段设置默认值
func applyLibraryDefaults(lib *EffectLibrary) {
	for i := range lib.Images {
		img := &lib.Images[i]
		if img.File == "" && img.Shape == "" {
			img.Shape = ShapeDisc
		}
		if img.Size == 0 {
			img.Size = 16
		}
		if len(img.Color) == 0 {
			img.Color = []float64{1, 1, 1, 1}
		}
		if len(img.Color) == 3 {
			img.Color = append(img.Color, 1)
		}
		if img.Thickness == 0 {
			img.Thickness = 0.25
		}
	}
}

func validateEffectLibrary(lib *EffectLibrary) error {
	if len(lib.Effects) == 0 {
		return fmt.Errorf("at least one effect is required")
	}

	seen := make(map[string]bool)
	for i, e := range lib.Effects {
		if e.Name == "" {
			return fmt.Errorf("effect %d: name is required", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("effect %d: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = true
		if e.File == "" {
			return fmt.Errorf("effect %q: file is required", e.Name)
		}
	}

	validShapes := map[string]bool{
		ShapeDisc:   true,
		ShapeGlow:   true,
		ShapeRing:   true,
		ShapeSquare: true,
		ShapeSpark:  true,
	}

	images := make(map[string]bool)
	for i, img := range lib.Images {
		if img.Name == "" {
			return fmt.Errorf("image %d: name is required", i)
		}
		if images[img.Name] {
			return fmt.Errorf("image %d: duplicate name %q", i, img.Name)
		}
		images[img.Name] = true

		if img.File == "" {
			if !validShapes[img.Shape] {
				return fmt.Errorf("image %q: shape must be one of: disc, glow, ring, square, spark, got %q", img.Name, img.Shape)
			}
			if img.Size < 1 || img.Size > 1024 {
				return fmt.Errorf("image %q: size must be between 1 and 1024, got %d", img.Name, img.Size)
			}
		}
		if len(img.Color) != 4 {
			return fmt.Errorf("image %q: color needs 3 or 4 channels, got %d", img.Name, len(img.Color))
		}
		if img.Thickness < 0 || img.Thickness > 1 {
			return fmt.Errorf("image %q: thickness must be within [0, 1], got %v", img.Name, img.Thickness)
		}
		if img.Region != nil {
			if img.File == "" {
				return fmt.Errorf("image %q: region requires a file", img.Name)
			}
			if len(img.Region) != 4 || img.Region[2] <= 0 || img.Region[3] <= 0 || img.Region[0] < 0 || img.Region[1] < 0 {
				return fmt.Errorf("image %q: region must be [x, y, w, h] with positive size, got %v", img.Name, img.Region)
			}
		}
	}

	return nil
}
