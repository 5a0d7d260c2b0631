package game

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"github.com/gonewx/particlefx/pkg/config"
)

// circleSegments is the polygon resolution used for round shapes.
const circleSegments = 48

// glowLayers is the number of stacked discs forming a glow falloff.
const glowLayers = 8

// RasterizeFrame draws a procedural frame image described by spec.
// The result is a square RGBA image of spec.Size pixels.
func RasterizeFrame(spec config.ImageSpec) (*image.RGBA, error) {
	size := spec.Size
	dst := image.NewRGBA(image.Rect(0, 0, size, size))

	c := rgba(spec.Color)
	src := image.NewUniform(c)

	half := float32(size) / 2
	z := vector.NewRasterizer(size, size)

	switch spec.Shape {
	case config.ShapeDisc:
		addCircle(z, half, half, half, false)
		z.Draw(dst, dst.Bounds(), src, image.Point{})

	case config.ShapeRing:
		inner := half * float32(1-spec.Thickness)
		addCircle(z, half, half, half, false)
		addCircle(z, half, half, inner, true)
		z.Draw(dst, dst.Bounds(), src, image.Point{})

	case config.ShapeGlow:
		// 叠加半透明同心圆形成中心亮、边缘暗的光晕
		layer := c
		layer.A = uint8(math.Round(float64(c.A) / glowLayers))
		layer.R = uint8(math.Round(float64(c.R) / glowLayers))
		layer.G = uint8(math.Round(float64(c.G) / glowLayers))
		layer.B = uint8(math.Round(float64(c.B) / glowLayers))
		layerSrc := image.NewUniform(layer)
		for i := 0; i < glowLayers; i++ {
			r := half * float32(glowLayers-i) / glowLayers
			z.Reset(size, size)
			addCircle(z, half, half, r, false)
			z.Draw(dst, dst.Bounds(), layerSrc, image.Point{})
		}

	case config.ShapeSquare:
		s := float32(size)
		z.MoveTo(0, 0)
		z.LineTo(s, 0)
		z.LineTo(s, s)
		z.LineTo(0, s)
		z.ClosePath()
		z.Draw(dst, dst.Bounds(), src, image.Point{})

	case config.ShapeSpark:
		// 四角星
		waist := half * 0.2
		z.MoveTo(half, 0)
		z.LineTo(half+waist, half-waist)
		z.LineTo(float32(size), half)
		z.LineTo(half+waist, half+waist)
		z.LineTo(half, float32(size))
		z.LineTo(half-waist, half+waist)
		z.LineTo(0, half)
		z.LineTo(half-waist, half-waist)
		z.ClosePath()
		z.Draw(dst, dst.Bounds(), src, image.Point{})

	default:
		return nil, fmt.Errorf("unknown frame shape %q", spec.Shape)
	}

	return dst, nil
}

// addCircle appends a closed polygon approximating a circle. reverse flips
// the winding so the circle cuts a hole into an enclosing one.
func addCircle(z *vector.Rasterizer, cx, cy, r float32, reverse bool) {
	step := 2 * math.Pi / circleSegments
	if reverse {
		step = -step
	}
	z.MoveTo(cx+r, cy)
	for i := 1; i < circleSegments; i++ {
		a := float64(i) * step
		z.LineTo(cx+r*float32(math.Cos(a)), cy+r*float32(math.Sin(a)))
	}
	z.ClosePath()
}

// rgba converts a [0, 1] RGBA slice to a premultiplied color.
func rgba(c []float64) color.RGBA {
	ch := func(v float64) float64 {
		return math.Max(0, math.Min(1, v))
	}
	a := ch(c[3])
	return color.RGBA{
		R: uint8(math.Round(ch(c[0]) * a * 255)),
		G: uint8(math.Round(ch(c[1]) * a * 255)),
		B: uint8(math.Round(ch(c[2]) * a * 255)),
		A: uint8(math.Round(a * 255)),
	}
}
