package particles

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Draw fills the render buffers from the live particles and submits them to
// r, translated by (x, y). Smoothly animated systems submit a second batch
// that cross-fades into the next animation frame.
func (ps *ParticleSystem) Draw(r Renderer, images ImageProvider, x, y float64) {
	if !ps.alive || !ps.enabled() || ps.age < ps.def.Emitter.StartTime || ps.numParticles <= 0 {
		return
	}
	if ps.animation.NumFrames() == 0 {
		return
	}

	def := ps.def
	frameIndex := ps.animation.CurrentFrameIndex()
	img, ok := images.FrameImage(ps.animation.Frame(frameIndex))
	if !ok {
		if ps.Verbose {
			log.Printf("[ParticleSystem] 警告：找不到帧图片 %q，跳过绘制", ps.animation.Frame(frameIndex))
		}
		return
	}

	progress := float32(ps.animation.PercentProgress())

	ps.fillVertices(img.Width*0.5, img.Height*0.5)

	colorScale := float32(1)
	if def.SmoothAnimation {
		colorScale = 1 - progress
	}
	ps.fillColors(colorScale)
	ps.fillTexCoords(img)

	n := ps.numParticles * 4
	ps.batch = DrawBatch{
		Texture:     img.Texture,
		Vertices:    ps.vertices[:n],
		TexCoords:   ps.texCoords[:n],
		Colors:      ps.colors[:n],
		VertexCount: n,
		Blend:       def.BlendMode,
		Stencil: StencilState{
			Use:    def.UseStencil,
			Modify: def.ModifyStencil,
			Op:     def.StencilOp,
		},
		Translate: mgl32.Vec2{float32(x), float32(y)},
	}
	r.DrawParticles(&ps.batch)

	if !def.SmoothAnimation {
		return
	}

	nextIndex := (frameIndex + 1) % ps.animation.NumFrames()
	next, ok := images.FrameImage(ps.animation.Frame(nextIndex))
	if !ok {
		return
	}

	// The vertices are reused; only the UVs and the fade weight change.
	ps.fillTexCoords(next)
	ps.fillColors(progress)

	ps.batch.Texture = next.Texture
	ps.batch.Layer = 1
	r.DrawParticles(&ps.batch)
}

// fillVertices writes one quad per live particle.
func (ps *ParticleSystem) fillVertices(halfWidth, halfHeight float64) {
	def := ps.def
	v := 0

	for j := 0; j < ps.numParticles; j++ {
		p := &ps.particles[j]
		w := float32(halfWidth * p.Size.X)
		h := float32(halfHeight * p.Size.Y)
		pos := mgl32.Vec2{float32(p.Pos.X), float32(p.Pos.Y)}

		corners := [4]mgl32.Vec2{{-w, -h}, {w, -h}, {w, h}, {-w, h}}

		if def.RotationUsed {
			angle := p.RotationAngle

			if def.RotateToVelocity {
				angle += math.Pi/2 + math.Atan2(p.CombinedVelocity.Y, p.CombinedVelocity.X)

				if def.SpeedScaleUsed {
					speed := math.Hypot(p.CombinedVelocity.X, p.CombinedVelocity.Y)
					scale := clamp(def.SpeedScale*speed, def.MinSpeedScale, def.MaxSpeedScale)
					for c := range corners {
						corners[c][1] *= float32(scale)
					}
				}
			}

			rot := mgl32.Rotate2D(float32(angle))
			for c := range corners {
				corners[c] = rot.Mul2x1(corners[c])
			}
		}

		for c := range corners {
			ps.vertices[v] = corners[c].Add(pos)
			v++
		}
	}
}

func (ps *ParticleSystem) fillTexCoords(img FrameImage) {
	t := 0
	for j := 0; j < ps.numParticles; j++ {
		ps.texCoords[t] = mgl32.Vec2{img.U1, img.V1}
		ps.texCoords[t+1] = mgl32.Vec2{img.U2, img.V1}
		ps.texCoords[t+2] = mgl32.Vec2{img.U2, img.V2}
		ps.texCoords[t+3] = mgl32.Vec2{img.U1, img.V2}
		t += 4
	}
}

// fillColors writes each particle's color with its alpha multiplied by alphaScale.
func (ps *ParticleSystem) fillColors(alphaScale float32) {
	c := 0
	for j := 0; j < ps.numParticles; j++ {
		col := ps.particles[j].Color
		rgba := mgl32.Vec4{float32(col[0]), float32(col[1]), float32(col[2]), float32(col[3]) * alphaScale}
		ps.colors[c] = rgba
		ps.colors[c+1] = rgba
		ps.colors[c+2] = rgba
		ps.colors[c+3] = rgba
		c += 4
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
