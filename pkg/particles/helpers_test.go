package particles

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gonewx/particlefx/internal/particle"
)

// midRandom always returns the middle of the requested range, which cancels
// every symmetric variation.
type midRandom struct{}

func (midRandom) RandomFloat(lo, hi float64) float64 { return (lo + hi) / 2 }
func (midRandom) RandomInt(n int) int                { return 0 }

type recordingRenderer struct {
	batches []DrawBatch
}

func (r *recordingRenderer) DrawParticles(b *DrawBatch) {
	cp := *b
	cp.Vertices = append([]mgl32.Vec2(nil), b.Vertices...)
	cp.TexCoords = append([]mgl32.Vec2(nil), b.TexCoords...)
	cp.Colors = append([]mgl32.Vec4(nil), b.Colors...)
	r.batches = append(r.batches, cp)
}

type mapImages map[string]FrameImage

func (m mapImages) FrameImage(ref string) (FrameImage, bool) {
	img, ok := m[ref]
	return img, ok
}

// testDefinition is a looping point emitter with a single keyframe.
func testDefinition() *particle.Definition {
	return &particle.Definition{
		Name:    "test",
		Enabled: true,
		Emitter: particle.Emitter{
			Shape:        particle.ShapePoint,
			EmissionRate: 10,
			Mode:         particle.ModeLooping,
			Spin:         particle.SpinClockwise,
		},
		Keyframes: []particle.Keyframe{
			{Time: 0, Color: particle.White, Size: particle.Vec2{X: 1, Y: 1}},
		},
		MaxParticles:     10,
		ParticleLifetime: 1,
		Damping:          1,
		MaxSpeedScale:    1,
		AnimationFrames:  []string{"dot"},
	}
}

func newTestSystem(def *particle.Definition, r RandomSource) *ParticleSystem {
	ps, err := NewParticleSystem(def, WithRandomSource(r))
	if err != nil {
		panic(err)
	}
	return ps
}

// placeParticle spawns a particle into the next free slot without running an update.
func placeParticle(ps *ParticleSystem) *Particle {
	ps.respawnParticle(ps.numParticles, EffectParameters{})
	ps.numParticles++
	return &ps.particles[ps.numParticles-1]
}
