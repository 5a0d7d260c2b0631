// Package particles is the particle simulation core.
//
// A ParticleSystem owns a fixed-capacity pool of particles driven by an
// immutable particle.Definition. Every frame the owner calls Update, which
// moves live particles along their keyframes, recycles expired ones into new
// emissions and spawns the rest; Draw then turns the pool into flat vertex,
// texture coordinate and color buffers for an external Renderer.
//
// Live particles always occupy pool slots [0, NumParticles()). Their order
// is unspecified and changes whenever a particle is killed.
package particles

import (
	"errors"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gonewx/particlefx/internal/particle"
)

// ErrNilDefinition is returned by Create when no definition is given.
var ErrNilDefinition = errors.New("particle system definition is nil")

// ParticleSystem simulates the particles of one Definition.
//
// The definition is referenced, never copied; callers must not mutate it
// while the system is alive.
type ParticleSystem struct {
	def *particle.Definition
	rng RandomSource

	particles    []Particle
	numParticles int

	age            float64
	lastUpdateTime float64
	alive          bool
	stopped        bool

	animation FrameAnimation

	// Render buffers, 4 entries per pool slot.
	vertices  []mgl32.Vec2
	texCoords []mgl32.Vec2
	colors    []mgl32.Vec4
	batch     DrawBatch

	// Verbose enables per-system diagnostics.
	Verbose bool
}

// Option configures a ParticleSystem.
type Option func(*ParticleSystem)

// WithRandomSource replaces the default process-wide random source.
func WithRandomSource(r RandomSource) Option {
	return func(ps *ParticleSystem) {
		if r != nil {
			ps.rng = r
		}
	}
}

// WithVerbose turns on diagnostic logging.
func WithVerbose(v bool) Option {
	return func(ps *ParticleSystem) {
		ps.Verbose = v
	}
}

// NewParticleSystem creates a system and calls Create on it.
func NewParticleSystem(def *particle.Definition, opts ...Option) (*ParticleSystem, error) {
	ps := &ParticleSystem{rng: DefaultRandom}
	for _, opt := range opts {
		opt(ps)
	}
	if err := ps.Create(def); err != nil {
		return nil, err
	}
	return ps, nil
}

// Create (re)initializes the system from def. Only a nil definition fails.
// Content is checked when a definition is parsed; a definition that skipped
// that check still runs, with a negative capacity treated as 0.
func (ps *ParticleSystem) Create(def *particle.Definition) error {
	if ps.rng == nil {
		ps.rng = DefaultRandom
	}
	if def == nil {
		ps.destroy()
		return ErrNilDefinition
	}

	capacity := max(def.MaxParticles, 0)

	ps.def = def
	ps.numParticles = 0
	ps.particles = make([]Particle, capacity)
	ps.vertices = make([]mgl32.Vec2, capacity*4)
	ps.texCoords = make([]mgl32.Vec2, capacity*4)
	ps.colors = make([]mgl32.Vec4, capacity*4)

	ps.alive = true
	ps.stopped = false
	ps.age = 0
	ps.lastUpdateTime = 0

	// 帧时长：显式值 > 最后一个显式值 > 0
	ps.animation.Clear()
	times := def.AnimationFrameTimes
	for j, ref := range def.AnimationFrames {
		var frameTime int
		switch {
		case j < len(times):
			frameTime = times[j]
		case len(times) == 0:
			frameTime = 0
		default:
			frameTime = times[len(times)-1]
		}
		ps.animation.AddFrame(ref, frameTime)
	}

	if ps.Verbose {
		log.Printf("[ParticleSystem] Created %q: capacity=%d, mode=%v, shape=%v, frames=%d",
			def.Name, capacity, def.Emitter.Mode, def.Emitter.Shape, ps.animation.NumFrames())
	}
	return nil
}

func (ps *ParticleSystem) destroy() {
	ps.numParticles = 0
	ps.age = 0
	ps.lastUpdateTime = 0
	ps.alive = false
	ps.stopped = false
	ps.particles = nil
	ps.vertices = nil
	ps.texCoords = nil
	ps.colors = nil
	ps.animation.Clear()
	ps.def = nil
}

// IsAlive reports whether the system still has work to do. A system dies only
// once it is stopped and its last particle has expired.
func (ps *ParticleSystem) IsAlive() bool { return ps.alive }

// IsStopped reports whether the system has stopped emitting.
func (ps *ParticleSystem) IsStopped() bool { return ps.stopped }

// Stop ends emission. Live particles finish their lifetime.
func (ps *ParticleSystem) Stop() { ps.stopped = true }

// NumParticles returns the live particle count.
func (ps *ParticleSystem) NumParticles() int { return ps.numParticles }

// Capacity returns the pool size.
func (ps *ParticleSystem) Capacity() int { return len(ps.particles) }

// Age returns the seconds simulated since creation, including pre-roll.
func (ps *ParticleSystem) Age() float64 { return ps.age }

// Definition returns the definition the system was created from.
func (ps *ParticleSystem) Definition() *particle.Definition { return ps.def }

// Animation exposes the frame cursor.
func (ps *ParticleSystem) Animation() *FrameAnimation { return &ps.animation }

// Particles returns the live particles. The slice aliases the pool and is
// only valid until the next Update.
func (ps *ParticleSystem) Particles() []Particle {
	return ps.particles[:ps.numParticles]
}

func (ps *ParticleSystem) enabled() bool {
	return ps.def != nil && ps.def.Enabled
}

// canEmit reports whether new particles have a keyframe 0 to start from.
func (ps *ParticleSystem) canEmit() bool {
	return len(ps.def.Keyframes) > 0
}
