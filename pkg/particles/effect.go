package particles

import (
	"fmt"

	"github.com/gonewx/particlefx/internal/particle"
)

// Effect is a group of particle systems sharing one position, orientation
// and attractor, e.g. flames plus smoke.
type Effect struct {
	def     *particle.EffectDefinition
	systems []*ParticleSystem

	pos         particle.Vec2
	orientation float64
	attractor   particle.Vec2
	alive       bool
}

// NewEffect creates one system per definition in def. opts apply to every system.
func NewEffect(def *particle.EffectDefinition, opts ...Option) (*Effect, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}

	e := &Effect{def: def, alive: true}
	for i := range def.Systems {
		sys, err := NewParticleSystem(&def.Systems[i], opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create system %d of effect %q: %w", i, def.Name, err)
		}
		e.systems = append(e.systems, sys)
	}
	return e, nil
}

// Name returns the effect definition name.
func (e *Effect) Name() string { return e.def.Name }

// Move places the effect at (x, y).
func (e *Effect) Move(x, y float64) {
	e.pos = particle.Vec2{X: x, Y: y}
}

func (e *Effect) Position() particle.Vec2 { return e.pos }

// SetOrientation sets the rotation (radians) applied to newly spawned particles.
func (e *Effect) SetOrientation(angle float64) { e.orientation = angle }

// SetAttractor sets the attractor in world coordinates. It only affects
// systems whose definition enables a user-defined attractor.
func (e *Effect) SetAttractor(x, y float64) {
	e.attractor = particle.Vec2{X: x, Y: y}
}

// Update advances every system. The effect dies once all enabled systems have.
func (e *Effect) Update(dt float64) {
	if !e.alive {
		return
	}

	params := EffectParameters{
		Orientation: e.orientation,
		Attractor: particle.Vec2{
			X: e.attractor.X - e.pos.X,
			Y: e.attractor.Y - e.pos.Y,
		},
	}

	alive := false
	for _, sys := range e.systems {
		sys.Update(dt, params)
		// Disabled systems never update, so they cannot keep the effect alive.
		if sys.IsAlive() && sys.enabled() {
			alive = true
		}
	}
	e.alive = alive
}

// IsAlive reports whether any system is still alive.
func (e *Effect) IsAlive() bool { return e.alive }

// Stop stops emission on every system; live particles play out.
func (e *Effect) Stop() {
	for _, sys := range e.systems {
		sys.Stop()
	}
}

// NumParticles is the total live particle count.
func (e *Effect) NumParticles() int {
	n := 0
	for _, sys := range e.systems {
		n += sys.NumParticles()
	}
	return n
}

// Systems returns the effect's systems in definition order.
func (e *Effect) Systems() []*ParticleSystem { return e.systems }

// Draw draws every system at the effect position.
func (e *Effect) Draw(r Renderer, images ImageProvider) {
	if !e.alive {
		return
	}
	for _, sys := range e.systems {
		sys.Draw(r, images, e.pos.X, e.pos.Y)
	}
}
