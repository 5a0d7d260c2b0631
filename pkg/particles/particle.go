package particles

import "github.com/gonewx/particlefx/internal/particle"

// NoKeyframe marks a particle that has reached its last keyframe.
const NoKeyframe = -1

// Particle is one slot of a system's pool. Slots have no identity of their
// own: killing a particle moves the last live record into its slot.
type Particle struct {
	Pos      particle.Vec2
	Velocity particle.Vec2
	// CombinedVelocity is Velocity plus wind and wave motion, recomputed every
	// update. Rotate-to-velocity and speed scaling read it when drawing.
	CombinedVelocity particle.Vec2
	Acceleration     particle.Vec2
	WindVelocity     particle.Vec2

	RadialAcceleration     float64
	TangentialAcceleration float64
	Damping                float64

	WaveLengthCoefficient float64
	WaveHalfAmplitude     float64

	Color             particle.Color
	Size              particle.Vec2
	RotationAngle     float64
	RotationSpeed     float64
	RotationDirection float64 // +1 or -1

	Time     float64
	Lifetime float64

	// Indices into the definition's keyframes.
	CurrentKeyframe int
	NextKeyframe    int

	currentColorVariation         particle.Color
	nextColorVariation            particle.Color
	currentSizeVariation          particle.Vec2
	nextSizeVariation             particle.Vec2
	currentRotationSpeedVariation float64
	nextRotationSpeedVariation    float64
}

// HasNextKeyframe reports whether the particle is still interpolating.
func (p *Particle) HasNextKeyframe() bool {
	return p.NextKeyframe != NoKeyframe
}
