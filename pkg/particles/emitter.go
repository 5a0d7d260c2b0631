package particles

import (
	"math"

	"github.com/gonewx/particlefx/internal/particle"
)

const twoPi = 2 * math.Pi

// respawnParticle initializes slot i as a freshly emitted particle.
func (ps *ParticleSystem) respawnParticle(i int, params EffectParameters) {
	def := ps.def
	em := &def.Emitter
	p := &ps.particles[i]

	p.Pos = ps.samplePosition(em)

	p.Pos.X += ps.spread(em.Variation.X)
	p.Pos.Y += ps.spread(em.Variation.Y)

	if params.Orientation != 0 {
		p.Pos = rotate(p.Pos, params.Orientation)
	}

	kf0 := &def.Keyframes[0]
	p.Color = kf0.Color
	p.RotationSpeed = kf0.RotationSpeed
	p.Size = kf0.Size
	p.Time = 0

	if def.RandomInitialAngle {
		p.RotationAngle = ps.rng.RandomFloat(0, twoPi)
	} else {
		p.RotationAngle = 0
	}

	p.CurrentKeyframe = 0
	if len(def.Keyframes) > 1 {
		p.NextKeyframe = 1
	} else {
		p.NextKeyframe = NoKeyframe
	}

	speed := em.InitialSpeed + ps.spread(em.InitialSpeedVariation)

	switch em.Spin {
	case particle.SpinClockwise:
		p.RotationDirection = 1
	case particle.SpinCounterClockwise:
		p.RotationDirection = -1
	default:
		p.RotationDirection = float64(2*ps.rng.RandomInt(2)) - 1
	}

	var angle float64
	if em.Omnidirectional {
		angle = ps.rng.RandomFloat(0, twoPi)
	} else {
		angle = em.Orientation + params.Orientation
		if em.AngleVariation != 0 {
			angle += ps.spread(em.AngleVariation)
		}
	}
	p.Velocity = particle.Vec2{X: speed * math.Cos(angle), Y: speed * math.Sin(angle)}
	p.CombinedVelocity = p.Velocity

	ps.sampleVariation(kf0, &p.currentColorVariation, &p.currentSizeVariation, &p.currentRotationSpeedVariation)

	if p.HasNextKeyframe() {
		ps.sampleVariation(&def.Keyframes[1], &p.nextColorVariation, &p.nextSizeVariation, &p.nextRotationSpeedVariation)
	} else {
		// Nothing to interpolate towards, so the variation is applied once.
		for c := range p.Color {
			p.Color[c] += ps.spread(p.currentColorVariation[c])
		}
		p.Size.X += ps.spread(p.currentSizeVariation.X)
		p.Size.Y += ps.spread(p.currentSizeVariation.Y)
		p.RotationSpeed += ps.spread(p.currentRotationSpeedVariation)
	}

	p.TangentialAcceleration = ps.vary(def.TangentialAcceleration, def.TangentialAccelerationVariation)
	p.RadialAcceleration = ps.vary(def.RadialAcceleration, def.RadialAccelerationVariation)
	p.Acceleration.X = ps.vary(def.Acceleration.X, def.AccelerationVariation.X)
	p.Acceleration.Y = ps.vary(def.Acceleration.Y, def.AccelerationVariation.Y)
	p.WindVelocity.X = ps.vary(def.WindVelocity.X, def.WindVelocityVariation.X)
	p.WindVelocity.Y = ps.vary(def.WindVelocity.Y, def.WindVelocityVariation.Y)
	p.Damping = ps.vary(def.Damping, def.DampingVariation)

	if def.WaveMotionUsed {
		length := ps.vary(def.WaveLength, def.WaveLengthVariation)
		if length != 0 {
			p.WaveLengthCoefficient = twoPi / length
		} else {
			p.WaveLengthCoefficient = 0
		}

		p.WaveHalfAmplitude = def.WaveAmplitude
		if def.WaveAmplitude != 0 {
			p.WaveHalfAmplitude += ps.spread(def.WaveAmplitudeVariation)
		}
		p.WaveHalfAmplitude *= 0.5
	} else {
		p.WaveLengthCoefficient = 0
		p.WaveHalfAmplitude = 0
	}

	p.Lifetime = def.ParticleLifetime + ps.spread(def.ParticleLifetimeVariation)
}

// samplePosition picks a spawn position on the emitter shape, before jitter
// and orientation are applied.
func (ps *ParticleSystem) samplePosition(em *particle.Emitter) particle.Vec2 {
	switch em.Shape {
	case particle.ShapeLine, particle.ShapeFilledRectangle:
		return particle.Vec2{
			X: ps.rng.RandomFloat(em.Pos.X, em.Pos2.X),
			Y: ps.rng.RandomFloat(em.Pos.Y, em.Pos2.Y),
		}

	case particle.ShapeCircle:
		angle := ps.rng.RandomFloat(0, twoPi)
		return particle.Vec2{
			X: em.Radius*math.Cos(angle) + em.Pos.X,
			Y: em.Radius*math.Sin(angle) + em.Pos.Y,
		}

	case particle.ShapeEllipse:
		// Pos holds the semi-axes and Pos2 the center.
		angle := ps.rng.RandomFloat(0, twoPi)
		return particle.Vec2{
			X: em.Pos.X*math.Cos(angle) + em.Pos2.X,
			Y: em.Pos.Y*math.Sin(angle) + em.Pos2.Y,
		}

	case particle.ShapeFilledCircle:
		// Rejection sampling in a box of half-width radius/2 against the full
		// radius. The box lies inside the circle, so the first sample always
		// passes.
		radiusSquared := em.Radius * em.Radius
		half := em.Radius * 0.5
		var x, y float64
		for {
			x = ps.rng.RandomFloat(-half, half)
			y = ps.rng.RandomFloat(-half, half)
			if x*x+y*y <= radiusSquared {
				break
			}
		}
		return particle.Vec2{X: x + em.Pos.X, Y: y + em.Pos.Y}

	default:
		return em.Pos
	}
}

// vary adds a uniform offset in [-variation, variation] when variation is set.
func (ps *ParticleSystem) vary(value, variation float64) float64 {
	if variation != 0 {
		value += ps.spread(variation)
	}
	return value
}

// rotate turns v about the origin by angle radians.
func rotate(v particle.Vec2, angle float64) particle.Vec2 {
	s, c := math.Sincos(angle)
	return particle.Vec2{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}
