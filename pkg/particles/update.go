package particles

import (
	"log"
	"math"

	"github.com/gonewx/particlefx/internal/particle"
)

// Update advances the system by dt seconds.
//
// Order of work: age and pre-roll check, frame animation, per-particle
// update, emission count, kill/recycle pass, emission of the remainder, then
// the stop and death checks.
func (ps *ParticleSystem) Update(dt float64, params EffectParameters) {
	if !ps.alive || !ps.enabled() {
		return
	}

	ps.age += dt

	// 预热阶段：尚未到达发射器的开始时间
	if ps.age < ps.def.Emitter.StartTime {
		ps.lastUpdateTime = ps.age
		return
	}

	ps.animation.Update(dt)

	ps.updateParticles(dt, params)

	toEmit := ps.emissionCount()

	// Expired particles are respawned in place while there is budget left.
	ps.killParticles(&toEmit, params)
	ps.emitParticles(toEmit, params)

	switch ps.def.Emitter.Mode {
	case particle.ModeBurst:
		ps.Stop()
	case particle.ModeOneShot:
		if ps.age > ps.def.SystemLifetime {
			ps.stopped = true
		}
	}

	if ps.stopped && ps.numParticles == 0 {
		ps.alive = false
		if ps.Verbose {
			log.Printf("[ParticleSystem] %q finished at age %.2fs", ps.def.Name, ps.age)
		}
	}

	ps.lastUpdateTime = ps.age
}

// emissionCount returns how many particles are due this frame.
func (ps *ParticleSystem) emissionCount() int {
	if ps.stopped || !ps.canEmit() {
		return 0
	}

	capacity := len(ps.particles)
	em := &ps.def.Emitter

	switch em.Mode {
	case particle.ModeAlways:
		return capacity - ps.numParticles
	case particle.ModeBurst:
		return capacity
	}

	// Count the emission ticks falling in [lastUpdateTime, age).
	low := math.Floor(ps.lastUpdateTime * em.EmissionRate)
	high := math.Ceil(ps.age * em.EmissionRate)
	n := int(high-low) - 1

	if n+ps.numParticles > capacity {
		n = capacity - ps.numParticles
	}
	if n < 0 {
		n = 0
	}
	return n
}

// killParticles removes expired particles, or respawns them while budget
// remains. A killed slot is overwritten by the last live particle and
// checked again before moving on.
func (ps *ParticleSystem) killParticles(budget *int, params EffectParameters) {
	for j := 0; j < ps.numParticles; {
		p := &ps.particles[j]
		if p.Time <= p.Lifetime {
			j++
			continue
		}

		if *budget > 0 {
			ps.respawnParticle(j, params)
			*budget--
			j++
			continue
		}

		last := ps.numParticles - 1
		if j != last {
			ps.particles[j] = ps.particles[last]
		}
		ps.numParticles--
	}
}

// emitParticles spawns up to n new particles at the end of the pool.
func (ps *ParticleSystem) emitParticles(n int, params EffectParameters) {
	for ; n > 0 && ps.numParticles < len(ps.particles); n-- {
		ps.respawnParticle(ps.numParticles, params)
		ps.numParticles++
	}
}

// updateParticles moves every live particle one step forward.
func (ps *ParticleSystem) updateParticles(dt float64, params EffectParameters) {
	def := ps.def
	keyframes := def.Keyframes

	for j := 0; j < ps.numParticles; j++ {
		p := &ps.particles[j]

		scaled := 1.0
		if p.Lifetime > 0 {
			scaled = p.Time / p.Lifetime
		}

		if p.HasNextKeyframe() && scaled >= keyframes[p.NextKeyframe].Time {
			ps.advanceKeyframe(p, scaled)
		}

		if p.HasNextKeyframe() {
			cur := &keyframes[p.CurrentKeyframe]
			next := &keyframes[p.NextKeyframe]

			// 首个关键帧不在 0 时刻时按 0 时刻处理
			var a float64
			if span := next.Time - cur.Time; span > 0 {
				a = max((scaled-cur.Time)/span, 0)
			}

			p.RotationSpeed = lerp(cur.RotationSpeed+p.currentRotationSpeedVariation,
				next.RotationSpeed+p.nextRotationSpeedVariation, a)
			p.Size.X = lerp(cur.Size.X+p.currentSizeVariation.X, next.Size.X+p.nextSizeVariation.X, a)
			p.Size.Y = lerp(cur.Size.Y+p.currentSizeVariation.Y, next.Size.Y+p.nextSizeVariation.Y, a)
			for c := range p.Color {
				p.Color[c] = lerp(cur.Color[c]+p.currentColorVariation[c],
					next.Color[c]+p.nextColorVariation[c], a)
			}
		}

		p.RotationAngle += p.RotationSpeed * p.RotationDirection * dt

		p.CombinedVelocity.X = p.Velocity.X + p.WindVelocity.X
		p.CombinedVelocity.Y = p.Velocity.Y + p.WindVelocity.Y

		if def.WaveMotionUsed && p.WaveHalfAmplitude > 0 {
			waveSpeed := p.WaveHalfAmplitude * math.Sin(p.WaveLengthCoefficient*p.Time)

			// 垂直于合速度的单位向量
			tx, ty := -p.CombinedVelocity.Y, p.CombinedVelocity.X
			if speed := math.Hypot(tx, ty); speed > epsilon {
				p.CombinedVelocity.X += tx / speed * waveSpeed
				p.CombinedVelocity.Y += ty / speed * waveSpeed
			}
		}

		p.Pos.X += p.CombinedVelocity.X * dt
		p.Pos.Y += p.CombinedVelocity.Y * dt

		p.Velocity.X += p.Acceleration.X * dt
		p.Velocity.Y += p.Acceleration.Y * dt

		useRadial := p.RadialAcceleration != 0
		useTangential := p.TangentialAcceleration != 0

		if useRadial || useTangential {
			attractor := def.Emitter.Center
			if def.UserDefinedAttractor {
				attractor = params.Attractor
			}

			ux := p.Pos.X - attractor.X
			uy := p.Pos.Y - attractor.Y
			distance := math.Hypot(ux, uy)
			if distance != 0 {
				ux /= distance
				uy /= distance
			}

			if useRadial {
				attraction := 1.0
				if def.AttractorFalloff != 0 {
					attraction = 1 - def.AttractorFalloff*distance
				}
				// Past the falloff radius the force vanishes instead of reversing.
				if attraction > 0 {
					p.Velocity.X += ux * p.RadialAcceleration * dt * attraction
					p.Velocity.Y += uy * p.RadialAcceleration * dt * attraction
				}
			}

			if useTangential {
				p.Velocity.X += -uy * p.TangentialAcceleration * dt
				p.Velocity.Y += ux * p.TangentialAcceleration * dt
			}
		}

		if p.Damping != 1 {
			f := math.Pow(p.Damping, dt)
			p.Velocity.X *= f
			p.Velocity.Y *= f
		}

		p.Time += dt
	}
}

// advanceKeyframe moves the particle's keyframe pair forward to straddle
// scaled, which is at or past its next keyframe.
func (ps *ParticleSystem) advanceKeyframe(p *Particle, scaled float64) {
	keyframes := ps.def.Keyframes
	oldNext := p.NextKeyframe

	// Keyframe 0 is always at time 0, so the scan starts at 1.
	k := 1
	for ; k < len(keyframes); k++ {
		if keyframes[k].Time > scaled {
			break
		}
	}

	if k == len(keyframes) {
		last := &keyframes[k-1]
		p.CurrentKeyframe = k - 1
		p.NextKeyframe = NoKeyframe
		p.Color = last.Color
		p.RotationSpeed = last.RotationSpeed
		p.Size = last.Size
	} else {
		p.CurrentKeyframe = k - 1
		p.NextKeyframe = k
	}

	if p.CurrentKeyframe == oldNext {
		// Single step: keep the variation that was already shown as "next".
		p.currentColorVariation = p.nextColorVariation
		p.currentRotationSpeedVariation = p.nextRotationSpeedVariation
		p.currentSizeVariation = p.nextSizeVariation
	} else {
		ps.sampleVariation(&keyframes[p.CurrentKeyframe],
			&p.currentColorVariation, &p.currentSizeVariation, &p.currentRotationSpeedVariation)
	}

	if p.HasNextKeyframe() {
		ps.sampleVariation(&keyframes[p.NextKeyframe],
			&p.nextColorVariation, &p.nextSizeVariation, &p.nextRotationSpeedVariation)
	}
}

// sampleVariation draws a fresh per-particle variation for kf.
func (ps *ParticleSystem) sampleVariation(kf *particle.Keyframe, color *particle.Color, size *particle.Vec2, rotationSpeed *float64) {
	*rotationSpeed = ps.spread(kf.RotationSpeedVariation)
	for c := range color {
		color[c] = ps.spread(kf.ColorVariation[c])
	}
	size.X = ps.spread(kf.SizeVariation.X)
	size.Y = ps.spread(kf.SizeVariation.Y)
}

// spread returns a uniform value in [-v, v].
func (ps *ParticleSystem) spread(v float64) float64 {
	return ps.rng.RandomFloat(-v, v)
}

const epsilon = 1e-6

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
