package particles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/particlefx/internal/particle"
)

const samples = 2000

func spawnMany(t *testing.T, em particle.Emitter, params EffectParameters) []particle.Vec2 {
	t.Helper()
	def := testDefinition()
	def.Emitter = em
	ps := newTestSystem(def, NewRandomSource(1234))

	out := make([]particle.Vec2, 0, samples)
	for i := 0; i < samples; i++ {
		ps.respawnParticle(0, params)
		out = append(out, ps.particles[0].Pos)
	}
	return out
}

func TestRespawn_Shapes(t *testing.T) {
	t.Run("point", func(t *testing.T) {
		for _, pos := range spawnMany(t, particle.Emitter{Shape: particle.ShapePoint, Pos: particle.Vec2{X: 3, Y: 4}}, EffectParameters{}) {
			require.Equal(t, particle.Vec2{X: 3, Y: 4}, pos)
		}
	})

	t.Run("line", func(t *testing.T) {
		em := particle.Emitter{Shape: particle.ShapeLine, Pos: particle.Vec2{X: -10, Y: 5}, Pos2: particle.Vec2{X: 10, Y: 5}}
		for _, pos := range spawnMany(t, em, EffectParameters{}) {
			require.GreaterOrEqual(t, pos.X, -10.0)
			require.LessOrEqual(t, pos.X, 10.0)
			require.Equal(t, 5.0, pos.Y)
		}
	})

	t.Run("filled rectangle", func(t *testing.T) {
		em := particle.Emitter{Shape: particle.ShapeFilledRectangle, Pos: particle.Vec2{X: 0, Y: 0}, Pos2: particle.Vec2{X: 4, Y: 8}}
		for _, pos := range spawnMany(t, em, EffectParameters{}) {
			require.True(t, pos.X >= 0 && pos.X <= 4, "x=%v", pos.X)
			require.True(t, pos.Y >= 0 && pos.Y <= 8, "y=%v", pos.Y)
		}
	})

	t.Run("circle", func(t *testing.T) {
		em := particle.Emitter{Shape: particle.ShapeCircle, Pos: particle.Vec2{X: 1, Y: 1}, Radius: 5}
		for _, pos := range spawnMany(t, em, EffectParameters{}) {
			require.InDelta(t, 5, math.Hypot(pos.X-1, pos.Y-1), 1e-9)
		}
	})

	t.Run("ellipse", func(t *testing.T) {
		// Pos carries the semi-axes, Pos2 the center.
		em := particle.Emitter{Shape: particle.ShapeEllipse, Pos: particle.Vec2{X: 4, Y: 2}, Pos2: particle.Vec2{X: 10, Y: 10}}
		for _, pos := range spawnMany(t, em, EffectParameters{}) {
			dx := (pos.X - 10) / 4
			dy := (pos.Y - 10) / 2
			require.InDelta(t, 1, dx*dx+dy*dy, 1e-9)
		}
	})

	t.Run("filled circle", func(t *testing.T) {
		em := particle.Emitter{Shape: particle.ShapeFilledCircle, Pos: particle.Vec2{X: 5, Y: 5}, Radius: 10}
		var sumX, sumY float64
		for _, pos := range spawnMany(t, em, EffectParameters{}) {
			dx, dy := pos.X-5, pos.Y-5
			require.LessOrEqual(t, math.Abs(dx), 5.0)
			require.LessOrEqual(t, math.Abs(dy), 5.0)
			require.LessOrEqual(t, dx*dx+dy*dy, 100.0)
			sumX += dx
			sumY += dy
		}
		assert.InDelta(t, 0, sumX/samples, 0.5)
		assert.InDelta(t, 0, sumY/samples, 0.5)
	})

	t.Run("filled circle zero radius", func(t *testing.T) {
		em := particle.Emitter{Shape: particle.ShapeFilledCircle, Pos: particle.Vec2{X: 2, Y: 3}}
		for _, pos := range spawnMany(t, em, EffectParameters{}) {
			require.Equal(t, particle.Vec2{X: 2, Y: 3}, pos)
		}
	})
}

func TestRespawn_VariationAndOrientation(t *testing.T) {
	em := particle.Emitter{Shape: particle.ShapePoint, Pos: particle.Vec2{X: 10, Y: 0}, Variation: particle.Vec2{X: 1, Y: 2}}
	for _, pos := range spawnMany(t, em, EffectParameters{}) {
		require.InDelta(t, 10, pos.X, 1)
		require.InDelta(t, 0, pos.Y, 2)
	}

	// Spawn positions rotate about the origin, not the emitter.
	em.Variation = particle.Vec2{}
	for _, pos := range spawnMany(t, em, EffectParameters{Orientation: math.Pi / 2}) {
		require.InDelta(t, 0, pos.X, 1e-9)
		require.InDelta(t, 10, pos.Y, 1e-9)
	}
}

func TestRespawn_Velocity(t *testing.T) {
	def := testDefinition()
	def.Emitter.InitialSpeed = 10
	def.Emitter.Orientation = math.Pi / 4
	ps := newTestSystem(def, midRandom{})

	p := placeParticle(ps)
	assert.InDelta(t, 10*math.Cos(math.Pi/4), p.Velocity.X, 1e-9)
	assert.InDelta(t, 10*math.Sin(math.Pi/4), p.Velocity.Y, 1e-9)

	// Caller orientation is added to the emitter's.
	ps.respawnParticle(0, EffectParameters{Orientation: math.Pi / 4})
	assert.InDelta(t, 0, p.Velocity.X, 1e-9)
	assert.InDelta(t, 10, p.Velocity.Y, 1e-9)

	def.Emitter.InitialSpeedVariation = 2
	def.Emitter.AngleVariation = 0.1
	ps = newTestSystem(def, NewRandomSource(5))
	for i := 0; i < 500; i++ {
		ps.respawnParticle(0, EffectParameters{})
		v := ps.particles[0].Velocity
		require.InDelta(t, 10, math.Hypot(v.X, v.Y), 2+1e-9)
		require.InDelta(t, math.Pi/4, math.Atan2(v.Y, v.X), 0.1+1e-9)
	}
}

func TestRespawn_Omnidirectional(t *testing.T) {
	def := testDefinition()
	def.Emitter.InitialSpeed = 1
	def.Emitter.Omnidirectional = true
	ps := newTestSystem(def, NewRandomSource(11))

	var left, right int
	for i := 0; i < 1000; i++ {
		ps.respawnParticle(0, EffectParameters{})
		v := ps.particles[0].Velocity
		require.InDelta(t, 1, math.Hypot(v.X, v.Y), 1e-9)
		if v.X < 0 {
			left++
		} else {
			right++
		}
	}
	assert.Greater(t, left, 300)
	assert.Greater(t, right, 300)
}

func TestRespawn_Spin(t *testing.T) {
	tests := []struct {
		spin particle.SpinDirection
		want []float64
	}{
		{particle.SpinClockwise, []float64{1}},
		{particle.SpinCounterClockwise, []float64{-1}},
		{particle.SpinRandom, []float64{-1, 1}},
	}

	for _, tt := range tests {
		def := testDefinition()
		def.Emitter.Spin = tt.spin
		ps := newTestSystem(def, NewRandomSource(2))

		seen := map[float64]bool{}
		for i := 0; i < 100; i++ {
			ps.respawnParticle(0, EffectParameters{})
			seen[ps.particles[0].RotationDirection] = true
		}
		assert.Len(t, seen, len(tt.want))
		for _, w := range tt.want {
			assert.True(t, seen[w], "spin %v should produce %v", tt.spin, w)
		}
	}
}

func TestRespawn_InitialState(t *testing.T) {
	def := testDefinition()
	def.Keyframes = threeKeyframes()
	def.RandomInitialAngle = true
	def.Acceleration = particle.Vec2{X: 1, Y: 2}
	def.AccelerationVariation = particle.Vec2{Y: 0.5}
	def.WindVelocity = particle.Vec2{X: 3}
	def.RadialAcceleration = 4
	def.RadialAccelerationVariation = 1
	def.ParticleLifetime = 2
	def.ParticleLifetimeVariation = 0.5
	ps := newTestSystem(def, NewRandomSource(8))

	for i := 0; i < 200; i++ {
		ps.respawnParticle(0, EffectParameters{})
		p := ps.particles[0]

		require.Equal(t, 0.0, p.Time)
		require.Equal(t, 0, p.CurrentKeyframe)
		require.Equal(t, 1, p.NextKeyframe)
		require.Equal(t, def.Keyframes[0].Color, p.Color)
		require.Equal(t, def.Keyframes[0].Size, p.Size)
		require.True(t, p.RotationAngle >= 0 && p.RotationAngle <= 2*math.Pi)

		require.Equal(t, 1.0, p.Acceleration.X, "no variation configured")
		require.InDelta(t, 2, p.Acceleration.Y, 0.5+1e-9)
		require.Equal(t, 3.0, p.WindVelocity.X)
		require.InDelta(t, 4, p.RadialAcceleration, 1+1e-9)
		require.InDelta(t, 2, p.Lifetime, 0.5+1e-9)
		require.Equal(t, 0.0, p.WaveHalfAmplitude, "wave motion disabled")
	}
}

func TestRespawn_WaveZeroLength(t *testing.T) {
	def := testDefinition()
	def.WaveMotionUsed = true
	def.WaveAmplitude = 0
	def.WaveAmplitudeVariation = 3
	ps := newTestSystem(def, NewRandomSource(4))

	p := placeParticle(ps)
	assert.Equal(t, 0.0, p.WaveLengthCoefficient)
	assert.Equal(t, 0.0, p.WaveHalfAmplitude, "variation only applies to a nonzero amplitude")
}
