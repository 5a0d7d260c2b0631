package particles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/particlefx/internal/particle"
)

func testEffectDefinition() *particle.EffectDefinition {
	burst := *testDefinition()
	burst.Name = "burst"
	burst.Emitter.Mode = particle.ModeBurst
	burst.MaxParticles = 3
	burst.AnimationFrames = []string{"a"}

	trail := *testDefinition()
	trail.Name = "trail"
	trail.AnimationFrames = []string{"a"}

	return &particle.EffectDefinition{Name: "combo", Systems: []particle.Definition{burst, trail}}
}

func TestNewEffect(t *testing.T) {
	e, err := NewEffect(testEffectDefinition(), WithRandomSource(midRandom{}))
	require.NoError(t, err)
	assert.Equal(t, "combo", e.Name())
	assert.Len(t, e.Systems(), 2)
	assert.True(t, e.IsAlive())

	_, err = NewEffect(nil)
	assert.ErrorIs(t, err, ErrNilDefinition)

	empty := testEffectDefinition()
	empty.Systems[1].MaxParticles = 0
	e, err = NewEffect(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Systems()[1].Capacity())
}

func TestEffect_LifecycleAndDraw(t *testing.T) {
	e, err := NewEffect(testEffectDefinition(), WithRandomSource(midRandom{}))
	require.NoError(t, err)
	e.Move(105, 50)
	assert.Equal(t, particle.Vec2{X: 105, Y: 50}, e.Position())

	e.Update(0.25)
	assert.Equal(t, 3+2, e.NumParticles())

	r := &recordingRenderer{}
	images := mapImages{"a": {Texture: "t", Width: 2, Height: 2, U2: 1, V2: 1}}
	e.Draw(r, images)
	require.Len(t, r.batches, 2)
	for _, b := range r.batches {
		assert.Equal(t, float32(105), b.Translate[0])
		assert.Equal(t, float32(50), b.Translate[1])
	}

	e.Stop()
	e.Update(0.1)
	assert.True(t, e.IsAlive(), "particles still playing out")

	e.Update(2)
	assert.False(t, e.IsAlive())
	assert.Equal(t, 0, e.NumParticles())

	r.batches = nil
	e.Draw(r, images)
	assert.Empty(t, r.batches)
}

func TestEffect_AttractorIsLocal(t *testing.T) {
	def := testEffectDefinition()
	def.Systems = def.Systems[:1]
	def.Systems[0].MaxParticles = 1
	def.Systems[0].UserDefinedAttractor = true
	def.Systems[0].RadialAcceleration = 5

	e, err := NewEffect(def, WithRandomSource(midRandom{}))
	require.NoError(t, err)
	e.Move(100, 50)
	e.SetAttractor(110, 50)

	e.Update(0.1)
	e.Update(0.1)

	// The particle sits at the local origin, the attractor 10 units to its
	// right, so a positive radial force pushes it left.
	p := e.Systems()[0].Particles()[0]
	assert.InDelta(t, -0.5, p.Velocity.X, 1e-9)
	assert.InDelta(t, 0, p.Velocity.Y, 1e-9)
}

func TestEffect_DisabledSystemsDoNotKeepItAlive(t *testing.T) {
	def := testEffectDefinition()
	def.Systems[1].Enabled = false

	e, err := NewEffect(def, WithRandomSource(midRandom{}))
	require.NoError(t, err)

	e.Update(0.1)
	e.Update(2)
	assert.False(t, e.IsAlive())
}
