package particles

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gonewx/particlefx/internal/particle"
)

// EffectParameters are the per-frame inputs supplied by whoever owns the system.
type EffectParameters struct {
	// Orientation rotates spawn positions and is added to the emitter's
	// emission angle (radians).
	Orientation float64
	// Attractor is the point radial and tangential forces act around when the
	// definition sets UserDefinedAttractor. Expressed in system-local coordinates.
	Attractor particle.Vec2
}

// FrameImage is the renderer-side description of one animation frame.
// UVs are normalized to the texture the frame lives in.
type FrameImage struct {
	Texture        string
	Width, Height  float64
	U1, V1, U2, V2 float32
}

// ImageProvider resolves animation frame references to frame images.
type ImageProvider interface {
	FrameImage(ref string) (FrameImage, bool)
}

// StencilState is passed through to the renderer untouched.
type StencilState struct {
	Use    bool
	Modify bool
	Op     particle.StencilOp
}

// DrawBatch is one layer of quads: four vertices per particle, corners in
// upper-left, upper-right, lower-right, lower-left order.
//
// The slices are owned by the particle system and overwritten on the next
// draw; renderers must not keep them past DrawParticles.
type DrawBatch struct {
	Texture     string
	Vertices    []mgl32.Vec2
	TexCoords   []mgl32.Vec2
	Colors      []mgl32.Vec4
	VertexCount int

	Blend   particle.BlendMode
	Stencil StencilState

	// Translate is added to every vertex by the renderer.
	Translate mgl32.Vec2
	// Layer is 0 for the primary pass and 1 for the cross-fade pass of
	// smoothly animated systems.
	Layer int
}

// Renderer consumes vertex batches.
type Renderer interface {
	DrawParticles(batch *DrawBatch)
}
