// Package particle provides the data structures and loading functionality for
// particle effect definitions.
//
// A definition describes an emitter, the keyframes every particle walks through
// during its lifetime, and the global physical coefficients shared by all
// particles of one system. Definitions are plain values: they are produced by
// content-loading code (see LoadEffectDefinition) and referenced, never copied
// or mutated, by the simulation in pkg/particles.
package particle

// EmitterShape selects how a new particle's position is sampled.
type EmitterShape int

const (
	ShapePoint EmitterShape = iota
	ShapeLine
	ShapeCircle
	ShapeEllipse
	ShapeFilledCircle
	ShapeFilledRectangle
)

// EmitterMode controls how many particles an emitter releases per frame.
type EmitterMode int

const (
	// ModeLooping emits continuously at EmissionRate particles per second.
	ModeLooping EmitterMode = iota
	// ModeOneShot emits at EmissionRate until the system lifetime elapses.
	ModeOneShot
	// ModeBurst fills the whole pool in a single frame, then stops.
	ModeBurst
	// ModeAlways refills every free slot on every frame.
	ModeAlways
)

// SpinDirection is the direction particles rotate in.
type SpinDirection int

const (
	SpinClockwise SpinDirection = iota
	SpinCounterClockwise
	SpinRandom
)

// BlendMode is passed through untouched to the renderer.
type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendNormal
	BlendAdditive
)

// StencilOp is the stencil operation used when a system modifies the stencil buffer.
type StencilOp int

const (
	StencilOpReplace StencilOp = iota
	StencilOpIncrease
	StencilOpDecrease
	StencilOpZero
)

// Vec2 is a two component vector (位置、速度、尺寸).
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Color is an RGBA color with channels nominally in [0, 1].
// Channels are indexed so keyframe interpolation can loop over them.
type Color [4]float64

// White is the default particle color.
var White = Color{1, 1, 1, 1}

// Emitter describes where and how particles are released.
//
// Pos, Pos2 and Radius are interpreted per shape:
//   - point: Pos
//   - line, filled rectangle: the box spanned by Pos and Pos2
//   - circle, filled circle: center Pos, radius Radius
//   - ellipse: semi-axes Pos.X / Pos.Y, center Pos2
type Emitter struct {
	Pos       Vec2
	Pos2      Vec2
	Center    Vec2 // attractor used by radial/tangential forces when no user attractor is set
	Radius    float64
	Variation Vec2 // uniform positional jitter applied after shape sampling

	Shape           EmitterShape
	Omnidirectional bool
	Orientation     float64 // radians
	AngleVariation  float64 // radians

	InitialSpeed          float64
	InitialSpeedVariation float64

	EmissionRate float64 // particles per second (looping / one-shot)
	StartTime    float64 // seconds of pre-roll before anything is simulated
	Mode         EmitterMode
	Spin         SpinDirection
}

// Keyframe is a target state at a normalized particle age.
type Keyframe struct {
	Time float64 // normalized particle age in [0, 1]

	Color          Color
	ColorVariation Color

	Size          Vec2
	SizeVariation Vec2

	RotationSpeed          float64
	RotationSpeedVariation float64
}

// Definition is the immutable description of one particle system.
type Definition struct {
	Name    string
	Enabled bool

	Emitter   Emitter
	Keyframes []Keyframe

	MaxParticles   int
	SystemLifetime float64 // seconds, only used by ModeOneShot

	ParticleLifetime          float64
	ParticleLifetimeVariation float64

	// Forces (力场)
	Acceleration                    Vec2
	AccelerationVariation           Vec2
	TangentialAcceleration          float64
	TangentialAccelerationVariation float64
	RadialAcceleration              float64
	RadialAccelerationVariation     float64
	AttractorFalloff                float64
	UserDefinedAttractor            bool

	WindVelocity          Vec2
	WindVelocityVariation Vec2

	Damping          float64 // velocity multiplier per second, 1 disables damping
	DampingVariation float64

	WaveMotionUsed         bool
	WaveLength             float64
	WaveLengthVariation    float64
	WaveAmplitude          float64
	WaveAmplitudeVariation float64

	// Rendering (渲染)
	RotationUsed       bool
	RotateToVelocity   bool
	SpeedScaleUsed     bool
	SpeedScale         float64
	MinSpeedScale      float64
	MaxSpeedScale      float64
	RandomInitialAngle bool
	SmoothAnimation    bool

	BlendMode     BlendMode
	UseStencil    bool
	ModifyStencil bool
	StencilOp     StencilOp

	// AnimationFrames are frame image references resolved by the renderer side.
	AnimationFrames []string
	// AnimationFrameTimes are display durations in milliseconds. Frames past the
	// end of this list reuse the last duration.
	AnimationFrameTimes []int
}

// EffectDefinition groups the systems that make up one visual effect.
// A single effect may contain multiple systems working together, e.g. flames
// plus smoke.
type EffectDefinition struct {
	Name    string
	Systems []Definition
}
