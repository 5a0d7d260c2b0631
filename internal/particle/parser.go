package particle

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// effectDocument is the on-disk YAML layout of an effect.
// Numeric fields use Spread so a definition can write "2 ± 0.5" or "[1.5 2.5]"
// wherever the simulation samples a value plus a variation.
type effectDocument struct {
	Name    string           `yaml:"name"`
	Systems []systemDocument `yaml:"systems"`
}

type systemDocument struct {
	Name    string `yaml:"name"`
	Enabled *bool  `yaml:"enabled,omitempty"`

	Emitter   emitterDocument    `yaml:"emitter"`
	Keyframes []keyframeDocument `yaml:"keyframes"`

	MaxParticles     int     `yaml:"max_particles"`
	SystemLifetime   float64 `yaml:"system_lifetime,omitempty"`
	ParticleLifetime Spread  `yaml:"particle_lifetime"`

	Acceleration           Vec2Spread `yaml:"acceleration,omitempty"`
	TangentialAcceleration Spread     `yaml:"tangential_acceleration,omitempty"`
	RadialAcceleration     Spread     `yaml:"radial_acceleration,omitempty"`
	AttractorFalloff       float64    `yaml:"attractor_falloff,omitempty"`
	UserDefinedAttractor   bool       `yaml:"user_defined_attractor,omitempty"`
	WindVelocity           Vec2Spread `yaml:"wind_velocity,omitempty"`
	Damping                *Spread    `yaml:"damping,omitempty"`

	WaveMotion *waveDocument `yaml:"wave_motion,omitempty"`

	RotationUsed       bool             `yaml:"rotation_used,omitempty"`
	RotateToVelocity   bool             `yaml:"rotate_to_velocity,omitempty"`
	SpeedScale         *speedScaleDoc   `yaml:"speed_scale,omitempty"`
	RandomInitialAngle bool             `yaml:"random_initial_angle,omitempty"`
	SmoothAnimation    bool             `yaml:"smooth_animation,omitempty"`
	BlendMode          BlendMode        `yaml:"blend_mode,omitempty"`
	Stencil            *stencilDocument `yaml:"stencil,omitempty"`

	Animation animationDocument `yaml:"animation"`
}

type emitterDocument struct {
	Shape           EmitterShape  `yaml:"shape"`
	Pos             Vec2          `yaml:"pos,omitempty"`
	Pos2            Vec2          `yaml:"pos2,omitempty"`
	Center          Vec2          `yaml:"center,omitempty"`
	Radius          float64       `yaml:"radius,omitempty"`
	Variation       Vec2          `yaml:"variation,omitempty"`
	Omnidirectional bool          `yaml:"omnidirectional,omitempty"`
	Orientation     Spread        `yaml:"orientation,omitempty"` // variation is the angle variation
	InitialSpeed    Spread        `yaml:"initial_speed,omitempty"`
	EmissionRate    float64       `yaml:"emission_rate,omitempty"`
	StartTime       float64       `yaml:"start_time,omitempty"`
	Mode            EmitterMode   `yaml:"mode,omitempty"`
	Spin            SpinDirection `yaml:"spin,omitempty"`
}

type keyframeDocument struct {
	Time          float64      `yaml:"time"`
	Color         *ColorSpread `yaml:"color,omitempty"`
	Size          *Vec2Spread  `yaml:"size,omitempty"`
	RotationSpeed Spread       `yaml:"rotation_speed,omitempty"`
}

type waveDocument struct {
	Length    Spread `yaml:"length"`
	Amplitude Spread `yaml:"amplitude"`
}

type speedScaleDoc struct {
	Scale float64 `yaml:"scale"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

type stencilDocument struct {
	Use    bool      `yaml:"use,omitempty"`
	Modify bool      `yaml:"modify,omitempty"`
	Op     StencilOp `yaml:"op,omitempty"`
}

type animationDocument struct {
	Frames     []string `yaml:"frames"`
	FrameTimes []int    `yaml:"frame_times,omitempty"` // milliseconds
}

// LoadEffectDefinition reads and parses an effect definition YAML file.
func LoadEffectDefinition(path string) (*EffectDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect definition %s: %w", path, err)
	}

	def, err := ParseEffectDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse effect definition %s: %w", path, err)
	}
	return def, nil
}

// ParseEffectDefinition parses an effect definition from YAML bytes and
// validates every system in it.
//
// Example usage:
//
//	def, err := particle.ParseEffectDefinition(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Loaded %d systems\n", len(def.Systems))
func ParseEffectDefinition(data []byte) (*EffectDefinition, error) {
	var doc effectDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if len(doc.Systems) == 0 {
		return nil, fmt.Errorf("effect %q contains no systems", doc.Name)
	}

	effect := &EffectDefinition{
		Name:    doc.Name,
		Systems: make([]Definition, 0, len(doc.Systems)),
	}
	for i := range doc.Systems {
		def := doc.Systems[i].toDefinition()
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("system %d (%s): %w", i, def.Name, err)
		}
		effect.Systems = append(effect.Systems, def)
	}
	return effect, nil
}

func (d *systemDocument) toDefinition() Definition {
	def := Definition{
		Name:           d.Name,
		Enabled:        true,
		MaxParticles:   d.MaxParticles,
		SystemLifetime: d.SystemLifetime,

		ParticleLifetime:          d.ParticleLifetime.Value,
		ParticleLifetimeVariation: d.ParticleLifetime.Variation,

		TangentialAcceleration:          d.TangentialAcceleration.Value,
		TangentialAccelerationVariation: d.TangentialAcceleration.Variation,
		RadialAcceleration:              d.RadialAcceleration.Value,
		RadialAccelerationVariation:     d.RadialAcceleration.Variation,
		AttractorFalloff:                d.AttractorFalloff,
		UserDefinedAttractor:            d.UserDefinedAttractor,

		Damping: 1,

		RotationUsed:       d.RotationUsed,
		RotateToVelocity:   d.RotateToVelocity,
		RandomInitialAngle: d.RandomInitialAngle,
		SmoothAnimation:    d.SmoothAnimation,
		BlendMode:          d.BlendMode,
	}
	if d.Enabled != nil {
		def.Enabled = *d.Enabled
	}

	def.Emitter = Emitter{
		Pos:                   d.Emitter.Pos,
		Pos2:                  d.Emitter.Pos2,
		Center:                d.Emitter.Center,
		Radius:                d.Emitter.Radius,
		Variation:             d.Emitter.Variation,
		Shape:                 d.Emitter.Shape,
		Omnidirectional:       d.Emitter.Omnidirectional,
		Orientation:           d.Emitter.Orientation.Value,
		AngleVariation:        d.Emitter.Orientation.Variation,
		InitialSpeed:          d.Emitter.InitialSpeed.Value,
		InitialSpeedVariation: d.Emitter.InitialSpeed.Variation,
		EmissionRate:          d.Emitter.EmissionRate,
		StartTime:             d.Emitter.StartTime,
		Mode:                  d.Emitter.Mode,
		Spin:                  d.Emitter.Spin,
	}

	def.Acceleration, def.AccelerationVariation = d.Acceleration.Values()
	def.WindVelocity, def.WindVelocityVariation = d.WindVelocity.Values()
	if d.Damping != nil {
		def.Damping = d.Damping.Value
		def.DampingVariation = d.Damping.Variation
	}

	if d.WaveMotion != nil {
		def.WaveMotionUsed = true
		def.WaveLength = d.WaveMotion.Length.Value
		def.WaveLengthVariation = d.WaveMotion.Length.Variation
		def.WaveAmplitude = d.WaveMotion.Amplitude.Value
		def.WaveAmplitudeVariation = d.WaveMotion.Amplitude.Variation
	}

	if d.SpeedScale != nil {
		def.SpeedScaleUsed = true
		def.SpeedScale = d.SpeedScale.Scale
		def.MinSpeedScale = d.SpeedScale.Min
		def.MaxSpeedScale = d.SpeedScale.Max
		if def.MaxSpeedScale == 0 {
			def.MaxSpeedScale = 1
		}
	}

	if d.Stencil != nil {
		def.UseStencil = d.Stencil.Use
		def.ModifyStencil = d.Stencil.Modify
		def.StencilOp = d.Stencil.Op
	}

	def.Keyframes = make([]Keyframe, 0, len(d.Keyframes))
	for _, kd := range d.Keyframes {
		kf := Keyframe{
			Time:                   kd.Time,
			Color:                  White,
			Size:                   Vec2{X: 1, Y: 1},
			RotationSpeed:          kd.RotationSpeed.Value,
			RotationSpeedVariation: kd.RotationSpeed.Variation,
		}
		if kd.Color != nil {
			kf.Color, kf.ColorVariation = kd.Color.Values()
		}
		if kd.Size != nil {
			kf.Size, kf.SizeVariation = kd.Size.Values()
		}
		def.Keyframes = append(def.Keyframes, kf)
	}

	def.AnimationFrames = append([]string(nil), d.Animation.Frames...)
	def.AnimationFrameTimes = append([]int(nil), d.Animation.FrameTimes...)

	return def
}

var shapeNames = map[string]EmitterShape{
	"point":            ShapePoint,
	"line":             ShapeLine,
	"circle":           ShapeCircle,
	"ellipse":          ShapeEllipse,
	"filled_circle":    ShapeFilledCircle,
	"filled_rectangle": ShapeFilledRectangle,
}

var modeNames = map[string]EmitterMode{
	"looping":  ModeLooping,
	"one_shot": ModeOneShot,
	"burst":    ModeBurst,
	"always":   ModeAlways,
}

var spinNames = map[string]SpinDirection{
	"clockwise":         SpinClockwise,
	"counterclockwise":  SpinCounterClockwise,
	"counter_clockwise": SpinCounterClockwise,
	"random":            SpinRandom,
}

var blendNames = map[string]BlendMode{
	"none":     BlendNone,
	"normal":   BlendNormal,
	"blend":    BlendNormal,
	"additive": BlendAdditive,
}

var stencilOpNames = map[string]StencilOp{
	"replace":  StencilOpReplace,
	"increase": StencilOpIncrease,
	"decrease": StencilOpDecrease,
	"zero":     StencilOpZero,
}

func unmarshalEnum[T ~int](node *yaml.Node, names map[string]T, kind string) (T, error) {
	key := strings.ToLower(strings.TrimSpace(node.Value))
	v, ok := names[key]
	if !ok {
		return 0, fmt.Errorf("line %d: unknown %s %q", node.Line, kind, node.Value)
	}
	return v, nil
}

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return "unknown"
	}
	return names[v]
}

func (s *EmitterShape) UnmarshalYAML(node *yaml.Node) (err error) {
	*s, err = unmarshalEnum(node, shapeNames, "emitter shape")
	return err
}

func (m *EmitterMode) UnmarshalYAML(node *yaml.Node) (err error) {
	*m, err = unmarshalEnum(node, modeNames, "emitter mode")
	return err
}

func (s *SpinDirection) UnmarshalYAML(node *yaml.Node) (err error) {
	*s, err = unmarshalEnum(node, spinNames, "spin direction")
	return err
}

func (b *BlendMode) UnmarshalYAML(node *yaml.Node) (err error) {
	*b, err = unmarshalEnum(node, blendNames, "blend mode")
	return err
}

func (o *StencilOp) UnmarshalYAML(node *yaml.Node) (err error) {
	*o, err = unmarshalEnum(node, stencilOpNames, "stencil op")
	return err
}

func (s EmitterShape) String() string {
	return enumName([]string{"point", "line", "circle", "ellipse", "filled_circle", "filled_rectangle"}, int(s))
}

func (m EmitterMode) String() string {
	return enumName([]string{"looping", "one_shot", "burst", "always"}, int(m))
}

func (b BlendMode) String() string {
	return enumName([]string{"none", "normal", "additive"}, int(b))
}
