package particle

import "fmt"

// Validate checks the structural requirements the simulation relies on.
// Numeric coefficients are not range-checked; a definition may legitimately
// use negative accelerations, zero wind and so on.
func (d *Definition) Validate() error {
	if d.MaxParticles <= 0 {
		return fmt.Errorf("max_particles must be positive, got %d", d.MaxParticles)
	}

	if len(d.Keyframes) == 0 {
		return fmt.Errorf("at least one keyframe is required")
	}
	if d.Keyframes[0].Time != 0 {
		return fmt.Errorf("keyframe 0 must have time 0, got %v", d.Keyframes[0].Time)
	}
	for i := 1; i < len(d.Keyframes); i++ {
		kt := d.Keyframes[i].Time
		if kt < 0 || kt > 1 {
			return fmt.Errorf("keyframe %d: time must be within [0, 1], got %v", i, kt)
		}
		if kt < d.Keyframes[i-1].Time {
			return fmt.Errorf("keyframe %d: time %v is earlier than keyframe %d (%v)", i, kt, i-1, d.Keyframes[i-1].Time)
		}
	}

	if len(d.AnimationFrames) == 0 {
		return fmt.Errorf("at least one animation frame is required")
	}
	for i, ms := range d.AnimationFrameTimes {
		if ms < 0 {
			return fmt.Errorf("animation frame %d: time cannot be negative, got %d", i, ms)
		}
	}

	if d.Emitter.Mode == ModeOneShot && d.SystemLifetime <= 0 {
		return fmt.Errorf("one_shot emitters need a positive system_lifetime")
	}
	if d.Emitter.Shape == ShapeFilledCircle && d.Emitter.Radius < 0 {
		return fmt.Errorf("filled_circle radius cannot be negative, got %v", d.Emitter.Radius)
	}
	if d.SpeedScaleUsed && d.MinSpeedScale > d.MaxSpeedScale {
		return fmt.Errorf("speed_scale min %v exceeds max %v", d.MinSpeedScale, d.MaxSpeedScale)
	}

	return nil
}
