package components

import "github.com/gonewx/particlefx/pkg/particles"

// EffectComponent attaches a running particle effect to an entity.
// The effect is drawn at the entity's PositionComponent.
//
// This is a pure data component following ECS principles - it contains no methods.
type EffectComponent struct {
	Name   string            // Library name the effect was created from
	Effect *particles.Effect // Simulation state, owned by this component

	// Lifecycle (生命周期)
	Age       float64 // Seconds since the effect was triggered
	StopAfter float64 // Stop emitting after this many seconds (0 = let the effect decide)
	Paused    bool    // Skip updates while true; the effect keeps drawing

	// Orientation (radians) applied to newly spawned particles.
	Orientation float64

	// Attractor in world coordinates, used by systems with a user-defined attractor.
	AttractorX, AttractorY float64
	HasAttractor           bool
}
