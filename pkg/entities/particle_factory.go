package entities

import (
	"fmt"
	"log"

	"github.com/gonewx/particlefx/internal/particle"
	"github.com/gonewx/particlefx/pkg/components"
	"github.com/gonewx/particlefx/pkg/ecs"
	"github.com/gonewx/particlefx/pkg/particles"
)

// EffectLoader resolves effect names to definitions.
// game.ResourceManager implements it.
type EffectLoader interface {
	LoadEffectDefinition(name string) (*particle.EffectDefinition, error)
}

// EffectOptions tune a single effect instance.
type EffectOptions struct {
	StopAfter   float64 // seconds, 0 = let the effect decide
	Orientation float64 // radians
	Random      particles.RandomSource
	Verbose     bool
}

// CreateParticleEffect creates an effect entity at the specified world position.
//
// Parameters:
//   - em: EntityManager instance for creating entities
//   - loader: resolves effectName to a definition (usually the ResourceManager)
//   - effectName: Name of the effect in the effect library (e.g., "campfire")
//   - worldX, worldY: World coordinates where the effect should be positioned
//
// Returns:
//   - ecs.EntityID: The ID of the created effect entity
//   - error: Error if the definition cannot be loaded or instantiated
//
// Example:
//
//	id, err := CreateParticleEffect(entityManager, resourceManager, "campfire", 400, 300, EffectOptions{})
//	if err != nil {
//	    log.Printf("Failed to create particle effect: %v", err)
//	}
func CreateParticleEffect(em *ecs.EntityManager, loader EffectLoader, effectName string, worldX, worldY float64, opts EffectOptions) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if loader == nil {
		return 0, fmt.Errorf("effect loader cannot be nil")
	}

	def, err := loader.LoadEffectDefinition(effectName)
	if err != nil {
		return 0, fmt.Errorf("failed to load effect '%s': %w", effectName, err)
	}

	var sysOpts []particles.Option
	if opts.Random != nil {
		sysOpts = append(sysOpts, particles.WithRandomSource(opts.Random))
	}
	if opts.Verbose {
		sysOpts = append(sysOpts, particles.WithVerbose(true))
	}

	effect, err := particles.NewEffect(def, sysOpts...)
	if err != nil {
		return 0, fmt.Errorf("failed to create effect '%s': %w", effectName, err)
	}
	effect.Move(worldX, worldY)
	effect.SetOrientation(opts.Orientation)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: worldX, Y: worldY})
	ecs.AddComponent(em, id, &components.EffectComponent{
		Name:        effectName,
		Effect:      effect,
		StopAfter:   opts.StopAfter,
		Orientation: opts.Orientation,
	})

	if opts.Verbose {
		log.Printf("[EffectFactory] Created effect '%s' (entity %d) at (%.1f, %.1f) with %d systems",
			effectName, id, worldX, worldY, len(effect.Systems()))
	}
	return id, nil
}
