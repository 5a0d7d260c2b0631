package entities

import (
	"errors"
	"strings"
	"testing"

	"github.com/gonewx/particlefx/internal/particle"
	"github.com/gonewx/particlefx/pkg/components"
	"github.com/gonewx/particlefx/pkg/ecs"
)

// mockLoader 返回预置的效果定义
type mockLoader map[string]*particle.EffectDefinition

func (m mockLoader) LoadEffectDefinition(name string) (*particle.EffectDefinition, error) {
	def, ok := m[name]
	if !ok {
		return nil, errors.New("effect not found")
	}
	return def, nil
}

func sparkDefinition() *particle.EffectDefinition {
	return &particle.EffectDefinition{
		Name: "spark",
		Systems: []particle.Definition{{
			Name:    "core",
			Enabled: true,
			Emitter: particle.Emitter{
				Shape:        particle.ShapePoint,
				EmissionRate: 10,
				Mode:         particle.ModeLooping,
			},
			Keyframes:        []particle.Keyframe{{Time: 0, Color: particle.White, Size: particle.Vec2{X: 1, Y: 1}}},
			MaxParticles:     8,
			ParticleLifetime: 1,
			Damping:          1,
			MaxSpeedScale:    1,
			AnimationFrames:  []string{"dot"},
		}},
	}
}

func TestCreateParticleEffect(t *testing.T) {
	em := ecs.NewEntityManager()
	loader := mockLoader{"spark": sparkDefinition()}

	id, err := CreateParticleEffect(em, loader, "spark", 120, 80, EffectOptions{StopAfter: 2, Orientation: 0.5})
	if err != nil {
		t.Fatalf("CreateParticleEffect failed: %v", err)
	}

	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok {
		t.Fatal("Expected PositionComponent")
	}
	if pos.X != 120 || pos.Y != 80 {
		t.Errorf("position = (%v, %v), want (120, 80)", pos.X, pos.Y)
	}

	effect, ok := ecs.GetComponent[*components.EffectComponent](em, id)
	if !ok {
		t.Fatal("Expected EffectComponent")
	}
	if effect.Name != "spark" {
		t.Errorf("name = %q, want spark", effect.Name)
	}
	if effect.StopAfter != 2 || effect.Orientation != 0.5 {
		t.Errorf("options not copied: stopAfter=%v orientation=%v", effect.StopAfter, effect.Orientation)
	}
	if effect.Effect == nil {
		t.Fatal("Expected effect instance")
	}
	if p := effect.Effect.Position(); p.X != 120 || p.Y != 80 {
		t.Errorf("effect position = %v, want (120, 80)", p)
	}
	if len(effect.Effect.Systems()) != 1 {
		t.Errorf("Expected 1 system, got %d", len(effect.Effect.Systems()))
	}
}

func TestCreateParticleEffect_Errors(t *testing.T) {
	em := ecs.NewEntityManager()

	loader := mockLoader{"spark": sparkDefinition(), "broken": nil}

	tests := []struct {
		name    string
		em      *ecs.EntityManager
		loader  EffectLoader
		effect  string
		wantErr string
	}{
		{"nil entity manager", nil, loader, "spark", "entity manager"},
		{"nil loader", em, nil, "spark", "effect loader"},
		{"unknown effect", em, loader, "missing", "failed to load effect 'missing'"},
		{"nil definition", em, loader, "broken", "failed to create effect 'broken'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateParticleEffect(tt.em, tt.loader, tt.effect, 0, 0, EffectOptions{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}

	if em.EntityCount() != 0 {
		t.Errorf("failed creations must not leave entities, got %d", em.EntityCount())
	}
}
