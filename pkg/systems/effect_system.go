package systems

import (
	"log"
	"sort"

	"github.com/gonewx/particlefx/pkg/components"
	"github.com/gonewx/particlefx/pkg/ecs"
	"github.com/gonewx/particlefx/pkg/entities"
	"github.com/gonewx/particlefx/pkg/particles"
)

// EffectSystem 管理所有粒子效果实体的生命周期
//
// 职责：
//   - TriggerEffect: 按名称创建效果实体
//   - Update: 同步位置/朝向/吸引点，推进模拟，清理已结束的效果
//   - Draw: 按 Y 坐标排序后绘制（远处先画）
//
// 遵循 ECS 零耦合原则：只通过 EntityManager 访问效果状态。
type EffectSystem struct {
	entityManager *ecs.EntityManager
	loader        entities.EffectLoader
	images        particles.ImageProvider

	// Verbose enables per-effect lifecycle logs.
	Verbose bool
}

// NewEffectSystem creates an effect system. loader resolves effect names,
// images resolves animation frames at draw time.
func NewEffectSystem(em *ecs.EntityManager, loader entities.EffectLoader, images particles.ImageProvider) *EffectSystem {
	return &EffectSystem{
		entityManager: em,
		loader:        loader,
		images:        images,
	}
}

// TriggerEffect starts the named effect at (x, y).
func (s *EffectSystem) TriggerEffect(name string, x, y float64) (ecs.EntityID, error) {
	return s.TriggerEffectWith(name, x, y, entities.EffectOptions{})
}

// TriggerEffectWith starts the named effect with explicit options.
func (s *EffectSystem) TriggerEffectWith(name string, x, y float64, opts entities.EffectOptions) (ecs.EntityID, error) {
	opts.Verbose = opts.Verbose || s.Verbose
	return entities.CreateParticleEffect(s.entityManager, s.loader, name, x, y, opts)
}

// Update advances every effect by dt seconds and destroys the ones that died.
func (s *EffectSystem) Update(dt float64) {
	ids := ecs.GetEntitiesWith2[*components.EffectComponent, *components.PositionComponent](s.entityManager)

	for _, id := range ids {
		effect, ok := ecs.GetComponent[*components.EffectComponent](s.entityManager, id)
		if !ok || effect.Effect == nil {
			continue
		}
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if effect.Paused {
			continue
		}

		e := effect.Effect
		e.Move(pos.X, pos.Y)
		e.SetOrientation(effect.Orientation)
		if effect.HasAttractor {
			e.SetAttractor(effect.AttractorX, effect.AttractorY)
		} else {
			e.SetAttractor(pos.X, pos.Y)
		}

		wasStopped := effect.StopAfter > 0 && effect.Age >= effect.StopAfter
		effect.Age += dt
		if effect.StopAfter > 0 && !wasStopped && effect.Age >= effect.StopAfter {
			e.Stop()
			if s.Verbose {
				log.Printf("[EffectSystem] 效果 '%s' (实体 %d) 到达停止时间 %.2fs", effect.Name, id, effect.StopAfter)
			}
		}

		e.Update(dt)

		if !e.IsAlive() {
			if s.Verbose {
				log.Printf("[EffectSystem] 效果 '%s' (实体 %d) 已结束，存活 %.2fs", effect.Name, id, effect.Age)
			}
			s.entityManager.DestroyEntity(id)
		}
	}

	s.entityManager.RemoveMarkedEntities()
}

// Draw draws all effects, ordered by Y then entity ID.
func (s *EffectSystem) Draw(r particles.Renderer) {
	ids := ecs.GetEntitiesWith2[*components.EffectComponent, *components.PositionComponent](s.entityManager)

	type drawItem struct {
		id     ecs.EntityID
		y      float64
		effect *particles.Effect
	}
	items := make([]drawItem, 0, len(ids))
	for _, id := range ids {
		effect, _ := ecs.GetComponent[*components.EffectComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if effect == nil || effect.Effect == nil || pos == nil {
			continue
		}
		items = append(items, drawItem{id: id, y: pos.Y, effect: effect.Effect})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].y != items[j].y {
			return items[i].y < items[j].y
		}
		return items[i].id < items[j].id
	})

	for _, item := range items {
		item.effect.Draw(r, s.images)
	}
}

// StopAll stops emission on every effect; live particles play out.
func (s *EffectSystem) StopAll() {
	for _, id := range ecs.GetEntitiesWith1[*components.EffectComponent](s.entityManager) {
		if effect, ok := ecs.GetComponent[*components.EffectComponent](s.entityManager, id); ok && effect.Effect != nil {
			effect.Effect.Stop()
		}
	}
}

// ActiveEffects returns the number of effect entities.
func (s *EffectSystem) ActiveEffects() int {
	return len(ecs.GetEntitiesWith1[*components.EffectComponent](s.entityManager))
}

// NumParticles returns the total live particle count over all effects.
func (s *EffectSystem) NumParticles() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.EffectComponent](s.entityManager) {
		if effect, ok := ecs.GetComponent[*components.EffectComponent](s.entityManager, id); ok && effect.Effect != nil {
			n += effect.Effect.NumParticles()
		}
	}
	return n
}

// Clear destroys every effect immediately, live particles included.
func (s *EffectSystem) Clear() int {
	ids := ecs.GetEntitiesWith1[*components.EffectComponent](s.entityManager)
	for _, id := range ids {
		s.entityManager.DestroyEntity(id)
	}
	s.entityManager.RemoveMarkedEntities()
	if s.Verbose {
		log.Printf("[EffectSystem] 清除了 %d 个效果", len(ids))
	}
	return len(ids)
}

// SetAttractor sets a world-space attractor on every effect. Systems with a
// user-defined attractor are pulled towards it on the next Update.
func (s *EffectSystem) SetAttractor(x, y float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.EffectComponent](s.entityManager) {
		if effect, ok := ecs.GetComponent[*components.EffectComponent](s.entityManager, id); ok {
			effect.AttractorX, effect.AttractorY = x, y
			effect.HasAttractor = true
		}
	}
}

// ClearAttractor returns every effect to using its own position as attractor.
func (s *EffectSystem) ClearAttractor() {
	for _, id := range ecs.GetEntitiesWith1[*components.EffectComponent](s.entityManager) {
		if effect, ok := ecs.GetComponent[*components.EffectComponent](s.entityManager, id); ok {
			effect.HasAttractor = false
		}
	}
}
