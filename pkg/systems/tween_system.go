package systems

import (
	"github.com/decker502/proptween/pkg/components"
	"github.com/decker502/proptween/pkg/ecs"
)

// TweenSystem 补间调度系统
// 每帧对每个带 AnimateComponent 的实体调用一次 Controller.Update(dt)
//
// 实体按 ID 升序处理，同一帧内的写入顺序因此是确定的。
type TweenSystem struct {
	entityManager *ecs.EntityManager
}

// NewTweenSystem 创建补间调度系统
func NewTweenSystem(em *ecs.EntityManager) *TweenSystem {
	return &TweenSystem{
		entityManager: em,
	}
}

// Update 推进所有控制器
func (s *TweenSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.AnimateComponent](s.entityManager)
	for _, entityID := range entities {
		anim, ok := ecs.GetComponent[*components.AnimateComponent](s.entityManager, entityID)
		if !ok || anim.Controller == nil {
			continue
		}
		anim.Controller.Update(deltaTime)
	}
}

// IsAnimating 是否还有任何控制器在运行
func (s *TweenSystem) IsAnimating() bool {
	for _, entityID := range ecs.GetEntitiesWith1[*components.AnimateComponent](s.entityManager) {
		anim, ok := ecs.GetComponent[*components.AnimateComponent](s.entityManager, entityID)
		if ok && anim.Controller != nil && anim.Controller.IsAnimating() {
			return true
		}
	}
	return false
}
