package systems

import (
	"log"

	"github.com/decker502/proptween/pkg/components"
	"github.com/decker502/proptween/pkg/ecs"
	"github.com/decker502/proptween/pkg/utils"
)

// PointerInput 指针位置输入接口
// 用于依赖注入，支持测试时 mock
type PointerInput interface {
	CursorPosition() (int, int)
}

// ebitenPointerInput Ebitengine 默认实现（触摸优先，其次鼠标）
type ebitenPointerInput struct{}

func (e *ebitenPointerInput) CursorPosition() (int, int) {
	return utils.GetPointerPosition()
}

// defaultPointerInput 默认指针输入实例
var defaultPointerInput PointerInput = &ebitenPointerInput{}

// PointerListenerSystem 指针进入/离开监听系统
//
// 职责：
//   - 检测指针是否在监听区域内（TransformComponent.Position 为左上角，Bounds 随 Scale 缩放）
//   - 区域外 -> 区域内时执行 Enter 动作，区域内 -> 区域外时执行 Exit 动作
//   - 动作为 Reset 时调用 Controller.Reset()，否则调用 Controller.RunSubset(indices, true)
type PointerListenerSystem struct {
	entityManager *ecs.EntityManager
	input         PointerInput
}

// NewPointerListenerSystem 创建指针监听系统
func NewPointerListenerSystem(em *ecs.EntityManager) *PointerListenerSystem {
	return &PointerListenerSystem{
		entityManager: em,
		input:         defaultPointerInput,
	}
}

// NewPointerListenerSystemWithInput 创建带自定义指针输入的监听系统（用于测试和无窗口模拟）
func NewPointerListenerSystemWithInput(em *ecs.EntityManager, input PointerInput) *PointerListenerSystem {
	return &PointerListenerSystem{
		entityManager: em,
		input:         input,
	}
}

// Update 检测进入/离开并触发对应动作
func (s *PointerListenerSystem) Update(deltaTime float64) {
	px, py := s.input.CursorPosition()
	x, y := float64(px), float64(py)

	entities := ecs.GetEntitiesWith2[*components.PointerListenerComponent, *components.TransformComponent](s.entityManager)
	for _, entityID := range entities {
		listener, _ := ecs.GetComponent[*components.PointerListenerComponent](s.entityManager, entityID)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, entityID)
		if listener == nil || transform == nil {
			continue
		}

		inside := s.contains(x, y, listener, transform)
		if inside == listener.Hovered {
			continue
		}
		listener.Hovered = inside

		if inside {
			s.dispatch(entityID, "enter", listener.Enter)
		} else {
			s.dispatch(entityID, "exit", listener.Exit)
		}
	}
}

// contains 判断点是否在监听区域内（含边界）
func (s *PointerListenerSystem) contains(x, y float64, listener *components.PointerListenerComponent, transform *components.TransformComponent) bool {
	w := listener.BoundsW * transform.Scale.X
	h := listener.BoundsH * transform.Scale.Y
	left, top := transform.Position.X, transform.Position.Y
	return x >= left && x <= left+w && y >= top && y <= top+h
}

// dispatch 对实体自身的控制器执行动作
func (s *PointerListenerSystem) dispatch(entityID ecs.EntityID, event string, action components.ListenerAction) {
	if !action.Enabled {
		return
	}
	anim, ok := ecs.GetComponent[*components.AnimateComponent](s.entityManager, entityID)
	if !ok || anim.Controller == nil {
		log.Printf("[PointerListenerSystem] 实体 %d 没有动画控制器，忽略 %s 事件", entityID, event)
		return
	}

	var err error
	if action.Reset {
		err = anim.Controller.Reset()
	} else {
		err = anim.Controller.RunSubset(action.Indices, true)
	}
	if err != nil {
		log.Printf("[PointerListenerSystem] 实体 %d %s 动作失败: %v", entityID, event, err)
	}
}
