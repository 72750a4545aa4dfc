package config

import (
	"fmt"
	"log"
	"sort"
)

// ActionContext 完成动作被调用时的上下文
type ActionContext struct {
	EntityID string // 场景中的实体 ID
	State    string // 状态名（未命名时为 Component.Property）
}

// ActionFunc 完成动作
type ActionFunc func(ctx ActionContext)

// ActionRegistry 按名称登记场景文件中 on_complete 引用的动作
//
// 内置动作：
//   - log:   记录一行日志
//   - count: 按 "实体/状态" 累计完成次数，可通过 Count 查询
type ActionRegistry struct {
	actions map[string]ActionFunc
	counts  map[string]int
}

// NewActionRegistry 创建包含内置动作的注册表
func NewActionRegistry() *ActionRegistry {
	r := &ActionRegistry{
		actions: make(map[string]ActionFunc),
		counts:  make(map[string]int),
	}
	r.actions["log"] = func(ctx ActionContext) {
		log.Printf("[Action] %s: %s 完成", ctx.EntityID, ctx.State)
	}
	r.actions["count"] = func(ctx ActionContext) {
		r.counts[countKey(ctx.EntityID, ctx.State)]++
	}
	return r
}

// Register 登记自定义动作；名称重复时返回错误
func (r *ActionRegistry) Register(name string, fn ActionFunc) error {
	if name == "" || fn == nil {
		return fmt.Errorf("action name and function are required")
	}
	if _, exists := r.actions[name]; exists {
		return fmt.Errorf("action %q already registered", name)
	}
	r.actions[name] = fn
	return nil
}

// Has 名称是否已登记
func (r *ActionRegistry) Has(name string) bool {
	_, ok := r.actions[name]
	return ok
}

// Bind 把动作名绑定到具体上下文，返回可直接作为完成回调的函数
func (r *ActionRegistry) Bind(name string, ctx ActionContext) (func(), error) {
	fn, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("unknown action %q (known: %v)", name, r.Names())
	}
	return func() { fn(ctx) }, nil
}

// Names 已登记的动作名（排序）
func (r *ActionRegistry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count count 动作对某个状态的累计次数
func (r *ActionRegistry) Count(entityID, state string) int {
	return r.counts[countKey(entityID, state)]
}

// ValidateActions 检查场景中引用的动作名是否都已登记
func (c *SceneConfig) ValidateActions(r *ActionRegistry) error {
	for _, e := range c.Entities {
		if e.Animator == nil {
			continue
		}
		for j, s := range e.Animator.States {
			for _, name := range s.OnComplete {
				if !r.Has(name) {
					return fmt.Errorf("entity %q state #%d: unknown action %q", e.ID, j, name)
				}
			}
		}
	}
	return nil
}

func countKey(entityID, state string) string {
	return entityID + "/" + state
}
