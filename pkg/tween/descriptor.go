// Package tween 是声明式属性补间引擎
//
// 核心流程：
//  1. Controller.Initialize() 为每个 (目标, 组件, 属性) 记录一次初始值（先到先得）
//  2. RunAll / RunSubset / TriggerOne 为描述符创建 Driver 并加入运行集合
//  3. 调度器每帧调用 Controller.Update(dt)，每个 Driver 推进一步并写回属性
//  4. Driver 自然完成时写入精确终值并调用完成回调；被取消时两者都不发生
//
// 引擎是单线程的：所有方法都必须在调度循环所在的 goroutine 上调用。
package tween

import (
	"fmt"

	"github.com/decker502/proptween/pkg/ecs"
	"github.com/decker502/proptween/pkg/types"
	"github.com/decker502/proptween/pkg/utils"
)

// TargetRef 描述符的目标对象
// Linked 为 false 时指向控制器所属实体，否则指向 Entity（不拥有其生命周期）
type TargetRef struct {
	Linked bool
	Entity ecs.EntityID
}

// Self 指向控制器自身所属的实体
func Self() TargetRef {
	return TargetRef{}
}

// LinkedTo 指向另一个实体
func LinkedTo(id ecs.EntityID) TargetRef {
	return TargetRef{Linked: true, Entity: id}
}

// Descriptor 一条属性动画的静态描述，运行期只读
type Descriptor struct {
	// Name 仅用于调试和日志
	Name string

	Target        TargetRef
	ComponentType string
	PropertyName  string

	// Value 目标值，Value.Kind 决定属性类型
	Value types.Value

	// Duration 秒；<= 0 时在第一次 tick 立即完成
	Duration float64
	Easing   utils.EasingKind

	// OnComplete 每次自然完成时按顺序调用一次，取消时不调用
	OnComplete []func()
}

// Validate 检查描述符自身的一致性（不访问目标对象）
func (d Descriptor) Validate() error {
	if !d.Value.Kind.Valid() {
		return fmt.Errorf("descriptor %q: invalid value kind %v", d.Name, d.Value.Kind)
	}
	if d.ComponentType == "" || d.PropertyName == "" {
		return fmt.Errorf("descriptor %q: component and property are required", d.Name)
	}
	if d.Target.Linked && d.Target.Entity == ecs.InvalidEntity {
		return fmt.Errorf("descriptor %q: linked target has no entity", d.Name)
	}
	return nil
}

// label 日志用名称
func (d Descriptor) label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ComponentType + "." + d.PropertyName
}
