// Package property 提供补间引擎使用的属性访问能力
//
// 引擎只依赖 Accessor 接口：给定目标实体、组件类型名和属性名，解析出一对类型化的
// getter/setter。Registry 是基于 ECS 的实现，使用注册阶段建立的静态映射表
// (组件类型名, 属性名) -> 访问函数，运行时不对字段做反射查找。
package property

import (
	"errors"
	"fmt"

	"github.com/decker502/proptween/pkg/ecs"
	"github.com/decker502/proptween/pkg/types"
)

// 解析错误
var (
	// ErrTargetMissing 目标实体不存在（或已被删除）
	ErrTargetMissing = errors.New("target missing")
	// ErrComponentMissing 组件类型未注册，或目标实体上没有该组件
	ErrComponentMissing = errors.New("component missing")
	// ErrPropertyMissing 组件存在但没有该属性
	ErrPropertyMissing = errors.New("property missing")
	// ErrKindMismatch 值类型与属性类型不一致
	ErrKindMismatch = errors.New("value kind mismatch")
)

// ResolveError 带上下文的解析错误，可用 errors.Is 匹配上面的哨兵错误
type ResolveError struct {
	Target    ecs.EntityID
	Component string
	Property  string
	Err       error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("entity %d %s.%s: %v", e.Target, e.Component, e.Property, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Binding 已解析的属性
//
// Get/Set 每次调用都会重新定位组件：目标在补间过程中被删除时返回
// ErrTargetMissing / ErrComponentMissing，驱动器据此静默终止。
type Binding interface {
	Kind() types.ValueKind
	Get() (types.Value, error)
	Set(v types.Value) error
}

// Accessor 属性访问能力
type Accessor interface {
	Resolve(target ecs.EntityID, componentType, propertyName string) (Binding, error)
}
