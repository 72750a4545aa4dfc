package property

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/decker502/proptween/pkg/ecs"
	"github.com/decker502/proptween/pkg/types"
)

// FieldType 可补间字段的 Go 类型，与 types.ValueKind 一一对应
type FieldType interface {
	types.Vector2 | types.Vector3 | types.Color | int | float64
}

type propertyEntry struct {
	kind types.ValueKind
	get  func(component interface{}) types.Value
	set  func(component interface{}, v types.Value)
}

type componentEntry struct {
	name  string
	typ   reflect.Type
	props map[string]propertyEntry
}

// Registry 基于 EntityManager 的属性访问表
type Registry struct {
	entityManager *ecs.EntityManager
	components    map[string]*componentEntry
}

// NewRegistry 创建空的访问表
func NewRegistry(em *ecs.EntityManager) *Registry {
	return &Registry{
		entityManager: em,
		components:    make(map[string]*componentEntry),
	}
}

// RegisterComponent 以名称注册组件类型 T（通常是指针类型，如 *TransformComponent）
func RegisterComponent[T any](r *Registry, name string) error {
	if name == "" {
		return fmt.Errorf("component name must not be empty")
	}
	if _, exists := r.components[name]; exists {
		return fmt.Errorf("component %q already registered", name)
	}
	r.components[name] = &componentEntry{
		name:  name,
		typ:   reflect.TypeOf((*T)(nil)).Elem(),
		props: make(map[string]propertyEntry),
	}
	return nil
}

// RegisterField 为已注册组件登记一个可补间字段
// field 返回组件实例中字段的指针，例如 func(c *TransformComponent) *types.Vector3 { return &c.Position }
func RegisterField[T any, V FieldType](r *Registry, component, property string, field func(T) *V) error {
	entry, ok := r.components[component]
	if !ok {
		return fmt.Errorf("component %q not registered", component)
	}
	if entry.typ != reflect.TypeOf((*T)(nil)).Elem() {
		return fmt.Errorf("component %q is %v, not %v", component, entry.typ, reflect.TypeOf((*T)(nil)).Elem())
	}
	if _, exists := entry.props[property]; exists {
		return fmt.Errorf("property %s.%s already registered", component, property)
	}

	kind := kindOf[V]()
	entry.props[property] = propertyEntry{
		kind: kind,
		get: func(c interface{}) types.Value {
			return wrapValue(kind, *field(c.(T)))
		},
		set: func(c interface{}, v types.Value) {
			*field(c.(T)) = unwrapValue[V](v)
		},
	}
	return nil
}

// EntityManager 访问表所绑定的实体管理器
func (r *Registry) EntityManager() *ecs.EntityManager {
	return r.entityManager
}

// Lookup 不访问实体，只查询 (组件, 属性) 是否注册及其类型
func (r *Registry) Lookup(component, property string) (types.ValueKind, error) {
	entry, ok := r.components[component]
	if !ok {
		return 0, ErrComponentMissing
	}
	pe, ok := entry.props[property]
	if !ok {
		return 0, ErrPropertyMissing
	}
	return pe.kind, nil
}

// Components 返回已注册的组件名（排序）
func (r *Registry) Components() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Properties 返回组件已注册的属性名（排序）；组件未注册时返回 nil
func (r *Registry) Properties(component string) []string {
	entry, ok := r.components[component]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(entry.props))
	for name := range entry.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve 实现 Accessor
func (r *Registry) Resolve(target ecs.EntityID, componentType, propertyName string) (Binding, error) {
	fail := func(err error) (Binding, error) {
		return nil, &ResolveError{Target: target, Component: componentType, Property: propertyName, Err: err}
	}

	if !r.entityManager.EntityExists(target) {
		return fail(ErrTargetMissing)
	}
	entry, ok := r.components[componentType]
	if !ok {
		return fail(ErrComponentMissing)
	}
	if !r.entityManager.HasComponent(target, entry.typ) {
		return fail(ErrComponentMissing)
	}
	pe, ok := entry.props[propertyName]
	if !ok {
		return fail(ErrPropertyMissing)
	}

	return &binding{
		registry: r,
		target:   target,
		entry:    entry,
		prop:     pe,
		name:     propertyName,
	}, nil
}

type binding struct {
	registry *Registry
	target   ecs.EntityID
	entry    *componentEntry
	prop     propertyEntry
	name     string
}

func (b *binding) Kind() types.ValueKind {
	return b.prop.kind
}

func (b *binding) component() (interface{}, error) {
	em := b.registry.entityManager
	if !em.EntityExists(b.target) {
		return nil, b.wrap(ErrTargetMissing)
	}
	comp, ok := em.GetComponent(b.target, b.entry.typ)
	if !ok {
		return nil, b.wrap(ErrComponentMissing)
	}
	return comp, nil
}

func (b *binding) wrap(err error) error {
	return &ResolveError{Target: b.target, Component: b.entry.name, Property: b.name, Err: err}
}

func (b *binding) Get() (types.Value, error) {
	comp, err := b.component()
	if err != nil {
		return types.Value{}, err
	}
	return b.prop.get(comp), nil
}

func (b *binding) Set(v types.Value) error {
	if v.Kind != b.prop.kind {
		return b.wrap(fmt.Errorf("%w: property is %v, value is %v", ErrKindMismatch, b.prop.kind, v.Kind))
	}
	comp, err := b.component()
	if err != nil {
		return err
	}
	b.prop.set(comp, v)
	return nil
}

func kindOf[V FieldType]() types.ValueKind {
	var zero V
	switch any(zero).(type) {
	case types.Vector2:
		return types.KindVector2
	case types.Vector3:
		return types.KindVector3
	case types.Color:
		return types.KindColor
	case int:
		return types.KindInteger
	default:
		return types.KindFloat
	}
}

func wrapValue(kind types.ValueKind, field interface{}) types.Value {
	v := types.Value{Kind: kind}
	switch f := field.(type) {
	case types.Vector2:
		v.Vec2 = f
	case types.Vector3:
		v.Vec3 = f
	case types.Color:
		v.Color = f
	case int:
		v.Int = f
	case float64:
		v.Float = f
	}
	return v
}

func unwrapValue[V FieldType](v types.Value) V {
	var out V
	switch p := any(&out).(type) {
	case *types.Vector2:
		*p = v.Vec2
	case *types.Vector3:
		*p = v.Vec3
	case *types.Color:
		*p = v.Color
	case *int:
		*p = v.Int
	case *float64:
		*p = v.Float
	}
	return out
}
