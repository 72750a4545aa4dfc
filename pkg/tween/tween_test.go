package tween

import (
	"bytes"
	"log"
	"testing"

	"github.com/decker502/proptween/pkg/ecs"
	"github.com/decker502/proptween/pkg/property"
	"github.com/decker502/proptween/pkg/types"
	"github.com/stretchr/testify/require"
)

// 测试用组件
type widget struct {
	Pos   types.Vector2
	Pos3  types.Vector3
	Tint  types.Color
	Count int
	Alpha float64
}

type fixture struct {
	em       *ecs.EntityManager
	registry *property.Registry
	owner    ecs.EntityID
	widget   *widget
	logs     *bytes.Buffer
	logger   *log.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	em := ecs.NewEntityManager()
	r := property.NewRegistry(em)
	require.NoError(t, property.RegisterComponent[*widget](r, "Widget"))
	require.NoError(t, property.RegisterField(r, "Widget", "Pos", func(w *widget) *types.Vector2 { return &w.Pos }))
	require.NoError(t, property.RegisterField(r, "Widget", "Pos3", func(w *widget) *types.Vector3 { return &w.Pos3 }))
	require.NoError(t, property.RegisterField(r, "Widget", "Tint", func(w *widget) *types.Color { return &w.Tint }))
	require.NoError(t, property.RegisterField(r, "Widget", "Count", func(w *widget) *int { return &w.Count }))
	require.NoError(t, property.RegisterField(r, "Widget", "Alpha", func(w *widget) *float64 { return &w.Alpha }))

	owner := em.CreateEntity()
	w := &widget{Alpha: 1}
	ecs.AddComponent(em, owner, w)

	logs := &bytes.Buffer{}
	return &fixture{
		em:       em,
		registry: r,
		owner:    owner,
		widget:   w,
		logs:     logs,
		logger:   log.New(logs, "", 0),
	}
}

// addWidget 创建另一个带 widget 组件的实体（用于链接目标）
func (f *fixture) addWidget(w *widget) ecs.EntityID {
	id := f.em.CreateEntity()
	ecs.AddComponent(f.em, id, w)
	return id
}

func (f *fixture) controller(descs []Descriptor, opts ...Option) *Controller {
	opts = append([]Option{WithLogger(f.logger)}, opts...)
	return NewController(f.owner, f.registry, descs, opts...)
}

// tickN 以固定步长推进 n 次
func tickN(c *Controller, n int, dt float64) {
	for i := 0; i < n; i++ {
		c.Update(dt)
	}
}

// runToEnd 推进直到没有运行中的动画（最多 max 次）
func runToEnd(t *testing.T, c *Controller, dt float64, max int) {
	t.Helper()
	for i := 0; i < max && c.IsAnimating(); i++ {
		c.Update(dt)
	}
	require.False(t, c.IsAnimating(), "animations still running after %d ticks", max)
}

func floatState(name string, dest float64, duration float64, counter *int) Descriptor {
	d := Descriptor{
		Name:          name,
		ComponentType: "Widget",
		PropertyName:  "Alpha",
		Value:         types.FloatValue(dest),
		Duration:      duration,
	}
	if counter != nil {
		d.OnComplete = []func(){func() { *counter++ }}
	}
	return d
}
