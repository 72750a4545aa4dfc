package components

import (
	"github.com/decker502/proptween/pkg/property"
	"github.com/decker502/proptween/pkg/types"
)

// 配置文件中使用的组件类型名
const (
	TransformName = "Transform"
	ShapeName     = "Shape"
	TextName      = "Text"
)

// RegisterAnimatable 向访问表登记所有可补间的组件属性
//
//	Transform.Position (vector3)  Transform.Scale (vector2)  Transform.Rotation (float)
//	Shape.Size (vector2)          Shape.Tint (color)         Shape.Alpha (float)
//	Text.FontSize (integer)       Text.Score (integer)
func RegisterAnimatable(r *property.Registry) error {
	steps := []func() error{
		func() error { return property.RegisterComponent[*TransformComponent](r, TransformName) },
		func() error {
			return property.RegisterField(r, TransformName, "Position", func(c *TransformComponent) *types.Vector3 { return &c.Position })
		},
		func() error {
			return property.RegisterField(r, TransformName, "Scale", func(c *TransformComponent) *types.Vector2 { return &c.Scale })
		},
		func() error {
			return property.RegisterField(r, TransformName, "Rotation", func(c *TransformComponent) *float64 { return &c.Rotation })
		},

		func() error { return property.RegisterComponent[*ShapeComponent](r, ShapeName) },
		func() error {
			return property.RegisterField(r, ShapeName, "Size", func(c *ShapeComponent) *types.Vector2 { return &c.Size })
		},
		func() error {
			return property.RegisterField(r, ShapeName, "Tint", func(c *ShapeComponent) *types.Color { return &c.Tint })
		},
		func() error {
			return property.RegisterField(r, ShapeName, "Alpha", func(c *ShapeComponent) *float64 { return &c.Alpha })
		},

		func() error { return property.RegisterComponent[*TextComponent](r, TextName) },
		func() error {
			return property.RegisterField(r, TextName, "FontSize", func(c *TextComponent) *int { return &c.FontSize })
		},
		func() error {
			return property.RegisterField(r, TextName, "Score", func(c *TextComponent) *int { return &c.Score })
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
