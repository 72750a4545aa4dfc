package components

import "github.com/decker502/proptween/pkg/types"

// ShapeComponent 矩形色块的视觉表现
//
// 可补间属性：Size (vector2)、Tint (color)、Alpha (float)
// 最终不透明度 = Tint.A * Alpha
type ShapeComponent struct {
	Size  types.Vector2
	Tint  types.Color
	Alpha float64
}
