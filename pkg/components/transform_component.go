package components

import "github.com/decker502/proptween/pkg/types"

// TransformComponent 实体的空间变换
//
// 可补间属性：
//   - Position (vector3) 屏幕坐标，Z 用于绘制排序
//   - Scale    (vector2) 1.0 = 原始大小
//   - Rotation (float)   弧度
type TransformComponent struct {
	Position types.Vector3
	Scale    types.Vector2
	Rotation float64
}

// NewTransformComponent 创建位于 (x, y) 的默认变换
func NewTransformComponent(x, y float64) *TransformComponent {
	return &TransformComponent{
		Position: types.Vector3{X: x, Y: y},
		Scale:    types.Vector2{X: 1, Y: 1},
	}
}
