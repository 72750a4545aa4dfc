package components

import "github.com/decker502/proptween/pkg/tween"

// AnimateComponent 将补间控制器挂到其所属实体上
// TweenSystem 每帧推进所有带此组件的控制器
type AnimateComponent struct {
	Controller *tween.Controller
}
