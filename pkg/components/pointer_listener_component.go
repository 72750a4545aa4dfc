package components

// ListenerAction 指针事件触发的动作
type ListenerAction struct {
	// Enabled 是否响应该事件
	Enabled bool
	// Reset 为 true 时恢复到初始值，忽略 Indices
	Reset bool
	// Indices 按顺序触发的状态索引（触发前停止正在运行的动画）
	Indices []int
}

// PointerListenerComponent 指针进入/离开监听
//
// 命中区域为 TransformComponent.Position 左上角起、Bounds 大小的矩形，
// 会随 Scale 缩放
type PointerListenerComponent struct {
	BoundsW, BoundsH float64

	Enter ListenerAction
	Exit  ListenerAction

	// Hovered 上一帧指针是否在区域内（由 PointerListenerSystem 维护）
	Hovered bool
}
