package tween

import (
	"github.com/decker502/proptween/pkg/property"
	"github.com/decker502/proptween/pkg/types"
	"github.com/decker502/proptween/pkg/utils"
	"github.com/google/uuid"
)

// DriverState 驱动器状态
//
//	Pending -> Running -> Completed
//	                   -> Cancelled
type DriverState int

const (
	DriverPending DriverState = iota
	DriverRunning
	DriverCompleted
	DriverCancelled
)

func (s DriverState) String() string {
	switch s {
	case DriverPending:
		return "pending"
	case DriverRunning:
		return "running"
	case DriverCompleted:
		return "completed"
	case DriverCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Driver 一条描述符的一次运行
//
// 起始值在 start() 时重新读取，因此对正在运行的属性再次触发会从当前值继续，
// 而不是从初始值重新开始。
type Driver struct {
	id    uuid.UUID
	label string

	binding  property.Binding
	start    types.Value
	dest     types.Value
	duration float64
	easing   utils.EasingKind

	onComplete []func()

	progress float64
	state    DriverState
	err      error
}

func newDriver(label string, binding property.Binding, dest types.Value, duration float64, easing utils.EasingKind, onComplete []func()) *Driver {
	return &Driver{
		id:         uuid.New(),
		label:      label,
		binding:    binding,
		dest:       dest,
		duration:   duration,
		easing:     easing,
		onComplete: onComplete,
		state:      DriverPending,
	}
}

// begin Pending -> Running：读取当前值作为插值起点
func (d *Driver) begin() error {
	if d.state != DriverPending {
		return nil
	}
	v, err := d.binding.Get()
	if err != nil {
		d.abort(err)
		return err
	}
	d.start = v
	d.state = DriverRunning
	return nil
}

// Tick 推进一步，返回驱动器是否已结束（完成或取消）
//
// progress += dt/duration；未到 1 时写入缓动插值，到达 1 时写入精确终值并调用完成回调。
// duration <= 0 视为立即完成。写入失败（目标已被删除等）视为隐式取消，不调用回调。
func (d *Driver) Tick(dt float64) bool {
	if d.state != DriverRunning {
		return d.Finished()
	}

	if dt < 0 {
		dt = 0
	}
	if d.duration <= 0 {
		d.progress = 1
	} else {
		d.progress += dt / d.duration
	}

	if d.progress < 1 {
		shaped := utils.Ease(utils.Clamp01(d.progress), d.easing)
		if err := d.binding.Set(types.LerpValue(d.start, d.dest, shaped)); err != nil {
			d.abort(err)
			return true
		}
		return false
	}

	d.progress = 1
	if err := d.binding.Set(d.dest); err != nil {
		d.abort(err)
		return true
	}
	d.state = DriverCompleted
	for _, fn := range d.onComplete {
		if fn != nil {
			fn()
		}
	}
	return true
}

// Cancel 取消驱动器：不再写入，不调用完成回调。已写入的值不回滚。
func (d *Driver) Cancel() {
	if d.state == DriverPending || d.state == DriverRunning {
		d.state = DriverCancelled
	}
}

func (d *Driver) abort(err error) {
	d.err = err
	d.state = DriverCancelled
}

// ID 运行实例标识
func (d *Driver) ID() uuid.UUID {
	return d.id
}

// Label 描述符名称
func (d *Driver) Label() string {
	return d.label
}

// State 当前状态
func (d *Driver) State() DriverState {
	return d.state
}

// Progress 线性进度 [0, 1]
func (d *Driver) Progress() float64 {
	return d.progress
}

// Finished 是否已完成或取消
func (d *Driver) Finished() bool {
	return d.state == DriverCompleted || d.state == DriverCancelled
}

// Err 导致隐式取消的错误（正常完成或显式取消时为 nil）
func (d *Driver) Err() error {
	return d.err
}
