package tween

import (
	"log"

	"github.com/decker502/proptween/pkg/ecs"
	"github.com/decker502/proptween/pkg/property"
	"github.com/decker502/proptween/pkg/types"
	"github.com/decker502/proptween/pkg/utils"
	"github.com/google/uuid"
)

// RunningAnimation 运行中驱动器的快照
type RunningAnimation struct {
	ID       uuid.UUID
	Name     string
	Progress float64
	State    DriverState
}

// Option 控制器选项
type Option func(*Controller)

// WithResetDuration 设置 Reset 使用的时长（秒），与各描述符自身的时长无关
func WithResetDuration(seconds float64) Option {
	return func(c *Controller) {
		c.resetDuration = seconds
	}
}

// WithResetEasing 设置 Reset 使用的曲线
func WithResetEasing(kind utils.EasingKind) Option {
	return func(c *Controller) {
		c.resetEasing = kind
	}
}

// WithLogger 替换日志输出（默认 log.Default()）
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller 管理一组描述符、运行中的驱动器和初始值表
//
// 控制器独占运行集合与初始值表；描述符由配置持有，运行期只读。
type Controller struct {
	owner       ecs.EntityID
	accessor    property.Accessor
	descriptors []Descriptor

	baselines   *BaselineTable
	running     []*Driver
	initialized bool

	resetDuration float64
	resetEasing   utils.EasingKind

	logger *log.Logger
}

// NewController 创建控制器
// owner 是未链接描述符的目标实体
func NewController(owner ecs.EntityID, accessor property.Accessor, descriptors []Descriptor, opts ...Option) *Controller {
	c := &Controller{
		owner:       owner,
		accessor:    accessor,
		descriptors: append([]Descriptor(nil), descriptors...),
		baselines:   NewBaselineTable(),
		resetEasing: utils.EaseKindLinear,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize 记录每个 (目标, 组件, 属性) 的初始值，先到先得
//
// 必须在任何触发之前调用；重复调用无效果。无法解析的描述符记录日志后跳过。
func (c *Controller) Initialize() {
	if c.initialized {
		return
	}

	for i, d := range c.descriptors {
		key := c.baselineKey(d)
		if c.baselines.Has(key) {
			continue
		}

		binding, err := c.resolve(d)
		if err != nil {
			c.logger.Printf("[TweenController] 状态 #%d %q 无法记录初始值: %v", i, d.label(), err)
			continue
		}
		v, err := binding.Get()
		if err != nil {
			c.logger.Printf("[TweenController] 状态 #%d %q 读取初始值失败: %v", i, d.label(), err)
			continue
		}
		c.baselines.Capture(key, v)
	}

	c.initialized = true
	c.logger.Printf("[TweenController] 实体 %d 初始化完成: %d 个状态, %d 个初始值", c.owner, len(c.descriptors), c.baselines.Len())
}

// RunAll 触发全部描述符（按声明顺序）
// stopRunning 为 true 时先取消所有正在运行的动画。单个描述符解析失败只记录日志，不影响其他描述符。
func (c *Controller) RunAll(stopRunning bool) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if stopRunning {
		c.StopRunning()
	}
	for i := range c.descriptors {
		_ = c.trigger(i)
	}
	return nil
}

// RunSubset 按给定顺序触发指定索引的描述符
// 任一索引越界时返回 *IndexError，且不触发任何动画、不停止正在运行的动画。
func (c *Controller) RunSubset(indices []int, stopRunning bool) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	for _, i := range indices {
		if err := c.checkIndex(i); err != nil {
			return err
		}
	}
	if stopRunning {
		c.StopRunning()
	}
	for _, i := range indices {
		_ = c.trigger(i)
	}
	return nil
}

// TriggerOne 触发单个描述符
// 越界返回 *IndexError；解析失败记录日志并返回 *property.ResolveError，不创建驱动器。
func (c *Controller) TriggerOne(index int) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if err := c.checkIndex(index); err != nil {
		return err
	}
	return c.trigger(index)
}

// Reset 取消所有动画，然后把每个记录过初始值的属性从当前值补间回初始值
// 使用 reset 时长与曲线；不调用完成回调；跳过已无法解析的目标。
func (c *Controller) Reset() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	c.StopRunning()

	for _, b := range c.baselines.Entries() {
		binding, err := c.accessor.Resolve(b.Key.Target, b.Key.ComponentType, b.Key.PropertyName)
		if err != nil {
			c.logger.Printf("[TweenController] 重置 %s.%s 跳过: %v", b.Key.ComponentType, b.Key.PropertyName, err)
			continue
		}
		label := "reset:" + b.Key.ComponentType + "." + b.Key.PropertyName
		_ = c.spawn(label, binding, b.Value, c.resetDuration, c.resetEasing, nil)
	}
	return nil
}

// StopRunning 取消所有正在运行的驱动器并清空运行集合
// 已写入的属性值保持不变，完成回调不会被调用。
func (c *Controller) StopRunning() {
	for _, d := range c.running {
		d.Cancel()
	}
	c.running = nil
}

// Update 每个运行中的驱动器推进一步，移除已结束的驱动器
//
// 回调中新触发的驱动器从下一次 Update 开始推进；回调中被取消的驱动器在本帧不再写入。
func (c *Controller) Update(dt float64) {
	if len(c.running) == 0 {
		return
	}

	batch := append([]*Driver(nil), c.running...)
	for _, d := range batch {
		d.Tick(dt)
	}

	alive := c.running[:0]
	for _, d := range c.running {
		if !d.Finished() {
			alive = append(alive, d)
		}
	}
	c.running = alive
}

// trigger 解析并启动一个描述符（索引已校验）
func (c *Controller) trigger(index int) error {
	d := c.descriptors[index]

	binding, err := c.resolve(d)
	if err != nil {
		c.logger.Printf("[TweenController] 状态 #%d %q 无法触发: %v", index, d.label(), err)
		return err
	}
	return c.spawn(d.label(), binding, d.Value, d.Duration, d.Easing, d.OnComplete)
}

func (c *Controller) spawn(label string, binding property.Binding, dest types.Value, duration float64, easing utils.EasingKind, onComplete []func()) error {
	driver := newDriver(label, binding, dest, duration, easing, onComplete)
	if err := driver.begin(); err != nil {
		c.logger.Printf("[TweenController] %q 读取起始值失败: %v", label, err)
		return err
	}
	c.running = append(c.running, driver)
	return nil
}

// resolve 解析描述符并校验属性类型与描述符的值类型一致
func (c *Controller) resolve(d Descriptor) (property.Binding, error) {
	target := c.resolveTarget(d.Target)
	binding, err := c.accessor.Resolve(target, d.ComponentType, d.PropertyName)
	if err != nil {
		return nil, err
	}
	if binding.Kind() != d.Value.Kind {
		return nil, &property.ResolveError{
			Target:    target,
			Component: d.ComponentType,
			Property:  d.PropertyName,
			Err:       property.ErrKindMismatch,
		}
	}
	return binding, nil
}

func (c *Controller) resolveTarget(ref TargetRef) ecs.EntityID {
	if ref.Linked {
		return ref.Entity
	}
	return c.owner
}

func (c *Controller) baselineKey(d Descriptor) BaselineKey {
	return BaselineKey{
		Target:        c.resolveTarget(d.Target),
		ComponentType: d.ComponentType,
		PropertyName:  d.PropertyName,
	}
}

func (c *Controller) checkIndex(i int) error {
	if i < 0 || i >= len(c.descriptors) {
		return &IndexError{Index: i, Len: len(c.descriptors)}
	}
	return nil
}

// Issue 一个当前无法解析的描述符
type Issue struct {
	Index int
	Name  string
	Err   error
}

// Diagnose 尝试解析每个描述符并返回失败项，不修改任何状态
func (c *Controller) Diagnose() []Issue {
	var issues []Issue
	for i, d := range c.descriptors {
		if _, err := c.resolve(d); err != nil {
			issues = append(issues, Issue{Index: i, Name: d.label(), Err: err})
		}
	}
	return issues
}

// Owner 控制器所属实体
func (c *Controller) Owner() ecs.EntityID {
	return c.owner
}

// Initialized 是否已记录初始值
func (c *Controller) Initialized() bool {
	return c.initialized
}

// Descriptors 描述符副本
func (c *Controller) Descriptors() []Descriptor {
	return append([]Descriptor(nil), c.descriptors...)
}

// Baselines 初始值副本（记录顺序）
func (c *Controller) Baselines() []Baseline {
	return c.baselines.Entries()
}

// Running 运行中驱动器的快照
func (c *Controller) Running() []RunningAnimation {
	out := make([]RunningAnimation, 0, len(c.running))
	for _, d := range c.running {
		out = append(out, RunningAnimation{
			ID:       d.ID(),
			Name:     d.Label(),
			Progress: d.Progress(),
			State:    d.State(),
		})
	}
	return out
}

// IsAnimating 是否有正在运行的驱动器
func (c *Controller) IsAnimating() bool {
	return len(c.running) > 0
}
