package scenes

import (
	"fmt"
	"image/color"
	"log"
	"sort"

	"github.com/decker502/proptween/pkg/components"
	"github.com/decker502/proptween/pkg/config"
	"github.com/decker502/proptween/pkg/ecs"
	"github.com/decker502/proptween/pkg/property"
	"github.com/decker502/proptween/pkg/systems"
	"github.com/decker502/proptween/pkg/tween"
	"github.com/decker502/proptween/pkg/types"
	"github.com/decker502/proptween/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// debugGlyphHeight ebitenutil.DebugPrint 的字形高度，FontSize 以此为 1 倍缩放
const debugGlyphHeight = 16

var (
	backgroundColor = color.RGBA{R: 24, G: 26, B: 32, A: 255}
	outlineColor    = color.RGBA{R: 255, G: 255, B: 255, A: 160}
	progressColor   = color.RGBA{R: 120, G: 200, B: 255, A: 255}
)

// SceneOption 场景构建选项
type SceneOption func(*TweenScene)

// WithPointerInput 替换指针输入（无窗口模拟和测试使用）
func WithPointerInput(input systems.PointerInput) SceneOption {
	return func(s *TweenScene) {
		s.pointerInput = input
	}
}

// WithControllerLogger 为所有控制器设置日志输出
func WithControllerLogger(logger *log.Logger) SceneOption {
	return func(s *TweenScene) {
		s.logger = logger
	}
}

// PropertyValue 某个属性的当前值
type PropertyValue struct {
	Component string
	Property  string
	Value     types.Value
}

// SceneIssue 场景中无法解析的描述符
type SceneIssue struct {
	EntityID string
	tween.Issue
}

// TweenScene 由场景配置构建的可运行场景
//
// 每帧先运行指针监听系统，再推进所有补间控制器。
type TweenScene struct {
	name     string
	playback config.PlaybackConfig

	entityManager *ecs.EntityManager
	registry      *property.Registry

	ids   map[string]ecs.EntityID
	order []string

	pointerInput  systems.PointerInput
	logger        *log.Logger
	pointerSystem *systems.PointerListenerSystem
	tweenSystem   *systems.TweenSystem

	elapsed float64
	ticks   int

	pixel   *ebiten.Image
	scratch *ebiten.Image
}

// BuildTweenScene 根据配置创建实体、组件和控制器
//
// registry 必须已登记场景引用的组件（通常通过 components.RegisterAnimatable），
// 实体在 registry 绑定的 EntityManager 中创建。所有实体创建完成后才调用各控制器的
// Initialize，因此跨实体链接的初始值也能被正确记录。
func BuildTweenScene(cfg *config.SceneConfig, registry *property.Registry, actions *config.ActionRegistry, opts ...SceneOption) (*TweenScene, error) {
	if actions == nil {
		actions = config.NewActionRegistry()
	}
	if err := cfg.ValidateActions(actions); err != nil {
		return nil, err
	}

	s := &TweenScene{
		name:          cfg.Name,
		playback:      cfg.Playback,
		entityManager: registry.EntityManager(),
		registry:      registry,
		ids:           make(map[string]ecs.EntityID, len(cfg.Entities)),
	}
	for _, opt := range opts {
		opt(s)
	}

	// 第一遍：创建实体，链接引用需要所有 ID
	for _, e := range cfg.Entities {
		s.ids[e.ID] = s.entityManager.CreateEntity()
		s.order = append(s.order, e.ID)
	}

	// 第二遍：组件与控制器
	var controllers []*tween.Controller
	for _, e := range cfg.Entities {
		id := s.ids[e.ID]
		s.addComponents(id, e)

		if e.Animator == nil {
			continue
		}
		c, err := s.buildController(id, e, actions)
		if err != nil {
			return nil, err
		}
		ecs.AddComponent(s.entityManager, id, &components.AnimateComponent{Controller: c})
		controllers = append(controllers, c)
	}

	for _, c := range controllers {
		c.Initialize()
	}

	if s.pointerInput != nil {
		s.pointerSystem = systems.NewPointerListenerSystemWithInput(s.entityManager, s.pointerInput)
	} else {
		s.pointerSystem = systems.NewPointerListenerSystem(s.entityManager)
	}
	s.tweenSystem = systems.NewTweenSystem(s.entityManager)

	log.Printf("[TweenScene] 场景 %q 构建完成: %d 个实体, %d 个控制器", s.name, len(s.order), len(controllers))
	return s, nil
}

func (s *TweenScene) addComponents(id ecs.EntityID, e config.EntityConfig) {
	if e.Transform != nil {
		t := &components.TransformComponent{
			Position: e.Transform.Position,
			Scale:    types.Vector2{X: 1, Y: 1},
			Rotation: e.Transform.Rotation,
		}
		if e.Transform.Scale != nil {
			t.Scale = *e.Transform.Scale
		}
		ecs.AddComponent(s.entityManager, id, t)
	}

	if e.Shape != nil {
		shape := &components.ShapeComponent{
			Size:  e.Shape.Size,
			Tint:  types.Color{R: 1, G: 1, B: 1, A: 1},
			Alpha: 1,
		}
		if e.Shape.Tint != nil {
			shape.Tint = *e.Shape.Tint
		}
		if e.Shape.Alpha != nil {
			shape.Alpha = *e.Shape.Alpha
		}
		ecs.AddComponent(s.entityManager, id, shape)
	}

	if e.Text != nil {
		ecs.AddComponent(s.entityManager, id, &components.TextComponent{
			Text:     e.Text.Text,
			FontSize: e.Text.FontSize,
			Score:    e.Text.Score,
		})
	}

	if e.Listener != nil {
		ecs.AddComponent(s.entityManager, id, &components.PointerListenerComponent{
			BoundsW: e.Listener.Bounds.X,
			BoundsH: e.Listener.Bounds.Y,
			Enter:   listenerAction(e.Listener.Enter),
			Exit:    listenerAction(e.Listener.Exit),
		})
	}
}

func listenerAction(cfg config.ListenerActionConfig) components.ListenerAction {
	return components.ListenerAction{
		Enabled: cfg.Enabled(),
		Reset:   cfg.Reset,
		Indices: append([]int(nil), cfg.Indices...),
	}
}

func (s *TweenScene) buildController(id ecs.EntityID, e config.EntityConfig, actions *config.ActionRegistry) (*tween.Controller, error) {
	descs := make([]tween.Descriptor, 0, len(e.Animator.States))
	for i, st := range e.Animator.States {
		d := tween.Descriptor{
			Name:          st.Name,
			Target:        tween.Self(),
			ComponentType: st.Component,
			PropertyName:  st.Property,
			Value:         st.Target,
			Duration:      st.Duration,
			Easing:        st.Easing,
		}
		if st.Linked != "" {
			linked, ok := s.ids[st.Linked]
			if !ok {
				return nil, fmt.Errorf("entity %q state #%d: unknown linked entity %q", e.ID, i, st.Linked)
			}
			d.Target = tween.LinkedTo(linked)
		}

		stateName := st.Name
		if stateName == "" {
			stateName = st.Component + "." + st.Property
		}
		for _, name := range st.OnComplete {
			fn, err := actions.Bind(name, config.ActionContext{EntityID: e.ID, State: stateName})
			if err != nil {
				return nil, fmt.Errorf("entity %q state #%d: %w", e.ID, i, err)
			}
			d.OnComplete = append(d.OnComplete, fn)
		}

		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("entity %q state #%d: %w", e.ID, i, err)
		}
		descs = append(descs, d)
	}

	opts := []tween.Option{
		tween.WithResetDuration(e.Animator.Reset.Duration),
		tween.WithResetEasing(e.Animator.Reset.Easing),
	}
	if s.logger != nil {
		opts = append(opts, tween.WithLogger(s.logger))
	}
	return tween.NewController(id, s.registry, descs, opts...), nil
}

// Update 推进一帧：指针监听 -> 补间
func (s *TweenScene) Update(deltaTime float64) {
	s.pointerSystem.Update(deltaTime)
	s.tweenSystem.Update(deltaTime)
	s.elapsed += deltaTime
	s.ticks++
}

// Draw 按 Position.Z 从小到大绘制所有带 Transform 的实体
func (s *TweenScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.ensureImages()

	for _, id := range s.drawOrder() {
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if shape, ok := ecs.GetComponent[*components.ShapeComponent](s.entityManager, id); ok {
			s.drawShape(screen, transform, shape)
		}
		if text, ok := ecs.GetComponent[*components.TextComponent](s.entityManager, id); ok {
			s.drawText(screen, transform, text)
		}
		if listener, ok := ecs.GetComponent[*components.PointerListenerComponent](s.entityManager, id); ok && listener.Hovered {
			vector.StrokeRect(screen,
				float32(transform.Position.X), float32(transform.Position.Y),
				float32(listener.BoundsW*transform.Scale.X), float32(listener.BoundsH*transform.Scale.Y),
				1, outlineColor, true)
		}
	}

	s.drawHUD(screen)
}

func (s *TweenScene) ensureImages() {
	if s.pixel == nil {
		s.pixel = ebiten.NewImage(1, 1)
		s.pixel.Fill(color.White)
	}
	if s.scratch == nil {
		s.scratch = ebiten.NewImage(512, debugGlyphHeight)
	}
}

// drawOrder 带 Transform 的实体，按 Z 升序，Z 相同时按 ID
func (s *TweenScene) drawOrder() []ecs.EntityID {
	ids := ecs.GetEntitiesWith1[*components.TransformComponent](s.entityManager)
	sort.SliceStable(ids, func(i, j int) bool {
		ti, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, ids[i])
		tj, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, ids[j])
		return ti.Position.Z < tj.Position.Z
	})
	return ids
}

// drawShape 以矩形中心为轴旋转绘制
func (s *TweenScene) drawShape(screen *ebiten.Image, transform *components.TransformComponent, shape *components.ShapeComponent) {
	w := shape.Size.X * transform.Scale.X
	h := shape.Size.Y * transform.Scale.Y
	if w <= 0 || h <= 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Rotate(transform.Rotation)
	op.GeoM.Translate(transform.Position.X+w/2, transform.Position.Y+h/2)
	op.ColorScale = shape.Tint.ColorScale()
	op.ColorScale.ScaleAlpha(float32(utils.Clamp01(shape.Alpha)))
	screen.DrawImage(s.pixel, op)
}

// drawText 使用调试字体绘制 "Text Score"，按 FontSize 缩放
func (s *TweenScene) drawText(screen *ebiten.Image, transform *components.TransformComponent, text *components.TextComponent) {
	label := text.Text
	if text.Score != 0 || label == "" {
		label = fmt.Sprintf("%s %d", label, text.Score)
	}

	scale := 1.0
	if text.FontSize > 0 {
		scale = float64(text.FontSize) / debugGlyphHeight
	}

	s.scratch.Clear()
	ebitenutil.DebugPrint(s.scratch, label)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale*transform.Scale.X, scale*transform.Scale.Y)
	op.GeoM.Translate(transform.Position.X+4, transform.Position.Y+4)
	screen.DrawImage(s.scratch, op)
}

// drawHUD 右上角显示场景信息和运行中的动画
func (s *TweenScene) drawHUD(screen *ebiten.Image) {
	bounds := screen.Bounds()
	x := bounds.Dx() - 260
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  t=%.2fs  tick=%d", s.name, s.elapsed, s.ticks), x, 8)

	y := 28
	for _, entityID := range s.order {
		c, ok := s.Controller(entityID)
		if !ok {
			continue
		}
		for _, r := range c.Running() {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s:%s", entityID, r.Name), x, y)
			vector.DrawFilledRect(screen, float32(x+180), float32(y+4), float32(60*r.Progress), 8, progressColor, false)
			y += 16
		}
	}
}

// Name 场景名称
func (s *TweenScene) Name() string {
	return s.name
}

// Playback 场景建议的回放参数
func (s *TweenScene) Playback() config.PlaybackConfig {
	return s.playback
}

// Elapsed 已推进的场景时间（秒）
func (s *TweenScene) Elapsed() float64 {
	return s.elapsed
}

// EntityManager 场景使用的实体管理器
func (s *TweenScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// IDs 配置中的实体 ID（声明顺序）
func (s *TweenScene) IDs() []string {
	return append([]string(nil), s.order...)
}

// Entity 按配置 ID 查找实体
func (s *TweenScene) Entity(id string) (ecs.EntityID, bool) {
	e, ok := s.ids[id]
	return e, ok
}

// Controller 按配置 ID 查找控制器
func (s *TweenScene) Controller(id string) (*tween.Controller, bool) {
	e, ok := s.ids[id]
	if !ok {
		return nil, false
	}
	anim, ok := ecs.GetComponent[*components.AnimateComponent](s.entityManager, e)
	if !ok || anim.Controller == nil {
		return nil, false
	}
	return anim.Controller, true
}

// IsAnimating 场景中是否还有运行中的动画
func (s *TweenScene) IsAnimating() bool {
	return s.tweenSystem.IsAnimating()
}

// Issues 所有当前无法解析的描述符
func (s *TweenScene) Issues() []SceneIssue {
	var issues []SceneIssue
	for _, id := range s.order {
		c, ok := s.Controller(id)
		if !ok {
			continue
		}
		for _, issue := range c.Diagnose() {
			issues = append(issues, SceneIssue{EntityID: id, Issue: issue})
		}
	}
	return issues
}

// Snapshot 实体上所有可补间属性的当前值（组件名、属性名排序）
func (s *TweenScene) Snapshot(id string) ([]PropertyValue, error) {
	e, ok := s.ids[id]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", id)
	}

	var values []PropertyValue
	for _, component := range s.registry.Components() {
		for _, prop := range s.registry.Properties(component) {
			b, err := s.registry.Resolve(e, component, prop)
			if err != nil {
				// 实体没有该组件
				break
			}
			v, err := b.Get()
			if err != nil {
				return nil, err
			}
			values = append(values, PropertyValue{Component: component, Property: prop, Value: v})
		}
	}
	return values, nil
}

// LoadTweenScene 加载场景文件并使用内置组件构建场景
func LoadTweenScene(path string, actions *config.ActionRegistry, opts ...SceneOption) (*TweenScene, error) {
	cfg, err := config.LoadSceneConfig(path)
	if err != nil {
		return nil, err
	}

	registry := property.NewRegistry(ecs.NewEntityManager())
	if err := components.RegisterAnimatable(registry); err != nil {
		return nil, fmt.Errorf("failed to register animatable components: %w", err)
	}
	return BuildTweenScene(cfg, registry, actions, opts...)
}
