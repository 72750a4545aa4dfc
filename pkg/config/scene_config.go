package config

import (
	"fmt"
	"os"

	"github.com/decker502/proptween/internal/valueparse"
	"github.com/decker502/proptween/pkg/embedded"
	"github.com/decker502/proptween/pkg/types"
	"github.com/decker502/proptween/pkg/utils"
	"gopkg.in/yaml.v3"
)

// SceneConfig 场景文件的顶层结构
type SceneConfig struct {
	Name     string         `yaml:"name"`     // 场景名称（可选，仅用于显示）
	Playback PlaybackConfig `yaml:"playback"` // 回放参数
	Entities []EntityConfig `yaml:"entities"` // 场景中的实体，按声明顺序创建
}

// PlaybackConfig 场景建议的回放参数
// 0 表示未指定；命令行参数优先于场景，场景优先于已保存的设置
type PlaybackConfig struct {
	TPS       int     `yaml:"tps"`
	TimeScale float64 `yaml:"time_scale"`
}

// EntityConfig 单个实体；所有组件都是可选的
type EntityConfig struct {
	ID        string           `yaml:"id"` // 场景内唯一，linked 字段通过它引用
	Transform *TransformConfig `yaml:"transform"`
	Shape     *ShapeConfig     `yaml:"shape"`
	Text      *TextConfig      `yaml:"text"`
	Animator  *AnimatorConfig  `yaml:"animator"`
	Listener  *ListenerConfig  `yaml:"listener"`
}

// TransformConfig 初始变换
type TransformConfig struct {
	Position types.Vector3  `yaml:"position"`
	Scale    *types.Vector2 `yaml:"scale"` // 默认 [1, 1]
	Rotation float64        `yaml:"rotation"`
}

// ShapeConfig 初始矩形外观
type ShapeConfig struct {
	Size  types.Vector2 `yaml:"size"`
	Tint  *types.Color  `yaml:"tint"`  // 默认白色
	Alpha *float64      `yaml:"alpha"` // 默认 1
}

// TextConfig 初始文本
type TextConfig struct {
	Text     string `yaml:"text"`
	FontSize int    `yaml:"font_size"`
	Score    int    `yaml:"score"`
}

// AnimatorConfig 控制器配置
type AnimatorConfig struct {
	Reset  ResetConfig   `yaml:"reset"`
	States []StateConfig `yaml:"states"`
}

// ResetConfig Reset 使用的时长与曲线；默认 0 秒（立即恢复）、线性
type ResetConfig struct {
	Duration float64          `yaml:"duration"`
	Easing   utils.EasingKind `yaml:"easing"`
}

// StateConfig 一条属性动画
type StateConfig struct {
	Name       string           `yaml:"name"`
	Component  string           `yaml:"component"`
	Property   string           `yaml:"property"`
	Kind       *types.ValueKind `yaml:"kind"`  // 必填
	Value      yaml.Node        `yaml:"value"` // 按 Kind 解码到 Target
	Duration   float64          `yaml:"duration"`
	Easing     utils.EasingKind `yaml:"easing"`
	Linked     string           `yaml:"linked"`      // 目标实体 ID，空表示自身
	OnComplete []string         `yaml:"on_complete"` // ActionRegistry 中的动作名

	Target types.Value `yaml:"-"`
}

// ListenerConfig 指针进入/离开监听
type ListenerConfig struct {
	Bounds types.Vector2        `yaml:"bounds"`
	Enter  ListenerActionConfig `yaml:"enter"`
	Exit   ListenerActionConfig `yaml:"exit"`
}

// ListenerActionConfig reset 为 true 时恢复初始值，否则按顺序触发 indices
type ListenerActionConfig struct {
	Reset   bool      `yaml:"reset"`
	Indices IndexList `yaml:"indices"`
}

// Enabled 是否配置了任何动作
func (a ListenerActionConfig) Enabled() bool {
	return a.Reset || len(a.Indices) > 0
}

// IndexList 状态索引列表，接受 [2, 0] 或 "2,0"
type IndexList []int

// UnmarshalYAML 实现 yaml.Unmarshaler
func (l *IndexList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var indices []int
		if err := node.Decode(&indices); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		for _, i := range indices {
			if i < 0 {
				return fmt.Errorf("line %d: negative index %d", node.Line, i)
			}
		}
		*l = indices
	case yaml.ScalarNode:
		indices, err := valueparse.ParseIndexList(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*l = indices
	default:
		return fmt.Errorf("line %d: indices must be a list or a string", node.Line)
	}
	return nil
}

// LoadSceneConfig 加载并校验场景文件
// 优先从嵌入资源读取（路径以 data/ 开头时），找不到再读本地文件
func LoadSceneConfig(path string) (*SceneConfig, error) {
	var (
		data []byte
		err  error
	)
	if embedded.Exists(path) {
		data, err = embedded.ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config file %s: %w", path, err)
	}

	cfg, err := ParseSceneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid scene config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSceneConfig 解析 YAML、填充默认值并校验
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	var cfg SceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene YAML: %w", err)
	}

	applySceneDefaults(&cfg)

	if err := cfg.decodeStateValues(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applySceneDefaults 为未设置的字段填充默认值
func applySceneDefaults(cfg *SceneConfig) {
	for i := range cfg.Entities {
		e := &cfg.Entities[i]
		if e.Transform != nil && e.Transform.Scale == nil {
			e.Transform.Scale = &types.Vector2{X: 1, Y: 1}
		}
		if e.Shape != nil {
			if e.Shape.Tint == nil {
				e.Shape.Tint = &types.Color{R: 1, G: 1, B: 1, A: 1}
			}
			if e.Shape.Alpha == nil {
				alpha := 1.0
				e.Shape.Alpha = &alpha
			}
		}
	}
}

// decodeStateValues 按 kind 解码每个状态的 value
func (c *SceneConfig) decodeStateValues() error {
	for i := range c.Entities {
		e := &c.Entities[i]
		if e.Animator == nil {
			continue
		}
		for j := range e.Animator.States {
			s := &e.Animator.States[j]
			if s.Kind == nil || !s.Kind.Valid() {
				return fmt.Errorf("entity %q state #%d: missing or invalid kind", e.ID, j)
			}
			if s.Value.Kind == 0 {
				return fmt.Errorf("entity %q state #%d: missing value", e.ID, j)
			}
			v, err := types.DecodeValue(*s.Kind, &s.Value)
			if err != nil {
				return fmt.Errorf("entity %q state #%d value: %w", e.ID, j, err)
			}
			s.Target = v
		}
	}
	return nil
}

// Validate 检查场景内部的一致性
//
// 不检查组件/属性是否存在，那需要访问表，由构建场景时报告。
func (c *SceneConfig) Validate() error {
	if c.Playback.TPS < 0 {
		return fmt.Errorf("playback.tps must not be negative, got %d", c.Playback.TPS)
	}
	if c.Playback.TimeScale < 0 {
		return fmt.Errorf("playback.time_scale must not be negative, got %v", c.Playback.TimeScale)
	}

	ids := make(map[string]bool, len(c.Entities))
	for i, e := range c.Entities {
		if e.ID == "" {
			return fmt.Errorf("entity #%d: id is required", i)
		}
		if ids[e.ID] {
			return fmt.Errorf("duplicate entity id %q", e.ID)
		}
		ids[e.ID] = true
	}

	for _, e := range c.Entities {
		states := 0
		if e.Animator != nil {
			states = len(e.Animator.States)
			if e.Animator.Reset.Duration < 0 {
				return fmt.Errorf("entity %q: reset duration must not be negative", e.ID)
			}
			for j, s := range e.Animator.States {
				if s.Component == "" || s.Property == "" {
					return fmt.Errorf("entity %q state #%d: component and property are required", e.ID, j)
				}
				if s.Linked != "" && !ids[s.Linked] {
					return fmt.Errorf("entity %q state #%d: unknown linked entity %q", e.ID, j, s.Linked)
				}
			}
		}

		if e.Listener == nil {
			continue
		}
		if e.Animator == nil {
			return fmt.Errorf("entity %q: listener requires an animator", e.ID)
		}
		if e.Transform == nil {
			return fmt.Errorf("entity %q: listener requires a transform", e.ID)
		}
		for _, action := range []struct {
			name string
			cfg  ListenerActionConfig
		}{{"enter", e.Listener.Enter}, {"exit", e.Listener.Exit}} {
			for _, idx := range action.cfg.Indices {
				if idx >= states {
					return fmt.Errorf("entity %q listener %s: state index %d out of range [0, %d)", e.ID, action.name, idx, states)
				}
			}
		}
	}
	return nil
}

// EntityByID 按 ID 查找实体配置
func (c *SceneConfig) EntityByID(id string) (*EntityConfig, bool) {
	for i := range c.Entities {
		if c.Entities[i].ID == id {
			return &c.Entities[i], true
		}
	}
	return nil, false
}
