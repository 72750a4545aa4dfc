// Package types 定义共享的基础类型
// 这个包只依赖 utils 与 internal/valueparse，用于解决循环引用问题
package types

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/decker502/proptween/internal/valueparse"
	"github.com/decker502/proptween/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// ValueKind 可补间属性的数据类型（封闭集合）
type ValueKind int

const (
	KindVector2 ValueKind = iota
	KindVector3
	KindColor
	KindInteger
	KindFloat
)

// String 返回配置文件中使用的类型名称
func (k ValueKind) String() string {
	switch k {
	case KindVector2:
		return "vector2"
	case KindVector3:
		return "vector3"
	case KindColor:
		return "color"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Valid 判断是否属于已知类型
func (k ValueKind) Valid() bool {
	return k >= KindVector2 && k <= KindFloat
}

// ParseValueKind 解析类型名称（大小写不敏感，"int" 等价 "integer"）
func ParseValueKind(s string) (ValueKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vector2", "vec2":
		return KindVector2, nil
	case "vector3", "vec3":
		return KindVector3, nil
	case "color", "colour":
		return KindColor, nil
	case "integer", "int":
		return KindInteger, nil
	case "float":
		return KindFloat, nil
	}
	return 0, fmt.Errorf("unknown value kind %q", s)
}

// UnmarshalYAML 允许在 YAML 中以字符串指定类型
func (k *ValueKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("kind must be a string: %w", err)
	}
	kind, err := ParseValueKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// MarshalYAML 以字符串形式输出类型
func (k ValueKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Vector2 二维向量
type Vector2 struct {
	X, Y float64
}

// Vector3 三维向量
type Vector3 struct {
	X, Y, Z float64
}

// Color 四通道颜色，通道范围 0.0 ~ 1.0（非预乘）
type Color struct {
	R, G, B, A float64
}

// NRGBA 转换为 8 位非预乘颜色
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channelToByte(c.R),
		G: channelToByte(c.G),
		B: channelToByte(c.B),
		A: channelToByte(c.A),
	}
}

// ColorScale 转换为 ebiten 绘制用的颜色缩放
func (c Color) ColorScale() ebiten.ColorScale {
	var cs ebiten.ColorScale
	cs.ScaleWithColor(c.NRGBA())
	return cs
}

func channelToByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// UnmarshalYAML 接受 [x, y] 或 "x,y"
func (v *Vector2) UnmarshalYAML(node *yaml.Node) error {
	f, err := decodeFloats(node, 2)
	if err != nil {
		return err
	}
	*v = Vector2{X: f[0], Y: f[1]}
	return nil
}

// UnmarshalYAML 接受 [x, y, z] 或 "x,y,z"
func (v *Vector3) UnmarshalYAML(node *yaml.Node) error {
	f, err := decodeFloats(node, 3)
	if err != nil {
		return err
	}
	*v = Vector3{X: f[0], Y: f[1], Z: f[2]}
	return nil
}

// UnmarshalYAML 接受 [r, g, b, a] 或 "r,g,b,a"；省略 alpha 时为 1
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	f, err := decodeFloats(node, 0)
	if err != nil {
		return err
	}
	switch len(f) {
	case 3:
		*c = Color{R: f[0], G: f[1], B: f[2], A: 1}
	case 4:
		*c = Color{R: f[0], G: f[1], B: f[2], A: f[3]}
	default:
		return fmt.Errorf("color needs 3 or 4 channels, got %d", len(f))
	}
	return nil
}

// decodeFloats 解码序列或紧凑字符串；n 为 0 时不检查个数
func decodeFloats(node *yaml.Node, n int) ([]float64, error) {
	var values []float64
	switch node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&values); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
	case yaml.ScalarNode:
		parsed, err := valueparse.ParseFloats(node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		values = parsed
	default:
		return nil, fmt.Errorf("line %d: expected a list or a string of numbers", node.Line)
	}
	if n > 0 && len(values) != n {
		return nil, fmt.Errorf("line %d: expected %d numbers, got %d", node.Line, n, len(values))
	}
	return values, nil
}

// Value 补间属性值（带标签的联合体）
// 只有 Kind 选中的字段有意义
type Value struct {
	Kind  ValueKind
	Vec2  Vector2
	Vec3  Vector3
	Color Color
	Int   int
	Float float64
}

// Vector2Value 构造 Vector2 值
func Vector2Value(x, y float64) Value {
	return Value{Kind: KindVector2, Vec2: Vector2{X: x, Y: y}}
}

// Vector3Value 构造 Vector3 值
func Vector3Value(x, y, z float64) Value {
	return Value{Kind: KindVector3, Vec3: Vector3{X: x, Y: y, Z: z}}
}

// ColorValue 构造颜色值
func ColorValue(r, g, b, a float64) Value {
	return Value{Kind: KindColor, Color: Color{R: r, G: g, B: b, A: a}}
}

// IntValue 构造整数值
func IntValue(i int) Value {
	return Value{Kind: KindInteger, Int: i}
}

// FloatValue 构造浮点值
func FloatValue(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}

// DecodeValue 按指定类型解码 YAML 节点
func DecodeValue(kind ValueKind, node *yaml.Node) (Value, error) {
	v := Value{Kind: kind}
	var err error
	switch kind {
	case KindVector2:
		err = node.Decode(&v.Vec2)
	case KindVector3:
		err = node.Decode(&v.Vec3)
	case KindColor:
		err = node.Decode(&v.Color)
	case KindInteger:
		err = node.Decode(&v.Int)
	case KindFloat:
		err = node.Decode(&v.Float)
	default:
		err = fmt.Errorf("unknown value kind %v", kind)
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// String 调试输出
func (v Value) String() string {
	switch v.Kind {
	case KindVector2:
		return fmt.Sprintf("(%.3f, %.3f)", v.Vec2.X, v.Vec2.Y)
	case KindVector3:
		return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.Vec3.X, v.Vec3.Y, v.Vec3.Z)
	case KindColor:
		return fmt.Sprintf("rgba(%.3f, %.3f, %.3f, %.3f)", v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%.3f", v.Float)
	default:
		return "<invalid>"
	}
}

// ApproxEqual 在容差内比较两个值；整数要求完全相等
func (v Value) ApproxEqual(other Value, eps float64) bool {
	if v.Kind != other.Kind {
		return false
	}
	near := func(a, b float64) bool { return math.Abs(a-b) <= eps }
	switch v.Kind {
	case KindVector2:
		return near(v.Vec2.X, other.Vec2.X) && near(v.Vec2.Y, other.Vec2.Y)
	case KindVector3:
		return near(v.Vec3.X, other.Vec3.X) && near(v.Vec3.Y, other.Vec3.Y) && near(v.Vec3.Z, other.Vec3.Z)
	case KindColor:
		return near(v.Color.R, other.Color.R) && near(v.Color.G, other.Color.G) &&
			near(v.Color.B, other.Color.B) && near(v.Color.A, other.Color.A)
	case KindInteger:
		return v.Int == other.Int
	case KindFloat:
		return near(v.Float, other.Float)
	}
	return false
}

// LerpValue 按类型插值
//
// 向量与颜色逐分量插值，浮点线性插值，整数先做浮点插值再四舍五入（每次调用都取整，
// 而不是只在终点取整）。类型不一致时返回 end。
func LerpValue(start, end Value, t float64) Value {
	if start.Kind != end.Kind {
		return end
	}
	out := Value{Kind: end.Kind}
	switch end.Kind {
	case KindVector2:
		out.Vec2 = Vector2{
			X: utils.Lerp(start.Vec2.X, end.Vec2.X, t),
			Y: utils.Lerp(start.Vec2.Y, end.Vec2.Y, t),
		}
	case KindVector3:
		out.Vec3 = Vector3{
			X: utils.Lerp(start.Vec3.X, end.Vec3.X, t),
			Y: utils.Lerp(start.Vec3.Y, end.Vec3.Y, t),
			Z: utils.Lerp(start.Vec3.Z, end.Vec3.Z, t),
		}
	case KindColor:
		out.Color = Color{
			R: utils.Lerp(start.Color.R, end.Color.R, t),
			G: utils.Lerp(start.Color.G, end.Color.G, t),
			B: utils.Lerp(start.Color.B, end.Color.B, t),
			A: utils.Lerp(start.Color.A, end.Color.A, t),
		}
	case KindInteger:
		out.Int = int(math.Round(utils.Lerp(float64(start.Int), float64(end.Int), t)))
	case KindFloat:
		out.Float = utils.Lerp(start.Float, end.Float, t)
	default:
		return end
	}
	return out
}
