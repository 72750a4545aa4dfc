package utils

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Easing Functions (缓动函数)
//
// 缓动函数用于控制补间动画的速度曲线。
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的进度。
// EaseKind* 枚举覆盖补间引擎可配置的六种曲线，其余函数供代码直接调用。
//
// 参考：https://easings.net/

// EasingKind 补间曲线类型
type EasingKind int

const (
	EaseKindLinear       EasingKind = iota // 线性
	EaseKindEaseIn                         // 1 - cos(t·π/2)
	EaseKindEaseOut                        // sin(t·π/2)
	EaseKindExponential                    // t²
	EaseKindSmoothstep                     // t²(3-2t)
	EaseKindSmootherstep                   // t³(6t²-15t+10)
)

var easingKindNames = map[EasingKind]string{
	EaseKindLinear:       "linear",
	EaseKindEaseIn:       "ease_in",
	EaseKindEaseOut:      "ease_out",
	EaseKindExponential:  "exponential",
	EaseKindSmoothstep:   "smoothstep",
	EaseKindSmootherstep: "smootherstep",
}

// String 返回配置文件中使用的曲线名称
func (k EasingKind) String() string {
	if name, ok := easingKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EasingKind(%d)", int(k))
}

// ParseEasingKind 解析曲线名称
// 大小写不敏感，"-" 与 "_" 等价（"ease-in" == "EASE_IN"）
func ParseEasingKind(s string) (EasingKind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for kind, n := range easingKindNames {
		if n == name {
			return kind, nil
		}
	}
	return EaseKindLinear, fmt.Errorf("unknown easing kind %q", s)
}

// UnmarshalYAML 允许在 YAML 中以字符串指定曲线
func (k *EasingKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("easing must be a string: %w", err)
	}
	kind, err := ParseEasingKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// MarshalYAML 以字符串形式输出曲线
func (k EasingKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Ease 按曲线类型对进度 t 进行整形
// 未知类型退化为线性
func Ease(t float64, kind EasingKind) float64 {
	switch kind {
	case EaseKindEaseIn:
		return EaseInSine(t)
	case EaseKindEaseOut:
		return EaseOutSine(t)
	case EaseKindExponential:
		return EaseInQuad(t)
	case EaseKindSmoothstep:
		return Smoothstep(t)
	case EaseKindSmootherstep:
		return Smootherstep(t)
	default:
		return EaseLinear(t)
	}
}

// EaseLinear 线性缓动（无缓动）
// 返回值 = 输入值（匀速运动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseInSine 正弦缓入
// 公式：f(t) = 1 - cos(t·π/2)
func EaseInSine(t float64) float64 {
	return 1 - math.Cos(t*math.Pi/2)
}

// EaseOutSine 正弦缓出
// 公式：f(t) = sin(t·π/2)
func EaseOutSine(t float64) float64 {
	return math.Sin(t * math.Pi / 2)
}

// Smoothstep 三次 Hermite 平滑
// 公式：f(t) = t²(3 - 2t)
func Smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// Smootherstep Perlin 五次平滑，一阶二阶导数在两端均为 0
// 公式：f(t) = t³(6t² - 15t + 10)
func Smootherstep(t float64) float64 {
	return t * t * t * (t*(6*t-15) + 10)
}

// EaseInQuad 二次方缓入
// 特点：开始慢，结束较快（补间配置里称为 exponential）
// 公式：f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 将值限制在 [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
