package tween

import (
	"github.com/decker502/proptween/pkg/ecs"
	"github.com/decker502/proptween/pkg/types"
)

// BaselineKey 初始值表的键：同一目标上的同一属性只记录一次
type BaselineKey struct {
	Target        ecs.EntityID
	ComponentType string
	PropertyName  string
}

// Baseline 动画运行前观察到的属性值
type Baseline struct {
	Key   BaselineKey
	Value types.Value
}

// BaselineTable 按记录顺序保存初始值，先到先得
type BaselineTable struct {
	entries []Baseline
	index   map[BaselineKey]int
}

// NewBaselineTable 创建空表
func NewBaselineTable() *BaselineTable {
	return &BaselineTable{index: make(map[BaselineKey]int)}
}

// Capture 记录初始值；键已存在时不覆盖并返回 false
func (t *BaselineTable) Capture(key BaselineKey, value types.Value) bool {
	if _, exists := t.index[key]; exists {
		return false
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, Baseline{Key: key, Value: value})
	return true
}

// Has 键是否已记录
func (t *BaselineTable) Has(key BaselineKey) bool {
	_, exists := t.index[key]
	return exists
}

// Get 查询初始值
func (t *BaselineTable) Get(key BaselineKey) (types.Value, bool) {
	i, exists := t.index[key]
	if !exists {
		return types.Value{}, false
	}
	return t.entries[i].Value, true
}

// Entries 按记录顺序返回副本
func (t *BaselineTable) Entries() []Baseline {
	out := make([]Baseline, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len 记录数
func (t *BaselineTable) Len() int {
	return len(t.entries)
}
