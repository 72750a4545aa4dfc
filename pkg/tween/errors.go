package tween

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized 在 Initialize 之前触发动画
	// 此时记录的初始值会是动画后的值，reset 语义失效，因此直接拒绝
	ErrNotInitialized = errors.New("controller not initialized")

	// ErrIndexOutOfRange 调用方传入了不存在的状态索引（配置错误，不做静默忽略）
	ErrIndexOutOfRange = errors.New("state index out of range")
)

// IndexError 带索引信息的越界错误
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("state index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
