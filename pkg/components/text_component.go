package components

// TextComponent 文本标签
//
// FontSize 与 Score 为整数属性，补间时每一帧都会取整
type TextComponent struct {
	Text     string
	FontSize int
	Score    int
}
