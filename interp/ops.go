package interp

import "github.com/ByLCY/brainscreen/dsl"

// Op 是解释指令流得到的可渲染图元：*RectOp、*TextOp 或 *ImageOp。
type Op interface {
	isOp()
}

// RectOp 是一次矩形填充；Radius 大于 0 时为圆角矩形。
type RectOp struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Radius float64   `json:"radius,omitempty"`
	Fill   dsl.Color `json:"fill"`
}

// TextOp 是一次文本绘制，(X, Y) 为文本左上角。
type TextOp struct {
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Text  string    `json:"text"`
	Font  string    `json:"font"`
	Color dsl.Color `json:"color"`
}

// ImageOp 是一次图片绘制，Path 为生成程序中的文件名。
type ImageOp struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Path string  `json:"path"`
}

func (*RectOp) isOp()  {}
func (*TextOp) isOp()  {}
func (*ImageOp) isOp() {}

// Measurer 测量字符串在指定字体下的像素宽度，对应 Brain.Screen.getStringWidth。
type Measurer interface {
	StringWidth(text, font string) float64
}

// MonoMeasurer 按固定字符宽度估算，不依赖任何字体文件。
type MonoMeasurer struct {
	CharWidth float64
}

// DefaultCharWidth 是 MonoMeasurer 零值使用的字符宽度。
const DefaultCharWidth = 6

// StringWidth implements Measurer.
func (m MonoMeasurer) StringWidth(text, _ string) float64 {
	w := m.CharWidth
	if w <= 0 {
		w = DefaultCharWidth
	}
	return float64(len([]rune(text))) * w
}
