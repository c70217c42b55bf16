package layout

import (
	"strings"

	"github.com/ByLCY/brainscreen/dsl"
)

// Align 是文本水平对齐方式。
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "start"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Align) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Style 是由 class 工具类解析出的元素样式。
type Style struct {
	TextColor dsl.Color `json:"textColor"`
	BgColor   dsl.Color `json:"bgColor"`
	Padding   int       `json:"padding"`
	Margin    int       `json:"margin"`
	TextSize  int       `json:"textSize"`
	FontType  string    `json:"fontType"`
	Rounded   bool      `json:"rounded"`
	Align     Align     `json:"align"`
	Width     Dimension `json:"width"`
	Height    Dimension `json:"height"`
}

// textSize 是字号阶梯中的一级：像素高度与对应的屏幕字体。
type textSize struct {
	Px   int
	Font string
}

// Colors 是 text-/bg- 可用的颜色名。
var Colors = map[string]dsl.Color{
	"red-500":    {R: 220, G: 38, B: 38},
	"green-500":  {R: 22, G: 163, B: 74},
	"blue-500":   {R: 59, G: 130, B: 246},
	"white":      {R: 255, G: 255, B: 255},
	"black":      {R: 0, G: 0, B: 0},
	"gray-500":   {R: 107, G: 114, B: 128},
	"yellow-500": {R: 234, G: 179, B: 8},
	"purple-500": {R: 168, G: 85, B: 247},
	"orange-500": {R: 249, G: 115, B: 22},
}

var textSizes = map[string]textSize{
	"text-xs": {Px: 12, Font: "monoXS"},
	"text-sm": {Px: 16, Font: "monoS"},
	"text-md": {Px: 20, Font: "monoM"},
	"text-lg": {Px: 24, Font: "monoL"},
	"text-xl": {Px: 28, Font: "monoXL"},
}

const defaultTextSize = "text-md"

// DefaultStyle 返回没有任何工具类时的样式：黑底白字、md 字号、宽高 auto。
func DefaultStyle() Style {
	size := textSizes[defaultTextSize]
	return Style{
		TextColor: dsl.Color{R: 255, G: 255, B: 255},
		BgColor:   dsl.Color{},
		TextSize:  size.Px,
		FontType:  size.Font,
		Align:     AlignStart,
		Width:     Auto(),
		Height:    Auto(),
	}
}

// ParseClasses 从左到右应用空白分隔的工具类，同类后者覆盖前者。
func ParseClasses(classes string) Style {
	s := DefaultStyle()
	for _, tok := range strings.Fields(classes) {
		s = ApplyToken(s, tok)
	}
	return s
}

// ApplyToken 应用单个工具类，最多修改一个字段（字号与字体成对修改）。
// 未知工具类、未注册颜色与无法解析的数值都会被忽略。
func ApplyToken(s Style, tok string) Style {
	switch {
	case strings.HasPrefix(tok, "text-") && isColor(tok[len("text-"):]):
		s.TextColor = Colors[tok[len("text-"):]]
	case strings.HasPrefix(tok, "bg-"):
		if c, ok := Colors[tok[len("bg-"):]]; ok {
			s.BgColor = c
		}
	case strings.HasPrefix(tok, "p-"):
		if v, ok := parseSpacing(tok[len("p-"):]); ok {
			s.Padding = v
		}
	case strings.HasPrefix(tok, "m-"):
		if v, ok := parseSpacing(tok[len("m-"):]); ok {
			s.Margin = v
		}
	case isTextSize(tok):
		size := textSizes[tok]
		s.TextSize = size.Px
		s.FontType = size.Font
	case tok == "rounded":
		s.Rounded = true
	case tok == "text-left":
		s.Align = AlignStart
	case tok == "text-center":
		s.Align = AlignCenter
	case tok == "text-right":
		s.Align = AlignEnd
	case strings.HasPrefix(tok, "w-"):
		if d, ok := parseDimension(tok[len("w-"):], ScreenWidth); ok {
			s.Width = d
		}
	case strings.HasPrefix(tok, "h-"):
		if d, ok := parseDimension(tok[len("h-"):], ScreenHeight); ok {
			s.Height = d
		}
	}
	return s
}

func isColor(name string) bool {
	_, ok := Colors[name]
	return ok
}

func isTextSize(tok string) bool {
	_, ok := textSizes[tok]
	return ok
}
