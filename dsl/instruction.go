package dsl

import (
	"fmt"
	"strings"
)

// Kind 标识指令类型。生成器与解释器共用这一份定义。
type Kind int

const (
	KindComment Kind = iota
	KindSetCursorX
	KindAdvanceCursorY
	KindSetFillColor
	KindSetPenColor
	KindSetFont
	KindDrawRectangle
	KindDrawRoundedRectangle
	KindPrintAt
	KindDrawImage
)

// 指令流中出现的固定名字。
const (
	CursorX         = "cursorX"
	CursorY         = "cursorY"
	ColorFunc       = "color"
	StringWidthFunc = "Brain.Screen.getStringWidth"
)

type callSpec struct {
	kind  Kind
	name  string
	arity int
}

var callSpecs = []callSpec{
	{KindSetFillColor, "Brain.Screen.setFillColor", 1},
	{KindSetPenColor, "Brain.Screen.setPenColor", 1},
	{KindSetFont, "Brain.Screen.setFont", 1},
	{KindDrawRectangle, "Brain.Screen.drawRectangle", 4},
	{KindDrawRoundedRectangle, "Brain.Screen.drawRoundedRectangle", 5},
	{KindPrintAt, "Brain.Screen.printAt", 3},
	{KindDrawImage, "Brain.Screen.drawImageFromFile", 3},
}

func specByKind(k Kind) (callSpec, bool) {
	for _, s := range callSpecs {
		if s.kind == k {
			return s, true
		}
	}
	return callSpec{}, false
}

func specByName(name string) (callSpec, bool) {
	for _, s := range callSpecs {
		if s.name == name {
			return s, true
		}
	}
	return callSpec{}, false
}

func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindSetCursorX:
		return "set-cursor-x"
	case KindAdvanceCursorY:
		return "advance-cursor-y"
	case KindSetFillColor:
		return "set-fill-color"
	case KindSetPenColor:
		return "set-pen-color"
	case KindSetFont:
		return "set-font"
	case KindDrawRectangle:
		return "draw-rectangle"
	case KindDrawRoundedRectangle:
		return "draw-rounded-rectangle"
	case KindPrintAt:
		return "print-at"
	case KindDrawImage:
		return "draw-image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Instruction 是指令流中的一条语句。
// Args 的含义取决于 Kind；Text 保存注释内容或字体名。
type Instruction struct {
	Kind Kind
	Args []*Expression
	Text string
}

// Comment 构造注释行。
func Comment(text string) Instruction {
	return Instruction{Kind: KindComment, Text: text}
}

// SetCursorX 构造 `cursorX = v;`。
func SetCursorX(v *Expression) Instruction {
	return Instruction{Kind: KindSetCursorX, Args: []*Expression{v}}
}

// AdvanceCursorY 构造 `cursorY += v;`。
func AdvanceCursorY(v *Expression) Instruction {
	return Instruction{Kind: KindAdvanceCursorY, Args: []*Expression{v}}
}

// SetFillColor 构造填充色设置。
func SetFillColor(c Color) Instruction {
	return Instruction{Kind: KindSetFillColor, Args: []*Expression{c.Expr()}}
}

// SetPenColor 构造画笔色设置。
func SetPenColor(c Color) Instruction {
	return Instruction{Kind: KindSetPenColor, Args: []*Expression{c.Expr()}}
}

// SetFont 构造字体设置，font 以裸标识符输出（例如 monoM）。
func SetFont(font string) Instruction {
	return Instruction{Kind: KindSetFont, Text: font}
}

// DrawRectangle 构造矩形绘制。
func DrawRectangle(x, y, w, h *Expression) Instruction {
	return Instruction{Kind: KindDrawRectangle, Args: []*Expression{x, y, w, h}}
}

// DrawRoundedRectangle 构造圆角矩形绘制。
func DrawRoundedRectangle(x, y, w, h, radius *Expression) Instruction {
	return Instruction{Kind: KindDrawRoundedRectangle, Args: []*Expression{x, y, w, h, radius}}
}

// PrintAt 构造文本绘制。
func PrintAt(x, y *Expression, text string) Instruction {
	return Instruction{Kind: KindPrintAt, Args: []*Expression{x, y, Str(text)}}
}

// DrawImage 构造图片绘制，参数顺序为 (x, y, path)。
func DrawImage(x, y *Expression, path string) Instruction {
	return Instruction{Kind: KindDrawImage, Args: []*Expression{x, y, Str(path)}}
}

// Encode 输出指令的文本形式（不含缩进）。
func (in Instruction) Encode() string {
	switch in.Kind {
	case KindComment:
		if in.Text == "" {
			return "//"
		}
		return "// " + in.Text
	case KindSetCursorX:
		return CursorX + " = " + in.arg(0).String() + ";"
	case KindAdvanceCursorY:
		return CursorY + " += " + in.arg(0).String() + ";"
	case KindSetFont:
		spec, _ := specByKind(KindSetFont)
		return spec.name + "(" + in.Text + ");"
	}
	spec, ok := specByKind(in.Kind)
	if !ok {
		return "// " + in.Kind.String()
	}
	return spec.name + "(" + joinExprs(in.Args) + ");"
}

func (in Instruction) arg(i int) *Expression {
	if i < len(in.Args) {
		return in.Args[i]
	}
	return Num(0)
}

// MarshalText 让指令在调试 JSON 中以源码形式出现。
func (in Instruction) MarshalText() ([]byte, error) {
	return []byte(in.Encode()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (in *Instruction) UnmarshalText(text []byte) error {
	parsed, err := ParseLine(string(text))
	if err != nil {
		return err
	}
	*in = parsed
	return nil
}

// ParseLine 将一行指令文本解码为 Instruction，是 Encode 的逆过程。
func ParseLine(src string) (Instruction, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return Instruction{}, fmt.Errorf("空行不是指令")
	}
	line, err := parseLineAST(trimmed)
	if err != nil {
		return Instruction{}, fmt.Errorf("无法识别的指令: %w", err)
	}
	if line.Comment != nil {
		return Comment(strings.TrimSpace(strings.TrimPrefix(*line.Comment, "//"))), nil
	}
	stmt := line.Statement
	switch {
	case stmt == nil:
		return Instruction{}, fmt.Errorf("无法识别的指令")
	case stmt.Assignment != nil:
		return decodeAssignment(stmt.Assignment)
	case stmt.Call != nil:
		return decodeCall(stmt.Call)
	default:
		return Instruction{}, fmt.Errorf("无法识别的指令")
	}
}

func decodeAssignment(a *Assignment) (Instruction, error) {
	switch {
	case a.Target == CursorX && a.Op == "=":
		return SetCursorX(a.Value), nil
	case a.Target == CursorY && a.Op == "+=":
		return AdvanceCursorY(a.Value), nil
	default:
		return Instruction{}, fmt.Errorf("不支持的赋值 %s %s", a.Target, a.Op)
	}
}

func decodeCall(c *Call) (Instruction, error) {
	name := c.Name()
	spec, ok := specByName(name)
	if !ok {
		return Instruction{}, fmt.Errorf("未知的函数 %s", name)
	}
	if len(c.Args) != spec.arity {
		return Instruction{}, fmt.Errorf("%s 需要 %d 个参数，实际 %d 个", name, spec.arity, len(c.Args))
	}
	if spec.kind == KindSetFont {
		if id, ok := c.Args[0].Identifier(); ok {
			return SetFont(id), nil
		}
		if lit, ok := c.Args[0].Literal(); ok {
			return SetFont(lit), nil
		}
		return Instruction{}, fmt.Errorf("%s 的参数必须是字体名", name)
	}
	return Instruction{Kind: spec.kind, Args: c.Args}, nil
}
