package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/brainscreen/binding"
	"github.com/ByLCY/brainscreen/dsl"
	"github.com/ByLCY/brainscreen/markup"
)

// Build 按文档顺序为每个元素生成一个指令块，并记录生成器自己的游标。
// 每个块都以 `cursorY += margin; cursorX = margin;` 开头，游标只在纵向累加。
func Build(elems []markup.Element, opts BuildOptions) (*Result, error) {
	res := &Result{Blocks: make([]Block, 0, len(elems))}
	cursor := Cursor{}
	for i, elem := range elems {
		block, next, err := buildBlock(elem, cursor, opts)
		if err != nil {
			return nil, fmt.Errorf("第 %d 个元素 <%s> 生成失败: %w", i+1, elem.Tag, err)
		}
		res.Blocks = append(res.Blocks, block)
		cursor = next
	}
	res.Cursor = cursor
	return res, nil
}

// buildBlock 生成单个元素的指令，返回推进后的游标。
func buildBlock(elem markup.Element, cursor Cursor, opts BuildOptions) (Block, Cursor, error) {
	style := ParseClasses(elem.Classes)
	content := elem.Content
	if opts.Data != nil {
		content = binding.Interpolate(content, opts.Data)
	}

	w := &blockWriter{}
	if !opts.OmitComments {
		w.emit(dsl.Comment(fmt.Sprintf(`<%s class="%s">`, elem.Tag, strings.Join(strings.Fields(elem.Classes), " "))))
	}

	width := widthSource(style)
	height := resolveHeight(style, elem.IsImage())

	cursor.Y += style.Margin
	cursor.X = style.Margin
	w.emit(dsl.AdvanceCursorY(num(style.Margin)))
	w.emit(dsl.SetCursorX(num(style.Margin)))

	// 黑色背景视为透明，不输出填充。
	if !style.BgColor.IsBlack() {
		w.emit(dsl.SetFillColor(style.BgColor))
		x, y := dsl.Var(dsl.CursorX), dsl.Var(dsl.CursorY)
		if style.Rounded {
			w.emit(dsl.DrawRoundedRectangle(x, y, w.expr(width), num(height), num(RoundedRadius)))
		} else {
			w.emit(dsl.DrawRectangle(x, y, w.expr(width), num(height)))
		}
	}

	if elem.IsImage() {
		w.emit(dsl.DrawImage(dsl.Var(dsl.CursorX), dsl.Var(dsl.CursorY), content))
		w.emit(dsl.AdvanceCursorY(num(height)))
		cursor.Y += height
	} else {
		w.emit(dsl.SetPenColor(style.TextColor))
		w.emit(dsl.SetFont(style.FontType))
		x := w.expr(textXSource(style, width, content))
		y := w.expr(dsl.CursorY + " + " + textYOffset(style))
		w.emit(dsl.PrintAt(x, y, content))
		w.emit(dsl.AdvanceCursorY(w.expr(fmt.Sprintf("%d + 2*%d", style.TextSize, style.Padding))))
		cursor.Y += style.TextSize + 2*style.Padding
	}

	if w.err != nil {
		return Block{}, cursor, w.err
	}
	return Block{Element: elem, Style: style, Instructions: w.out}, cursor, nil
}

// blockWriter 收集指令；表达式都经过共享语法解析，语法不一致时记录第一个错误。
type blockWriter struct {
	out []dsl.Instruction
	err error
}

func (w *blockWriter) emit(in dsl.Instruction) {
	w.out = append(w.out, in)
}

func (w *blockWriter) expr(src string) *dsl.Expression {
	e, err := dsl.ParseExpr(src)
	if err != nil {
		if w.err == nil {
			w.err = err
		}
		return dsl.Num(0)
	}
	return e
}

func num(v int) *dsl.Expression { return dsl.Num(float64(v)) }

// widthSource 返回元素宽度的表达式文本；auto 宽度随游标 x 收缩。
func widthSource(s Style) string {
	if s.Width.IsAuto() {
		return fmt.Sprintf("%d - 2*%s", AutoWidthBase, dsl.CursorX)
	}
	return strconv.Itoa(s.Width.Value)
}

// resolveHeight 计算元素高度。文本 auto 高度为字号加上下内边距，图片 auto 高度取占位值。
func resolveHeight(s Style, image bool) int {
	if !s.Height.IsAuto() {
		return s.Height.Value
	}
	if image {
		return ImageFallbackHeight
	}
	return s.TextSize + 2*s.Padding
}

// textXSource 按对齐方式生成文本 x 坐标表达式；字符串宽度交给执行方测量。
func textXSource(s Style, width, content string) string {
	measure := dsl.StringWidthFunc + "(" + strconv.Quote(content) + ")"
	switch s.Align {
	case AlignCenter:
		half := "(" + width + ")/2"
		if !s.Width.IsAuto() {
			half = dsl.FormatNumber(float64(s.Width.Value) / 2)
		}
		return fmt.Sprintf("%s + %s - (%s/2)", dsl.CursorX, half, measure)
	case AlignEnd:
		full := "(" + width + ")"
		if !s.Width.IsAuto() {
			full = width
		}
		return fmt.Sprintf("%s + %s - %d - %s", dsl.CursorX, full, s.Padding, measure)
	default:
		return fmt.Sprintf("%s + %d", dsl.CursorX, s.Padding)
	}
}

// textYOffset 只有显式高度时才把文本下移半个高度。
func textYOffset(s Style) string {
	if s.Height.IsAuto() {
		return "0"
	}
	return dsl.FormatNumber(float64(s.Height.Value) / 2)
}
