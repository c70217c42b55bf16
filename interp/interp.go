// Package interp replays a generated instruction program and turns it into drawing operations.
package interp

import (
	"errors"
	"fmt"

	"github.com/ByLCY/brainscreen/dsl"
)

// DefaultFont 是每次解释开始时的当前字体。
const DefaultFont = "monoM"

// State 是解释过程中的游标与当前颜色、字体。每次 Run 都从 InitialState 开始。
type State struct {
	CursorX float64   `json:"cursorX"`
	CursorY float64   `json:"cursorY"`
	Fill    dsl.Color `json:"fill"`
	Pen     dsl.Color `json:"pen"`
	Font    string    `json:"font"`
}

// InitialState 返回游标 (0, 0)、黑色填充与画笔、默认字体。
func InitialState() State {
	return State{Font: DefaultFont}
}

// Result 是一次解释的输出：按指令顺序排列的图元、结束时的状态与被跳过行的诊断。
type Result struct {
	Ops         []Op             `json:"ops"`
	State       State            `json:"state"`
	Diagnostics []dsl.Diagnostic `json:"-"`
}

// Err 汇总全部诊断，没有诊断时返回 nil。
func (r *Result) Err() error {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}

// Rects 返回全部矩形图元。
func (r *Result) Rects() []*RectOp {
	var out []*RectOp
	for _, op := range r.Ops {
		if rect, ok := op.(*RectOp); ok {
			out = append(out, rect)
		}
	}
	return out
}

// Texts 返回全部文本图元。
func (r *Result) Texts() []*TextOp {
	var out []*TextOp
	for _, op := range r.Ops {
		if text, ok := op.(*TextOp); ok {
			out = append(out, text)
		}
	}
	return out
}

// Interpreter 绑定一个字符串测量实现。
type Interpreter struct {
	measurer Measurer
}

// New 创建解释器；m 为 nil 时使用 MonoMeasurer。
func New(m Measurer) *Interpreter {
	if m == nil {
		m = MonoMeasurer{}
	}
	return &Interpreter{measurer: m}
}

// Run 是 New(m).Run(src) 的简写。
func Run(src string, m Measurer) *Result {
	return New(m).Run(src)
}

// Run 逐行解释程序文本。无法识别或无法求值的行被跳过并记录诊断，其余行照常执行。
func (it *Interpreter) Run(src string) *Result {
	res := &Result{}
	state := InitialState()
	for _, line := range dsl.Body(src) {
		in, err := dsl.ParseLine(line.Text)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, dsl.Diagnostic{Line: line.Number, Source: line.Text, Err: err})
			continue
		}
		next, op, err := Step(state, in, it.measurer)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, dsl.Diagnostic{Line: line.Number, Source: line.Text, Err: err})
			continue
		}
		state = next
		if op != nil {
			res.Ops = append(res.Ops, op)
		}
	}
	res.State = state
	return res
}

// Step 执行一条指令：返回新的状态以及可能产生的图元。出错时状态保持不变。
func Step(state State, in dsl.Instruction, m Measurer) (State, Op, error) {
	ev := evaluator{state: state, measurer: m}
	switch in.Kind {
	case dsl.KindComment:
		return state, nil, nil
	case dsl.KindSetCursorX:
		x, err := ev.number(arg(in, 0))
		if err != nil {
			return state, nil, err
		}
		state.CursorX = x
		return state, nil, nil
	case dsl.KindAdvanceCursorY:
		dy, err := ev.number(arg(in, 0))
		if err != nil {
			return state, nil, err
		}
		state.CursorY += dy
		return state, nil, nil
	case dsl.KindSetFillColor:
		c, err := ev.color(arg(in, 0))
		if err != nil {
			return state, nil, err
		}
		state.Fill = c
		return state, nil, nil
	case dsl.KindSetPenColor:
		c, err := ev.color(arg(in, 0))
		if err != nil {
			return state, nil, err
		}
		state.Pen = c
		return state, nil, nil
	case dsl.KindSetFont:
		if in.Text == "" {
			return state, nil, fmt.Errorf("字体名为空")
		}
		state.Font = in.Text
		return state, nil, nil
	case dsl.KindDrawRectangle, dsl.KindDrawRoundedRectangle:
		return rect(state, in, ev)
	case dsl.KindPrintAt:
		return printAt(state, in, ev)
	case dsl.KindDrawImage:
		x, err := ev.number(arg(in, 0))
		if err != nil {
			return state, nil, err
		}
		y, err := ev.number(arg(in, 1))
		if err != nil {
			return state, nil, err
		}
		path, err := ev.str(arg(in, 2))
		if err != nil {
			return state, nil, err
		}
		return state, &ImageOp{X: x, Y: y, Path: path}, nil
	default:
		return state, nil, fmt.Errorf("不支持的指令 %s", in.Kind)
	}
}

func rect(state State, in dsl.Instruction, ev evaluator) (State, Op, error) {
	n := 4
	if in.Kind == dsl.KindDrawRoundedRectangle {
		n = 5
	}
	vals := make([]float64, n)
	for i := range vals {
		v, err := ev.number(arg(in, i))
		if err != nil {
			return state, nil, fmt.Errorf("第 %d 个参数: %w", i+1, err)
		}
		vals[i] = v
	}
	op := &RectOp{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3], Fill: state.Fill}
	if n == 5 {
		op.Radius = vals[4]
	}
	return state, op, nil
}

func printAt(state State, in dsl.Instruction, ev evaluator) (State, Op, error) {
	x, err := ev.number(arg(in, 0))
	if err != nil {
		return state, nil, fmt.Errorf("x: %w", err)
	}
	y, err := ev.number(arg(in, 1))
	if err != nil {
		return state, nil, fmt.Errorf("y: %w", err)
	}
	text, err := ev.str(arg(in, 2))
	if err != nil {
		return state, nil, fmt.Errorf("文本: %w", err)
	}
	return state, &TextOp{X: x, Y: y, Text: text, Font: state.Font, Color: state.Pen}, nil
}

func arg(in dsl.Instruction, i int) *dsl.Expression {
	if i < len(in.Args) {
		return in.Args[i]
	}
	return nil
}
