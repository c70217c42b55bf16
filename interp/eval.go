package interp

import (
	"fmt"
	"math"

	"github.com/ByLCY/brainscreen/dsl"
)

type valueKind int

const (
	numberValue valueKind = iota
	stringValue
	colorValue
)

func (k valueKind) String() string {
	switch k {
	case stringValue:
		return "字符串"
	case colorValue:
		return "颜色"
	default:
		return "数字"
	}
}

// value 是表达式求值结果。
type value struct {
	kind  valueKind
	num   float64
	str   string
	color dsl.Color
}

// evaluator 只认识 + - * /、数字、字符串、游标变量和固定的几个函数，
// 指令文本不会被当作任意代码执行。
type evaluator struct {
	state    State
	measurer Measurer
}

func (ev evaluator) number(e *dsl.Expression) (float64, error) {
	v, err := ev.eval(e)
	if err != nil {
		return 0, err
	}
	if v.kind != numberValue {
		return 0, fmt.Errorf("需要数字，得到%s", v.kind)
	}
	return v.num, nil
}

func (ev evaluator) str(e *dsl.Expression) (string, error) {
	v, err := ev.eval(e)
	if err != nil {
		return "", err
	}
	if v.kind != stringValue {
		return "", fmt.Errorf("需要字符串，得到%s", v.kind)
	}
	return v.str, nil
}

func (ev evaluator) color(e *dsl.Expression) (dsl.Color, error) {
	v, err := ev.eval(e)
	if err != nil {
		return dsl.Color{}, err
	}
	if v.kind != colorValue {
		return dsl.Color{}, fmt.Errorf("需要颜色，得到%s", v.kind)
	}
	return v.color, nil
}

func (ev evaluator) eval(e *dsl.Expression) (value, error) {
	if e == nil || e.Left == nil {
		return value{}, fmt.Errorf("空表达式")
	}
	acc, err := ev.term(e.Left)
	if err != nil {
		return value{}, err
	}
	for _, r := range e.Right {
		rhs, err := ev.term(r.Term)
		if err != nil {
			return value{}, err
		}
		if acc, err = arith(r.Op, acc, rhs); err != nil {
			return value{}, err
		}
	}
	return acc, nil
}

func (ev evaluator) term(t *dsl.Term) (value, error) {
	acc, err := ev.unary(t.Left)
	if err != nil {
		return value{}, err
	}
	for _, r := range t.Right {
		rhs, err := ev.unary(r.Unary)
		if err != nil {
			return value{}, err
		}
		if acc, err = arith(r.Op, acc, rhs); err != nil {
			return value{}, err
		}
	}
	return acc, nil
}

func (ev evaluator) unary(u *dsl.Unary) (value, error) {
	v, err := ev.operand(u.Operand)
	if err != nil {
		return value{}, err
	}
	if u.Neg {
		if v.kind != numberValue {
			return value{}, fmt.Errorf("不能对%s取负", v.kind)
		}
		v.num = -v.num
	}
	return v, nil
}

func (ev evaluator) operand(o *dsl.Operand) (value, error) {
	switch {
	case o == nil:
		return value{}, fmt.Errorf("空操作数")
	case o.Number != nil:
		return value{kind: numberValue, num: *o.Number}, nil
	case o.Text != nil:
		return value{kind: stringValue, str: string(*o.Text)}, nil
	case o.Group != nil:
		return ev.eval(o.Group)
	case o.Ref != nil && o.Ref.Call != nil:
		return ev.call(o.Ref.Ident(), o.Ref.Call.Args)
	case o.Ref != nil:
		return ev.variable(o.Ref.Ident())
	default:
		return value{}, fmt.Errorf("空操作数")
	}
}

func (ev evaluator) variable(name string) (value, error) {
	switch name {
	case dsl.CursorX:
		return value{kind: numberValue, num: ev.state.CursorX}, nil
	case dsl.CursorY:
		return value{kind: numberValue, num: ev.state.CursorY}, nil
	default:
		return value{}, fmt.Errorf("未定义的变量 %s", name)
	}
}

func (ev evaluator) call(name string, args []*dsl.Expression) (value, error) {
	switch name {
	case dsl.ColorFunc:
		if len(args) != 3 {
			return value{}, fmt.Errorf("%s 需要 3 个参数，实际 %d 个", name, len(args))
		}
		var ch [3]int
		for i, a := range args {
			n, err := ev.number(a)
			if err != nil {
				return value{}, fmt.Errorf("%s 第 %d 个参数: %w", name, i+1, err)
			}
			ch[i] = clampChannel(n)
		}
		return value{kind: colorValue, color: dsl.Color{R: ch[0], G: ch[1], B: ch[2]}}, nil
	case dsl.StringWidthFunc:
		if len(args) != 1 {
			return value{}, fmt.Errorf("%s 需要 1 个参数，实际 %d 个", name, len(args))
		}
		s, err := ev.str(args[0])
		if err != nil {
			return value{}, fmt.Errorf("%s: %w", name, err)
		}
		return value{kind: numberValue, num: ev.measurer.StringWidth(s, ev.state.Font)}, nil
	default:
		return value{}, fmt.Errorf("未知的函数 %s", name)
	}
}

func arith(op string, a, b value) (value, error) {
	if a.kind != numberValue || b.kind != numberValue {
		return value{}, fmt.Errorf("不能对%s与%s做 %s 运算", a.kind, b.kind, op)
	}
	switch op {
	case "+":
		return value{kind: numberValue, num: a.num + b.num}, nil
	case "-":
		return value{kind: numberValue, num: a.num - b.num}, nil
	case "*":
		return value{kind: numberValue, num: a.num * b.num}, nil
	case "/":
		if b.num == 0 {
			return value{}, fmt.Errorf("除数为 0")
		}
		return value{kind: numberValue, num: a.num / b.num}, nil
	default:
		return value{}, fmt.Errorf("未知的运算符 %s", op)
	}
}

func clampChannel(v float64) int {
	return int(math.Max(0, math.Min(255, math.Round(v))))
}
