package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	lineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Assign", Pattern: `\+=|=`},
		{Name: "Symbol", Pattern: `[-+*/(),.;]`},
	})

	lineParser = participle.MustBuild[Line](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace", "BlockComment"),
		participle.UseLookahead(2),
	)

	exprParser = participle.MustBuild[Expression](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace", "BlockComment"),
	)
)

// Line 是指令流中单独一行的 AST：注释或一条语句（可带行尾注释）。
type Line struct {
	Pos       lexer.Position `parser:"" json:"-"`
	Comment   *string        `parser:"  @LineComment"`
	Statement *Statement     `parser:"| @@ LineComment?"`
}

// Statement 是赋值或函数调用语句。
type Statement struct {
	Assignment *Assignment `parser:"  @@"`
	Call       *Call       `parser:"| @@"`
}

// Assignment 对应 `cursorX = expr;` 与 `cursorY += expr;`。
type Assignment struct {
	Target string      `parser:"@Ident"`
	Op     string      `parser:"@Assign"`
	Value  *Expression `parser:"@@ ';'"`
}

// Call 对应 `Brain.Screen.xxx(args);`。
type Call struct {
	Callee []string      `parser:"@Ident ( '.' @Ident )*"`
	Args   []*Expression `parser:"'(' ( @@ ( ',' @@ )* )? ')' ';'"`
}

// Name 返回以点号连接的被调函数名。
func (c *Call) Name() string { return strings.Join(c.Callee, ".") }

// Expression 是加减层级的算术表达式。
type Expression struct {
	Left  *Term     `parser:"@@"`
	Right []*OpTerm `parser:"@@*"`
}

// OpTerm 是 `+ term` 或 `- term`。
type OpTerm struct {
	Op   string `parser:"@('+' | '-')"`
	Term *Term  `parser:"@@"`
}

// Term 是乘除层级。
type Term struct {
	Left  *Unary      `parser:"@@"`
	Right []*OpFactor `parser:"@@*"`
}

// OpFactor 是 `* unary` 或 `/ unary`。
type OpFactor struct {
	Op    string `parser:"@('*' | '/')"`
	Unary *Unary `parser:"@@"`
}

// Unary 允许一个可选的负号前缀。
type Unary struct {
	Neg     bool     `parser:"@'-'?"`
	Operand *Operand `parser:"@@"`
}

// Operand 是数字、字符串、变量/函数调用或括号子表达式。
type Operand struct {
	Number *float64       `parser:"  @Number"`
	Text   *StringLiteral `parser:"| @String"`
	Ref    *Ref           `parser:"| @@"`
	Group  *Expression    `parser:"| '(' @@ ')'"`
}

// Ref 是变量名或带参数的函数调用，名字可以带点号（Brain.Screen.getStringWidth）。
type Ref struct {
	Name []string `parser:"@Ident ( '.' @Ident )*"`
	Call *ArgList `parser:"@@?"`
}

// Ident 返回以点号连接的名字。
func (r *Ref) Ident() string { return strings.Join(r.Name, ".") }

// ArgList 是函数调用的参数列表。
type ArgList struct {
	Open string        `parser:"@'('"`
	Args []*Expression `parser:"( @@ ( ',' @@ )* )? ')'"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// ParseExpr 解析单个算术表达式。
func ParseExpr(src string) (*Expression, error) {
	expr, err := exprParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("解析表达式 %q 失败: %w", src, err)
	}
	return expr, nil
}

// MustExpr 解析静态表达式，失败时 panic；仅用于常量输入。
func MustExpr(src string) *Expression {
	expr, err := ParseExpr(src)
	if err != nil {
		panic(err)
	}
	return expr
}

// parseLineAST 解析一行文本为 Line AST。
func parseLineAST(src string) (*Line, error) {
	return lineParser.ParseString("", src)
}

// Num 构造数字字面量表达式。
func Num(v float64) *Expression {
	return wrapOperand(&Operand{Number: &v})
}

// Str 构造字符串字面量表达式。
func Str(s string) *Expression {
	lit := StringLiteral(s)
	return wrapOperand(&Operand{Text: &lit})
}

// Var 构造变量引用表达式。
func Var(name string) *Expression {
	return wrapOperand(&Operand{Ref: &Ref{Name: strings.Split(name, ".")}})
}

// CallExpr 构造函数调用表达式，例如 color(220, 38, 38)。
func CallExpr(name string, args ...*Expression) *Expression {
	return wrapOperand(&Operand{Ref: &Ref{
		Name: strings.Split(name, "."),
		Call: &ArgList{Open: "(", Args: args},
	}})
}

func wrapOperand(op *Operand) *Expression {
	return &Expression{Left: &Term{Left: &Unary{Operand: op}}}
}

// single 在表达式只有一个无符号操作数时返回该操作数。
func (e *Expression) single() (*Operand, bool) {
	if e == nil || len(e.Right) > 0 || e.Left == nil || len(e.Left.Right) > 0 {
		return nil, false
	}
	u := e.Left.Left
	if u == nil || u.Neg || u.Operand == nil {
		return nil, false
	}
	return u.Operand, true
}

// Identifier 在表达式是一个裸变量名时返回它。
func (e *Expression) Identifier() (string, bool) {
	op, ok := e.single()
	if !ok || op.Ref == nil || op.Ref.Call != nil {
		return "", false
	}
	return op.Ref.Ident(), true
}

// Literal 在表达式是一个字符串字面量时返回其内容。
func (e *Expression) Literal() (string, bool) {
	op, ok := e.single()
	if !ok || op.Text == nil {
		return "", false
	}
	return string(*op.Text), true
}

// String 以规范格式输出表达式：加减两侧留空格，乘除紧凑。
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Left.String())
	for _, r := range e.Right {
		b.WriteString(" ")
		b.WriteString(r.Op)
		b.WriteString(" ")
		b.WriteString(r.Term.String())
	}
	return b.String()
}

func (t *Term) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.Left.String())
	for _, r := range t.Right {
		b.WriteString(r.Op)
		b.WriteString(r.Unary.String())
	}
	return b.String()
}

func (u *Unary) String() string {
	if u == nil {
		return ""
	}
	if u.Neg {
		return "-" + u.Operand.String()
	}
	return u.Operand.String()
}

func (o *Operand) String() string {
	switch {
	case o == nil:
		return ""
	case o.Number != nil:
		return FormatNumber(*o.Number)
	case o.Text != nil:
		return strconv.Quote(string(*o.Text))
	case o.Ref != nil:
		name := o.Ref.Ident()
		if o.Ref.Call == nil {
			return name
		}
		return name + "(" + joinExprs(o.Ref.Call.Args) + ")"
	case o.Group != nil:
		return "(" + o.Group.String() + ")"
	default:
		return ""
	}
}

// FormatNumber 输出最短的十进制表示（整数不带小数点）。
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinExprs(exprs []*Expression) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
