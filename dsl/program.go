package dsl

import (
	"fmt"
	"strings"
)

// Header 是生成程序的固定开头：声明、入口、清屏与游标声明。
var Header = []string{
	"#include <vex.h>",
	"using namespace vex;",
	"",
	"brain Brain;",
	"",
	"int main() {",
	"  Brain.Screen.clearScreen();",
	"  int cursorX = 0, cursorY = 0;",
	"",
}

// Footer 是生成程序的固定结尾。
var Footer = []string{
	"  return 0;",
	"}",
}

const indent = "  "

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// IsBlack 报告三个通道是否全为 0。生成器把黑色背景视为透明。
func (c Color) IsBlack() bool { return c.R == 0 && c.G == 0 && c.B == 0 }

// Expr 返回 color(r, g, b) 构造表达式。
func (c Color) Expr() *Expression {
	return CallExpr(ColorFunc, Num(float64(c.R)), Num(float64(c.G)), Num(float64(c.B)))
}

func (c Color) String() string {
	return fmt.Sprintf("color(%d, %d, %d)", c.R, c.G, c.B)
}

// EncodeProgram 输出完整程序：Header、各元素指令块（块间空行）与 Footer。
func EncodeProgram(blocks [][]Instruction) string {
	lines := make([]string, 0, len(Header)+len(Footer)+len(blocks)*8)
	lines = append(lines, Header...)
	for _, block := range blocks {
		for _, in := range block {
			lines = append(lines, indent+in.Encode())
		}
		lines = append(lines, "")
	}
	lines = append(lines, Footer...)
	return strings.Join(lines, "\n")
}

// SourceLine 是带 1 起始行号的源码行。
type SourceLine struct {
	Number int
	Text   string
}

// Body 返回程序中需要逐行解释的部分：去掉空行，
// 若存在固定的 Header/Footer 则一并去掉；手写片段原样保留。
func Body(src string) []SourceLine {
	var lines []SourceLine
	for i, raw := range strings.Split(src, "\n") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		lines = append(lines, SourceLine{Number: i + 1, Text: text})
	}
	if head := significant(Header); hasPrefix(lines, head) {
		lines = lines[len(head):]
	}
	if foot := significant(Footer); hasSuffix(lines, foot) {
		lines = lines[:len(lines)-len(foot)]
	}
	return lines
}

func significant(fixed []string) []string {
	out := make([]string, 0, len(fixed))
	for _, l := range fixed {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func hasPrefix(lines []SourceLine, want []string) bool {
	if len(lines) < len(want) {
		return false
	}
	for i, w := range want {
		if lines[i].Text != w {
			return false
		}
	}
	return true
}

func hasSuffix(lines []SourceLine, want []string) bool {
	if len(lines) < len(want) {
		return false
	}
	offset := len(lines) - len(want)
	for i, w := range want {
		if lines[offset+i].Text != w {
			return false
		}
	}
	return true
}

// Diagnostic 记录被跳过的一行以及原因。
type Diagnostic struct {
	Line   int
	Source string
	Err    error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("第 %d 行 %q: %v", d.Line, d.Source, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }
