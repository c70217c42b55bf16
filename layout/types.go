package layout

import (
	"github.com/ByLCY/brainscreen/dsl"
	"github.com/ByLCY/brainscreen/markup"
)

// 该文件定义生成结果，供代码输出、解释预览与调试 JSON 共用。

// Cursor 是生成器记录的游标位置（像素）。
type Cursor struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Block 是单个元素生成的指令块。
type Block struct {
	Element      markup.Element    `json:"element"`
	Style        Style             `json:"style"`
	Instructions []dsl.Instruction `json:"instructions"`
}

// Result 保存全部指令块以及生成结束时的游标。
type Result struct {
	Blocks []Block `json:"blocks"`
	Cursor Cursor  `json:"cursor"`
}

// Source 返回带固定头尾的完整程序文本。
func (r *Result) Source() string {
	blocks := make([][]dsl.Instruction, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		blocks = append(blocks, b.Instructions)
	}
	return dsl.EncodeProgram(blocks)
}

// Instructions 按输出顺序返回全部指令。
func (r *Result) Instructions() []dsl.Instruction {
	var out []dsl.Instruction
	for _, b := range r.Blocks {
		out = append(out, b.Instructions...)
	}
	return out
}

// Count 统计某类指令出现的次数。
func (r *Result) Count(kind dsl.Kind) int {
	n := 0
	for _, in := range r.Instructions() {
		if in.Kind == kind {
			n++
		}
	}
	return n
}
