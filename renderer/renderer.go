package renderer

import "github.com/ByLCY/brainscreen/interp"

// Renderer 将解释得到的图元输出为预览文件，例如 PNG 或 PDF。
// Render 返回生成的二进制数据以及可能的错误；每次调用都从空白屏幕开始。
type Renderer interface {
	Render(ops []interp.Op) ([]byte, error)
}
