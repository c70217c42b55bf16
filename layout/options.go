package layout

// BuildOptions 配置代码生成阶段。
type BuildOptions struct {
	// Data 是绑定到元素内容的 JSON 数据，文本中的 ${path} 会被替换。
	Data any
	// OmitComments 关闭每个元素块之前的 `// <tag class="...">` 注释。
	OmitComments bool
}
