package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/brainscreen/interp"
	"github.com/ByLCY/brainscreen/layout"
	"github.com/ByLCY/brainscreen/markup"
	"github.com/ByLCY/brainscreen/renderer"
	canvasrenderer "github.com/ByLCY/brainscreen/renderer/canvas"
	"github.com/ByLCY/brainscreen/renderer/term"
)

// config 汇总命令行参数。
type config struct {
	input   string
	output  string
	preview string
	assets  string
	debug   string
	data    any
	tui     bool
	strict  bool
}

func main() {
	input := flag.String("in", "examples/demo.html", "HTML 文件路径")
	output := flag.String("out", "output/main.cpp", "生成的屏幕程序路径")
	preview := flag.String("preview", "", "预览输出路径（.png 或 .pdf）")
	assets := flag.String("assets", "", "图片资源目录，默认为输入文件所在目录")
	debug := flag.String("debug", "", "样式与指令调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到文本 ${path} 占位符的 JSON 数据")
	tui := flag.Bool("tui", false, "在终端中预览屏幕")
	strict := flag.Bool("strict", false, "解释诊断或图片缺失时直接失败")
	flag.Parse()

	cfg := config{
		input:   *input,
		output:  *output,
		preview: *preview,
		assets:  *assets,
		debug:   *debug,
		tui:     *tui,
		strict:  *strict,
	}
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &cfg.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}
	if cfg.assets == "" {
		cfg.assets = filepath.Dir(cfg.input)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("生成屏幕程序失败: %v", err)
	}
	fmt.Printf("已生成屏幕程序：%s\n", cfg.output)
}

// run 串联解析、生成、解释与预览。
func run(cfg config) error {
	file, err := os.Open(cfg.input)
	if err != nil {
		return fmt.Errorf("无法打开 HTML 文件 %s: %w", cfg.input, err)
	}
	defer file.Close()

	elems, err := markup.ExtractWithCharset(file, "")
	if err != nil {
		return fmt.Errorf("解析 HTML 失败: %w", err)
	}

	result, err := layout.Build(elems, layout.BuildOptions{Data: cfg.data})
	if err != nil {
		return fmt.Errorf("生成指令失败: %w", err)
	}

	if cfg.debug != "" {
		if err := writeDebug(result, cfg.debug); err != nil {
			return err
		}
	}

	src := result.Source()
	if err := writeFile(cfg.output, []byte(src+"\n")); err != nil {
		return fmt.Errorf("写入屏幕程序失败: %w", err)
	}

	if cfg.preview == "" && !cfg.tui {
		return nil
	}
	return runPreview(cfg, src)
}

// runPreview 解释生成的程序并输出预览；字符串宽度用预览字体测量。
func runPreview(cfg config, src string) error {
	opts := canvasrenderer.Options{BaseDir: cfg.assets, Strict: cfg.strict}
	if cfg.preview != "" {
		format, err := canvasrenderer.FormatFromPath(cfg.preview)
		if err != nil {
			return err
		}
		opts.Format = format
	}
	cr := canvasrenderer.NewRendererWithOptions(opts)

	res := interp.New(cr).Run(src)
	if err := res.Err(); err != nil {
		if cfg.strict {
			return fmt.Errorf("解释屏幕程序失败: %w", err)
		}
		for _, d := range res.Diagnostics {
			log.Printf("跳过 %v", d)
		}
	}

	if cfg.preview != "" {
		var r renderer.Renderer = cr
		data, err := r.Render(res.Ops)
		if err != nil {
			return fmt.Errorf("渲染预览失败: %w", err)
		}
		if err := writeFile(cfg.preview, data); err != nil {
			return fmt.Errorf("写入预览失败: %w", err)
		}
	}

	if cfg.tui {
		img, err := cr.Rasterize(res.Ops)
		if err != nil {
			return fmt.Errorf("渲染预览失败: %w", err)
		}
		if err := term.Show(img); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
