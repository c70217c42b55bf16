package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/brainscreen/dsl"
	"github.com/ByLCY/brainscreen/fonts"
	"github.com/ByLCY/brainscreen/interp"
	"github.com/ByLCY/brainscreen/layout"
	"github.com/ByLCY/brainscreen/renderer"
)

const (
	// 文本绘制位置统一左移自身宽度的四分之一，与 Brain 屏幕预览保持一致。
	// 这与生成器里的对齐计算是叠加关系。
	quarterWidthNudge = 4

	placeholderStroke = 1.0

	// 画布以 mm 为单位，预览按 1 mm = 1 px 栅格化；字号需要从 px(mm) 换算为 pt。
	ptPerMm = 72 / 25.4
)

var placeholderColor = dsl.Color{R: 107, G: 114, B: 128}

// Format 是预览输出格式。
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// FormatFromPath 按扩展名推断输出格式。
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("不支持的预览格式 %q（仅支持 .png / .pdf）", filepath.Ext(path))
	}
}

// Renderer draws interpreter ops onto a 480×240 screen via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	format  Format
	strict  bool

	imageBlobs map[string][]byte // by unique name

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily // by font family
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ interp.Measurer   = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Format  Format
	Images  map[string]Resource // built-in images accessible via built-in:<name>
	// Strict 为 true 时图片加载失败直接返回错误，否则绘制占位框。
	Strict bool
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a PNG renderer rooted at baseDir for resolving images.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:    opts.BaseDir,
		format:     opts.Format,
		strict:     opts.Strict,
		imageBlobs: map[string][]byte{},
		families:   map[string]*canvas.FontFamily{},
	}
	if r.format == "" {
		r.format = FormatPNG
	}
	for name, res := range opts.Images {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.imageBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败留到绘制时按缺失处理
			if len(data) > 0 {
				r.imageBlobs[name] = data
			}
		}
	}
	return r
}

// Render 把图元绘制到新的屏幕上，并按配置的格式编码。
func (r *Renderer) Render(ops []interp.Op) ([]byte, error) {
	switch r.format {
	case FormatPDF:
		return r.renderPDF(ops)
	case FormatPNG:
		img, err := r.Rasterize(ops)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("编码 PNG 失败: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("不支持的预览格式 %q", r.format)
	}
}

// Rasterize 返回 480×240 的栅格图像。
func (r *Renderer) Rasterize(ops []interp.Op) (*image.RGBA, error) {
	c, err := r.draw(ops)
	if err != nil {
		return nil, err
	}
	return rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace), nil
}

func (r *Renderer) renderPDF(ops []interp.Op) ([]byte, error) {
	c, err := r.draw(ops)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writer := pdf.New(&buf, layout.ScreenWidth, layout.ScreenHeight, nil)
	writer.SetInfo("Brain screen preview", "", "", "", "brainscreen")
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// draw 每次都创建新的画布并清为黑色，不保留上一次的内容。
func (r *Renderer) draw(ops []interp.Op) (*canvas.Canvas, error) {
	c := canvas.New(layout.ScreenWidth, layout.ScreenHeight)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 与屏幕一致，左上角为原点

	ctx.SetStrokeColor(canvas.Transparent)
	ctx.SetFillColor(canvas.Black)
	ctx.DrawPath(0, 0, canvas.Rectangle(layout.ScreenWidth, layout.ScreenHeight))

	for i, op := range ops {
		var err error
		switch op := op.(type) {
		case *interp.RectOp:
			r.drawRect(ctx, op)
		case *interp.TextOp:
			err = r.drawText(ctx, op)
		case *interp.ImageOp:
			err = r.drawImage(ctx, op)
		default:
			err = fmt.Errorf("未知图元 %T", op)
		}
		if err != nil {
			return nil, fmt.Errorf("第 %d 个图元: %w", i+1, err)
		}
	}
	return c, nil
}

func (r *Renderer) drawRect(ctx *canvas.Context, op *interp.RectOp) {
	if op.Width <= 0 || op.Height <= 0 {
		return
	}
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.SetFillColor(colorOf(op.Fill))
	path := canvas.Rectangle(op.Width, op.Height)
	if op.Radius > 0 {
		path = canvas.RoundedRectangle(op.Width, op.Height, op.Radius)
	}
	ctx.DrawPath(op.X, op.Y, path)
}

func (r *Renderer) drawText(ctx *canvas.Context, op *interp.TextOp) error {
	face, err := r.fontFace(op.Font, op.Color)
	if err != nil {
		return err
	}
	width := face.TextWidth(op.Text)
	// 基线位置：文本顶部加上字体上升部
	baseline := op.Y + face.Metrics().Ascent
	ctx.DrawText(op.X-width/quarterWidthNudge, baseline, canvas.NewTextLine(face, op.Text, canvas.Left))
	return nil
}

func (r *Renderer) drawImage(ctx *canvas.Context, op *interp.ImageOp) error {
	img, err := r.loadImage(op.Path)
	if err != nil {
		if r.strict {
			return err
		}
		r.drawPlaceholder(ctx, op.X, op.Y)
		return nil
	}
	// 按图片原始像素尺寸绘制
	ctx.DrawImage(op.X, op.Y, img, canvas.DPMM(1))
	return nil
}

func (r *Renderer) drawPlaceholder(ctx *canvas.Context, x, y float64) {
	size := float64(layout.ImageFallbackHeight)
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(colorOf(placeholderColor))
	ctx.SetStrokeWidth(placeholderStroke)
	ctx.DrawPath(x, y, canvas.Rectangle(size, size))
	ctx.SetStrokeColor(canvas.Transparent)
}

func (r *Renderer) loadImage(orig string) (image.Image, error) {
	if orig == "" {
		return nil, fmt.Errorf("图片路径为空")
	}
	// built-in resources take precedence
	if strings.HasPrefix(orig, "built-in:") || strings.HasPrefix(orig, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(orig, "built-in:"), "builtin:")
		blob, ok := r.imageBlobs[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		img, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
		return img, nil
	}
	if blob, ok := r.imageBlobs[orig]; ok {
		img, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码图片 %s 失败: %w", orig, err)
		}
		return img, nil
	}
	if r.baseDir == "" && !filepath.IsAbs(orig) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用路径：%s（请改用 built-in:）", orig)
	}
	path := orig
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", orig, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", orig, err)
	}
	return img, nil
}

// StringWidth 实现 interp.Measurer：用绘制时相同的字体面测量宽度（px）。
func (r *Renderer) StringWidth(text, font string) float64 {
	face, err := r.fontFace(font, dsl.Color{})
	if err != nil {
		return interp.MonoMeasurer{}.StringWidth(text, font)
	}
	return face.TextWidth(text)
}

func (r *Renderer) fontFace(id string, col dsl.Color) (*canvas.FontFace, error) {
	font := fonts.Resolve(id)
	family, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(toPt(font.Px), colorOf(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font fonts.Font) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[font.Family]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(font.Family)
	if err := family.LoadFont(font.TTF, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", font.ID, err)
	}
	r.families[font.Family] = family
	return family, nil
}

func colorOf(c dsl.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将像素高度（画布上的 mm）转换为点(pt)。
func toPt(px float64) float64 { return px * ptPerMm }
