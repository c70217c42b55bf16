package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/ByLCY/brainscreen/dsl"
	"github.com/ByLCY/brainscreen/interp"
	"github.com/ByLCY/brainscreen/layout"
	"github.com/ByLCY/brainscreen/markup"
)

func near(a, b uint8) bool {
	return math.Abs(float64(a)-float64(b)) <= 2
}

func assertPixel(t *testing.T, img *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	got := img.RGBAAt(x, y)
	if !near(got.R, want.R) || !near(got.G, want.G) || !near(got.B, want.B) {
		t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func TestRasterizeFillsRectangles(t *testing.T) {
	r := NewRenderer(".")
	img, err := r.Rasterize([]interp.Op{
		&interp.RectOp{X: 0, Y: 0, Width: 240, Height: 40, Fill: dsl.Color{R: 220, G: 38, B: 38}},
	})
	if err != nil {
		t.Fatalf("rasterize failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != layout.ScreenWidth || b.Dy() != layout.ScreenHeight {
		t.Fatalf("unexpected bounds: %v", b)
	}
	assertPixel(t, img, 10, 10, color.RGBA{R: 220, G: 38, B: 38})
	assertPixel(t, img, 300, 10, color.RGBA{})
	assertPixel(t, img, 10, 100, color.RGBA{})
}

func TestRasterizeStartsFromBlankScreen(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.Rasterize([]interp.Op{&interp.RectOp{Width: 480, Height: 240, Fill: dsl.Color{R: 255}}}); err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	img, err := r.Rasterize(nil)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	assertPixel(t, img, 200, 120, color.RGBA{})
}

func TestRasterizeDrawsText(t *testing.T) {
	r := NewRenderer(".")
	img, err := r.Rasterize([]interp.Op{
		&interp.TextOp{X: 100, Y: 100, Text: "HHHH", Font: "monoL", Color: dsl.Color{R: 255, G: 255, B: 255}},
	})
	if err != nil {
		t.Fatalf("rasterize failed: %v", err)
	}
	lit := 0
	for y := 95; y < 130; y++ {
		for x := 60; x < 180; x++ {
			if img.RGBAAt(x, y).R > 128 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatalf("expected text pixels near (100,100)")
	}
}

// 文本整体左移自身宽度的四分之一：最左侧的亮列应落在 x - w/4 附近（加上字形左侧留白）。
func TestTextShiftedLeftByQuarterWidth(t *testing.T) {
	r := NewRenderer(".")
	const text, font = "HHHH", "monoL"
	img, err := r.Rasterize([]interp.Op{
		&interp.TextOp{X: 100, Y: 100, Text: text, Font: font, Color: dsl.Color{R: 255, G: 255, B: 255}},
	})
	if err != nil {
		t.Fatalf("rasterize failed: %v", err)
	}
	leftmost := -1
	for x := 0; x < 200 && leftmost < 0; x++ {
		for y := 95; y < 130; y++ {
			if img.RGBAAt(x, y).R > 64 {
				leftmost = x
				break
			}
		}
	}
	if leftmost < 0 {
		t.Fatalf("no text pixels found")
	}
	width := r.StringWidth(text, font)
	want := 100 - width/quarterWidthNudge
	if got := float64(leftmost); got < want-2 || got > want+5 {
		t.Fatalf("leftmost text column %d, want about %.1f (width %.1f)", leftmost, want, width)
	}
	if float64(leftmost) >= 100-width/8 {
		t.Fatalf("text not shifted left of x=100: leftmost column %d", leftmost)
	}
}

func TestStringWidthUsesMonospaceFaces(t *testing.T) {
	r := NewRenderer(".")
	one := r.StringWidth("a", "monoM")
	if one <= 0 {
		t.Fatalf("invalid width: %g", one)
	}
	if got := r.StringWidth("abcd", "monoM"); math.Abs(got-4*one) > 1e-6 {
		t.Fatalf("monospace width mismatch: %g vs 4*%g", got, one)
	}
	if r.StringWidth("abcd", "monoL") <= r.StringWidth("abcd", "monoM") {
		t.Fatalf("larger font should measure wider")
	}
	if r.StringWidth("abcd", "unknownFont") <= 0 {
		t.Fatalf("unknown fonts should fall back to a real face")
	}
}

func TestMissingImageDrawsPlaceholder(t *testing.T) {
	ops := []interp.Op{&interp.ImageOp{X: 10, Y: 10, Path: "missing.png"}}
	if _, err := NewRenderer(t.TempDir()).Rasterize(ops); err != nil {
		t.Fatalf("non-strict render should not fail: %v", err)
	}
	strict := NewRendererWithOptions(Options{BaseDir: t.TempDir(), Strict: true})
	if _, err := strict.Rasterize(ops); err == nil {
		t.Fatalf("strict render should report missing image")
	}
}

func TestBuiltInImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	r := NewRendererWithOptions(Options{
		Images: map[string]Resource{"dot": {Bytes: buf.Bytes()}},
		Strict: true,
	})
	if _, err := r.Rasterize([]interp.Op{&interp.ImageOp{X: 0, Y: 0, Path: "built-in:dot"}}); err != nil {
		t.Fatalf("built-in image failed: %v", err)
	}
	if _, err := r.Rasterize([]interp.Op{&interp.ImageOp{Path: "built-in:nope"}}); err == nil {
		t.Fatalf("expected error for unknown built-in image")
	}
}

func TestRenderFormats(t *testing.T) {
	ops := []interp.Op{&interp.RectOp{Width: 10, Height: 10, Fill: dsl.Color{B: 255}}}

	pngBytes, err := NewRenderer(".").Render(ops)
	if err != nil {
		t.Fatalf("png render failed: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("png decode failed: %v", err)
	}
	if cfg.Width != layout.ScreenWidth || cfg.Height != layout.ScreenHeight {
		t.Fatalf("unexpected png size %dx%d", cfg.Width, cfg.Height)
	}

	pdfBytes, err := NewRendererWithOptions(Options{Format: FormatPDF}).Render(ops)
	if err != nil {
		t.Fatalf("pdf render failed: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{"out/a.png": FormatPNG, "b.PDF": FormatPDF}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Fatalf("%s: got %q, %v", path, got, err)
		}
	}
	if _, err := FormatFromPath("c.svg"); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestPipelineRendersBackground(t *testing.T) {
	elems, err := markup.ExtractString(`<div class="bg-blue-500 p-2 text-center">Hello</div>`)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	gen, err := layout.Build(elems, layout.BuildOptions{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	r := NewRenderer(".")
	res := interp.Run(gen.Source(), r)
	if err := res.Err(); err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	img, err := r.Rasterize(res.Ops)
	if err != nil {
		t.Fatalf("rasterize failed: %v", err)
	}
	// 文本块高度为 20 + 2*10，背景宽度 240
	assertPixel(t, img, 2, 2, color.RGBA{R: 59, G: 130, B: 246})
	assertPixel(t, img, 2, 60, color.RGBA{})
	assertPixel(t, img, 300, 2, color.RGBA{})
}
