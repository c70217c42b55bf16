// Package term 把栅格预览画到终端里：每个字符格用上半块字符显示两行像素。
package term

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"
)

const halfBlock = '▀'

// Paint 按比例缩放 img（最近邻采样）并写入 screen，随后调用 Show。
// 前景色是上半格像素，背景色是下半格像素。
func Paint(screen tcell.Screen, img image.Image) {
	screen.Clear()
	cols, rows := screen.Size()
	b := img.Bounds()
	if cols <= 0 || rows <= 0 || b.Dx() <= 0 || b.Dy() <= 0 {
		screen.Show()
		return
	}

	width, height := cols, cols*b.Dy()/b.Dx()
	if height > 2*rows {
		width, height = 2*rows*b.Dx()/b.Dy(), 2*rows
	}
	width, height = max(1, width), max(1, height)

	sample := func(x, y int) tcell.Color {
		sx := b.Min.X + x*b.Dx()/width
		sy := b.Min.Y + y*b.Dy()/height
		r, g, bl, _ := img.At(sx, sy).RGBA()
		return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(bl>>8))
	}

	for cy := 0; cy*2 < height; cy++ {
		for cx := 0; cx < width; cx++ {
			top := sample(cx, cy*2)
			bottom := top
			if cy*2+1 < height {
				bottom = sample(cx, cy*2+1)
			}
			screen.SetContent(cx, cy, halfBlock, nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
	screen.Show()
}

// Show 打开终端显示 img，按任意键后恢复终端。窗口大小变化时重新绘制。
func Show(img image.Image) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("创建终端屏幕失败: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("初始化终端失败: %w", err)
	}
	defer screen.Fini()
	return run(screen, img)
}

func run(screen tcell.Screen, img image.Image) error {
	Paint(screen, img)
	for {
		switch screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
			Paint(screen, img)
		case *tcell.EventKey:
			return nil
		}
	}
}
