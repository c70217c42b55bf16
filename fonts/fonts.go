// Package fonts 把 Brain 屏幕的字体标识映射到可渲染的 TTF 数据与像素高度。
package fonts

import (
	"fmt"
	"sort"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Font 是一个屏幕字体：等宽或比例字体族，加上字号阶梯中的像素高度。
type Font struct {
	ID     string
	Family string
	Px     float64
	TTF    []byte
}

const (
	FamilyMono = "mono"
	FamilyProp = "prop"
)

// Fallback 是未知字体标识使用的字体：20px 比例字体。
var Fallback = Font{ID: "propM", Family: FamilyProp, Px: 20, TTF: goregular.TTF}

var ladder = []struct {
	suffix string
	px     float64
}{
	{"XS", 12},
	{"S", 16},
	{"M", 20},
	{"L", 24},
	{"XL", 28},
}

var table = func() map[string]Font {
	m := make(map[string]Font, 2*len(ladder))
	for _, step := range ladder {
		m[FamilyMono+step.suffix] = Font{ID: FamilyMono + step.suffix, Family: FamilyMono, Px: step.px, TTF: gomono.TTF}
		m[FamilyProp+step.suffix] = Font{ID: FamilyProp + step.suffix, Family: FamilyProp, Px: step.px, TTF: goregular.TTF}
	}
	return m
}()

// Lookup 按标识查找字体。
func Lookup(id string) (Font, bool) {
	f, ok := table[id]
	return f, ok
}

// Load 按标识查找字体，找不到时返回错误。
func Load(id string) (Font, error) {
	f, ok := Lookup(id)
	if !ok {
		return Font{}, fmt.Errorf("未知的屏幕字体 %s", id)
	}
	return f, nil
}

// Resolve 与 Load 相同，但未知标识退回 Fallback。
func Resolve(id string) Font {
	if f, ok := Lookup(id); ok {
		return f
	}
	return Fallback
}

// IDs 返回全部已知字体标识（有序）。
func IDs() []string {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
