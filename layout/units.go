package layout

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// This file defines the display constants and the auto/fixed dimension type.

// 屏幕与间距常量，单位均为像素。
const (
	ScreenWidth  = 480
	ScreenHeight = 240
	// AutoWidthBase 是 auto 宽度公式 `AutoWidthBase - 2*cursorX` 的基数。
	AutoWidthBase = 240
	// SpacingUnit 是 p-/m-/w-/h- 数值的倍率。
	SpacingUnit = 5
	// ImageFallbackHeight 是 auto 高度图片的占位高度，流水线无法测量图片尺寸。
	ImageFallbackHeight = 50
	// RoundedRadius 是 rounded 背景的圆角半径。
	RoundedRadius = 5
)

// DimensionKind distinguishes the auto sentinel from a resolved number.
type DimensionKind int

const (
	DimensionAuto DimensionKind = iota
	DimensionFixed
)

// Dimension is a width or height: either auto (resolved later from content) or a pixel value.
type Dimension struct {
	Kind  DimensionKind
	Value int
}

// Auto returns the auto sentinel.
func Auto() Dimension { return Dimension{Kind: DimensionAuto} }

// Fixed returns a resolved dimension.
func Fixed(v int) Dimension { return Dimension{Kind: DimensionFixed, Value: v} }

func (d Dimension) IsAuto() bool { return d.Kind == DimensionAuto }

func (d Dimension) String() string {
	if d.IsAuto() {
		return "auto"
	}
	return strconv.Itoa(d.Value)
}

// MarshalJSON 输出 "auto" 或数字，便于调试 JSON 阅读。
func (d Dimension) MarshalJSON() ([]byte, error) {
	if d.IsAuto() {
		return json.Marshal("auto")
	}
	return json.Marshal(d.Value)
}

// parseSpacing parses the numeric part of p-/m- tokens into pixels.
// Negative, non-numeric or overflowing values are rejected.
func parseSpacing(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 || n > math.MaxInt/SpacingUnit {
		return 0, false
	}
	return n * SpacingUnit, true
}

// parseDimension parses the value part of w-/h- tokens; full maps to the given screen extent.
func parseDimension(value string, full int) (Dimension, bool) {
	switch value {
	case "auto":
		return Auto(), true
	case "full":
		return Fixed(full), true
	}
	px, ok := parseSpacing(value)
	if !ok {
		return Dimension{}, false
	}
	return Fixed(px), true
}
