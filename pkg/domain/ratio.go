package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// 選択可能なアスペクト比です。
const (
	AspectRatio9x16 = "9:16"
	AspectRatio16x9 = "16:9"
	AspectRatio1x1  = "1:1"
	AspectRatio4x3  = "4:3"
	AspectRatio3x4  = "3:4"

	DefaultAspectRatio = AspectRatio9x16
)

// SupportedAspectRatios は UI に表示する順序でのアスペクト比一覧です。
var SupportedAspectRatios = []string{
	AspectRatio9x16,
	AspectRatio16x9,
	AspectRatio1x1,
	AspectRatio4x3,
	AspectRatio3x4,
}

// IsSupportedAspectRatio は列挙済みのアスペクト比かどうかを返します。
func IsSupportedAspectRatio(ratio string) bool {
	for _, r := range SupportedAspectRatios {
		if r == ratio {
			return true
		}
	}
	return false
}

// ParseAspectRatio は "W:H" を正の数値の組に分解します。
func ParseAspectRatio(ratio string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(ratio, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRatio, ratio)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(ws), 64)
	if err != nil || !isPositiveFinite(w) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRatio, ratio)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err != nil || !isPositiveFinite(h) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRatio, ratio)
	}
	return w, h, nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
