package imgutil

import (
	"fmt"
	"image"
	"math"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
)

// GuideBaseSize はガイド画像の長辺のピクセル数です。
const GuideBaseSize = 512

// GuideDimensions はアスペクト比からガイド画像のサイズを計算します。
// 長辺を GuideBaseSize に固定し、短辺は四捨五入します。
func GuideDimensions(ratio string) (int, int, error) {
	w, h, err := domain.ParseAspectRatio(ratio)
	if err != nil {
		return 0, 0, err
	}
	if w > h {
		return GuideBaseSize, max(int(math.Round(GuideBaseSize*h/w)), 1), nil
	}
	return max(int(math.Round(GuideBaseSize*w/h)), 1), GuideBaseSize, nil
}

// BuildAspectGuide は指定アスペクト比の完全に透明な PNG を生成します。
// 生成モデルに出力形状を伝えるための参照画像として使います。
func BuildAspectGuide(ratio string) (domain.NormalizedImage, error) {
	width, height, err := GuideDimensions(ratio)
	if err != nil {
		return domain.NormalizedImage{}, err
	}

	// NRGBA のゼロ値は全ピクセルが透明
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	data, err := EncodePNG(canvas)
	if err != nil {
		return domain.NormalizedImage{}, fmt.Errorf("ガイド画像のエンコードに失敗しました: %w", err)
	}
	return domain.NewNormalizedImage(data, domain.MimeTypePNG, width, height), nil
}
