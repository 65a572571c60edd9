package imgutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"github.com/shouni/gemini-scene-kit/pkg/domain"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultMaxDimension は正規化後の長辺の上限です。
const DefaultMaxDimension = 1024

// Normalizer はアップロード画像を縮小・再符号化して NormalizedImage に変換します。
type Normalizer struct {
	MaxDimension int
	JPEGQuality  int
}

// NewNormalizer は既定値（長辺1024px、JPEG品質85）の Normalizer を返します。
func NewNormalizer() *Normalizer {
	return &Normalizer{
		MaxDimension: DefaultMaxDimension,
		JPEGQuality:  DefaultJPEGQuality,
	}
}

// Normalize は申告された MIME タイプを検証したうえで画像を正規化します。
// JPEG は JPEG のまま、PNG と WebP は可逆の PNG として出力します。
func (n *Normalizer) Normalize(ctx context.Context, data []byte, declaredMIME string) (domain.NormalizedImage, error) {
	if !domain.IsSupportedUpload(declaredMIME) {
		return domain.NormalizedImage{}, fmt.Errorf("%w: %s", domain.ErrInvalidFormat, declaredMIME)
	}
	if err := ctx.Err(); err != nil {
		return domain.NormalizedImage{}, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.NormalizedImage{}, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	width, height := FitWithin(src.Bounds().Dx(), src.Bounds().Dy(), n.maxDimension())
	img := src
	if width != src.Bounds().Dx() || height != src.Bounds().Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
		img = dst
	}

	var (
		encoded  []byte
		mimeType string
	)
	if declaredMIME == domain.MimeTypeJPEG {
		mimeType = domain.MimeTypeJPEG
		encoded, err = EncodeJPEG(img, n.jpegQuality())
	} else {
		mimeType = domain.MimeTypePNG
		encoded, err = EncodePNG(img)
	}
	if err != nil {
		return domain.NormalizedImage{}, fmt.Errorf("画像の再エンコードに失敗しました: %w", err)
	}

	return domain.NewNormalizedImage(encoded, mimeType, width, height), nil
}

// FitWithin は縦横比を保ったまま長辺が limit 以下になるサイズを返します。
// 元から収まっている場合はそのままです。
func FitWithin(width, height, limit int) (int, int) {
	if width > height {
		if width > limit {
			height = int(math.Round(float64(height) * float64(limit) / float64(width)))
			width = limit
		}
	} else if height > limit {
		width = int(math.Round(float64(width) * float64(limit) / float64(height)))
		height = limit
	}
	return max(width, 1), max(height, 1)
}

func (n *Normalizer) maxDimension() int {
	if n.MaxDimension <= 0 {
		return DefaultMaxDimension
	}
	return n.MaxDimension
}

func (n *Normalizer) jpegQuality() int {
	if n.JPEGQuality <= 0 || n.JPEGQuality > 100 {
		return DefaultJPEGQuality
	}
	return n.JPEGQuality
}
