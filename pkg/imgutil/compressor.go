package imgutil

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
)

// DefaultJPEGQuality はブラウザ版の canvas.toDataURL(…, 0.85) に相当する品質です。
const DefaultJPEGQuality = 85

// EncodeJPEG は画像を指定品質の JPEG に符号化します。
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePNG は画像を可逆の PNG に符号化します。
func EncodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
