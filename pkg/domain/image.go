package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeWebP = "image/webp"
)

// NormalizedImage は正規化済みの画像記述子です。
// JSON のキー名はブラウザ版の保存形式と互換にしています。
type NormalizedImage struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
	DataURL  string `json:"dataUrl"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// NewNormalizedImage はバイナリからデータURL付きの記述子を組み立てます。
func NewNormalizedImage(data []byte, mimeType string, width, height int) NormalizedImage {
	encoded := base64.StdEncoding.EncodeToString(data)
	return NormalizedImage{
		Base64:   encoded,
		MimeType: mimeType,
		DataURL:  "data:" + mimeType + ";base64," + encoded,
		Width:    width,
		Height:   height,
	}
}

// Bytes は Base64 をデコードした生データを返します。
func (img NormalizedImage) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(img.Base64)
	if err != nil {
		return nil, fmt.Errorf("画像データのデコードに失敗しました: %w", err)
	}
	return data, nil
}

// IsZero は記述子が未設定かどうかを返します。
func (img NormalizedImage) IsZero() bool {
	return img.Base64 == "" && img.MimeType == ""
}

// IsSupportedUpload はアップロード可能なMIMEタイプかどうかを判定します。
func IsSupportedUpload(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeWebP:
		return true
	}
	return false
}

// DataURI は MIME タイプと生データから data URI を組み立てます。
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI は data URI を MIME タイプと生データに分解します。
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("data URI ではありません")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI の形式が不正です")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("base64 以外の data URI には対応していません")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URI のデコードに失敗しました: %w", err)
	}
	return mimeType, data, nil
}
