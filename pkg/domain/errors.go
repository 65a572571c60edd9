package domain

import "errors"

var (
	// ErrInvalidFormat はアップロードされたファイル形式が JPEG/PNG/WebP 以外の場合に返ります。
	ErrInvalidFormat = errors.New("invalid image format: use JPEG, PNG or WebP")
	// ErrInvalidRatio は "W:H" として解釈できないアスペクト比です。
	ErrInvalidRatio = errors.New("invalid aspect ratio")
	// ErrUnsupportedRatio は選択肢にないアスペクト比です。
	ErrUnsupportedRatio = errors.New("unsupported aspect ratio")
	ErrMissingImage     = errors.New("no source image uploaded")
	// ErrGenerationInProgress は生成中に二重で Generate が呼ばれた場合に返ります。
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrPromptTooLong        = errors.New("prompt exceeds maximum length")
	ErrHistoryNotFound      = errors.New("history entry not found")
	ErrUnknownPreset        = errors.New("unknown style preset")
)
