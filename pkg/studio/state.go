package studio

import "github.com/shouni/gemini-scene-kit/pkg/domain"

// ユーザー向けメッセージ
const (
	MsgMissingImage    = "先に画像をアップロードしてください。"
	MsgInvalidFormat   = "無効なファイル形式です。JPG、PNG、WebPのいずれかを使用してください。"
	MsgProcessingError = "画像の処理に失敗しました。"
)

// State は画面に表示する現在の状態です。
type State struct {
	SourceImage  *domain.NormalizedImage `json:"sourceImage,omitempty"`
	Prompt       string                  `json:"prompt"`
	AspectRatio  string                  `json:"aspectRatio"`
	Guide        *domain.NormalizedImage `json:"guideImage,omitempty"`
	LastResult   string                  `json:"lastResult,omitempty"`
	LastError    string                  `json:"lastError,omitempty"`
	IsUploading  bool                    `json:"isUploading"`
	IsGenerating bool                    `json:"isGenerating"`
}

// clone はポインタが指す画像まで複製した State を返します。
func (s State) clone() State {
	out := s
	if s.SourceImage != nil {
		img := *s.SourceImage
		out.SourceImage = &img
	}
	if s.Guide != nil {
		g := *s.Guide
		out.Guide = &g
	}
	return out
}
