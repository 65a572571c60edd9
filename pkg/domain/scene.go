package domain

// MaxPromptLength はシーン説明プロンプトの最大文字数（rune 数）です。
const MaxPromptLength = 1500

// GenerationRequest は1回の生成呼び出しの入力です。永続化はしません。
type GenerationRequest struct {
	Source      NormalizedImage
	Guide       *NormalizedImage // 構築に失敗した場合は nil
	Prompt      string
	AspectRatio string
	// Token は古い結果を捨てるための世代番号です。
	Token uint64
}

// HistoryEntry は成功した生成1件の記録です。作成後は変更しません。
type HistoryEntry struct {
	ID             string          `json:"id"`
	GeneratedImage string          `json:"generatedImage"`
	OriginalImage  NormalizedImage `json:"originalImage"`
	Prompt         string          `json:"prompt"`
	AspectRatio    string          `json:"aspectRatio"`
	Timestamp      int64           `json:"timestamp"`
}
