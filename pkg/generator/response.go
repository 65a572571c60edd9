package generator

import (
	"strings"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
	"google.golang.org/genai"
)

const (
	defaultOutputMimeType   = "image/png"
	blockReasonUnspecified  = "BLOCKED_REASON_UNSPECIFIED"
	finishReasonUnspecified = string(genai.FinishReasonUnspecified)
	finishReasonStop        = string(genai.FinishReasonStop)
)

// safetyReasons は安全ポリシーによるブロックとして扱う BlockReason / FinishReason です。
var safetyReasons = map[string]bool{
	"SAFETY":                   true,
	"IMAGE_SAFETY":             true,
	"PROHIBITED_CONTENT":       true,
	"IMAGE_PROHIBITED_CONTENT": true,
}

// ClassifyResponse は Gemini のレスポンスを1回の走査で GenerationOutcome に変換します。
// 現在の仕様では最初の候補 (Candidate) のみを利用します。
func ClassifyResponse(resp *genai.GenerateContentResponse) domain.GenerationOutcome {
	if resp == nil {
		return domain.EmptyOutcome("")
	}

	var (
		candidate *genai.Candidate
		texts     []string
	)
	if len(resp.Candidates) > 0 {
		candidate = resp.Candidates[0]
	}

	// 画像パーツの探索
	if candidate != nil && candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = defaultOutputMimeType
				}
				return domain.SuccessOutcome(mimeType, part.InlineData.Data)
			}
			if text := strings.TrimSpace(part.Text); text != "" && !part.Thought {
				texts = append(texts, text)
			}
		}
	}

	blockReason := ""
	if resp.PromptFeedback != nil {
		blockReason = string(resp.PromptFeedback.BlockReason)
		if blockReason == blockReasonUnspecified {
			blockReason = ""
		}
	}
	finishReason := ""
	if candidate != nil {
		finishReason = string(candidate.FinishReason)
		if finishReason == finishReasonUnspecified {
			finishReason = ""
		}
	}

	switch {
	case safetyReasons[blockReason] || safetyReasons[finishReason]:
		return domain.BlockedOutcome(domain.BlockReasonSafety)
	case blockReason != "":
		return domain.BlockedOutcome(blockReason)
	case finishReason != "" && finishReason != finishReasonStop:
		return domain.FailureOutcome("画像生成が予期せず終了しました (FinishReason: " + finishReason + ")")
	case len(texts) > 0:
		return domain.EmptyOutcome(strings.Join(texts, "\n"))
	}
	return domain.EmptyOutcome("")
}
