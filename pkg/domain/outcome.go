package domain

import "fmt"

// OutcomeKind は生成結果の種別です。
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeBlocked
	OutcomeEmpty
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailure:
		return "failure"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// MarshalText は JSON 出力時に種別名を文字列で返します。
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// BlockReasonSafety は安全ポリシーによるブロックを表す正規化済みの理由です。
const BlockReasonSafety = "safety"

// GenerationOutcome は1回の生成リクエストの結果です。
// Kind に応じて意味のあるフィールドが決まります。
//   - Success: ImageURI, MimeType
//   - Blocked: BlockReason
//   - Empty:   DiagnosticText（空の場合あり）
//   - Failure: Message
type GenerationOutcome struct {
	Kind           OutcomeKind `json:"kind"`
	ImageURI       string      `json:"imageUri,omitempty"`
	MimeType       string      `json:"mimeType,omitempty"`
	BlockReason    string      `json:"blockReason,omitempty"`
	DiagnosticText string      `json:"diagnosticText,omitempty"`
	Message        string      `json:"message,omitempty"`
}

func SuccessOutcome(mimeType string, data []byte) GenerationOutcome {
	return GenerationOutcome{Kind: OutcomeSuccess, ImageURI: DataURI(mimeType, data), MimeType: mimeType}
}

func BlockedOutcome(reason string) GenerationOutcome {
	return GenerationOutcome{Kind: OutcomeBlocked, BlockReason: reason}
}

func EmptyOutcome(diagnostic string) GenerationOutcome {
	return GenerationOutcome{Kind: OutcomeEmpty, DiagnosticText: diagnostic}
}

func FailureOutcome(message string) GenerationOutcome {
	return GenerationOutcome{Kind: OutcomeFailure, Message: message}
}

// IsSuccess は画像が得られたかどうかを返します。
func (o GenerationOutcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// UserMessage は失敗系の結果をユーザー向けの文言に変換します。成功時は空文字です。
func (o GenerationOutcome) UserMessage() string {
	switch o.Kind {
	case OutcomeBlocked:
		if o.BlockReason == BlockReasonSafety {
			return "安全ポリシーにより生成がブロックされました。プロンプトや画像が規約に抵触している可能性があります。より具体的に指示するか、別の画像をお試しください。"
		}
		return fmt.Sprintf("不明な理由により生成がブロックされました (%s)。もう一度試すか、プロンプトを調整してください。", o.BlockReason)
	case OutcomeEmpty:
		if o.DiagnosticText != "" {
			return "画像を生成できませんでした。AIの応答: " + o.DiagnosticText
		}
		return "画像を生成できませんでした。APIの応答に画像が含まれていませんでした。"
	case OutcomeFailure:
		return o.Message
	}
	return ""
}
