package generator

import (
	"context"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// ImageModel は生成モデルとの通信を抽象化するインターフェースです。
// go-gemini-client の GenerativeModel と同じシグネチャを持つため、そのまま差し替えられます。
type ImageModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// SceneGenerator はオーケストレーター層が利用する生成窓口です。
// 結果は常に GenerationOutcome として返し、エラーは返しません。
type SceneGenerator interface {
	GenerateScene(ctx context.Context, req domain.GenerationRequest) domain.GenerationOutcome
}
