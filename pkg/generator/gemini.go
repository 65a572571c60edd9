package generator

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel は画像合成に使用する既定のモデル名です。
const DefaultModel = "gemini-2.5-flash-image-preview"

// GeminiGenerator は商品画像を新しい背景に配置するシーン生成を担当します。
// リクエストの組み立て、リトライ付きの呼び出し、レスポンスの分類を一括で行います。
type GeminiGenerator struct {
	aiClient ImageModel
	model    string
	retry    RetryPolicy
	logger   *zap.Logger
}

// Option は GeminiGenerator の任意設定です。
type Option func(*GeminiGenerator)

func WithLogger(logger *zap.Logger) Option {
	return func(g *GeminiGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(g *GeminiGenerator) {
		g.retry = policy
	}
}

// NewGeminiGenerator は依存関係を注入して GeminiGenerator を初期化します。
func NewGeminiGenerator(aiClient ImageModel, model string, opts ...Option) (*GeminiGenerator, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (ImageModel) is required")
	}
	if model == "" {
		model = DefaultModel
	}

	g := &GeminiGenerator{
		aiClient: aiClient,
		model:    model,
		retry:    DefaultRetryPolicy(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// GenerateScene は商品画像・ガイド画像・指示文から1枚のシーン画像を生成します。
// 失敗は GenerationOutcome の Failure として返し、呼び出し元に error は返しません。
func (g *GeminiGenerator) GenerateScene(ctx context.Context, req domain.GenerationRequest) domain.GenerationOutcome {
	parts, err := buildParts(req)
	if err != nil {
		g.logger.Error("リクエストの組み立てに失敗しました", zap.Error(err))
		return domain.FailureOutcome("リクエストの組み立てに失敗しました: " + err.Error())
	}

	g.logger.Info("シーン生成をリクエストします",
		zap.String("model", g.model),
		zap.String("aspect_ratio", req.AspectRatio),
		zap.Bool("with_guide", req.Guide != nil),
		zap.Int("parts", len(parts)),
		zap.Uint64("token", req.Token),
	)

	opts := gemini.GenerateOptions{AspectRatio: req.AspectRatio}

	var resp *gemini.Response
	err = g.retry.retry(ctx, g.logger, func(attempt int) error {
		r, callErr := g.aiClient.GenerateWithParts(ctx, g.model, parts, opts)
		if callErr != nil {
			return callErr
		}
		resp = r
		return nil
	})
	if err != nil {
		return domain.FailureOutcome(FailureMessage(err))
	}

	var raw *genai.GenerateContentResponse
	if resp != nil {
		raw = resp.RawResponse
	}
	outcome := ClassifyResponse(raw)
	if !outcome.IsSuccess() {
		g.logger.Warn("画像が生成されませんでした",
			zap.Stringer("kind", outcome.Kind),
			zap.String("block_reason", outcome.BlockReason),
			zap.String("diagnostic", outcome.DiagnosticText),
			zap.String("message", outcome.Message),
		)
	}
	return outcome
}

// buildParts は商品画像、ガイド画像（任意）、指示文の順にパーツを並べます。
func buildParts(req domain.GenerationRequest) ([]*genai.Part, error) {
	source, err := imagePart(req.Source)
	if err != nil {
		return nil, fmt.Errorf("商品画像: %w", err)
	}
	parts := []*genai.Part{source}

	withGuide := false
	if req.Guide != nil {
		guide, err := imagePart(*req.Guide)
		if err != nil {
			return nil, fmt.Errorf("ガイド画像: %w", err)
		}
		parts = append(parts, guide)
		withGuide = true
	}

	parts = append(parts, genai.NewPartFromText(BuildInstruction(req.Prompt, req.AspectRatio, withGuide)))
	return parts, nil
}

// imagePart は NormalizedImage を genai.Part (InlineData) に変換します。
func imagePart(img domain.NormalizedImage) (*genai.Part, error) {
	data, err := img.Bytes()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("画像データが空です")
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: img.MimeType, Data: data}}, nil
}
