package studio

import (
	"context"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
)

// ImageNormalizer はアップロード画像を生成に使える形へ変換します。
type ImageNormalizer interface {
	Normalize(ctx context.Context, data []byte, declaredMIME string) (domain.NormalizedImage, error)
}

// HistoryStore は生成履歴の保存先です。
type HistoryStore interface {
	Entries() []domain.HistoryEntry
	Get(id string) (domain.HistoryEntry, error)
	Insert(ctx context.Context, entry domain.HistoryEntry) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// GuideBuilder はアスペクト比からガイド画像を作ります。
type GuideBuilder func(ratio string) (domain.NormalizedImage, error)
