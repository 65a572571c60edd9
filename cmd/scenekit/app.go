package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shouni/gemini-scene-kit/internal/config"
	"github.com/shouni/gemini-scene-kit/internal/logging"
	"github.com/shouni/gemini-scene-kit/pkg/generator"
	"github.com/shouni/gemini-scene-kit/pkg/history"
	"github.com/shouni/gemini-scene-kit/pkg/imgutil"
	"github.com/shouni/gemini-scene-kit/pkg/studio"
)

type globalOptions struct {
	configPath string
}

// app はコマンド間で共有する依存関係です。
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	kv      *history.SQLiteKV
	history *history.Store
}

// newApp は設定・ロガー・履歴ストアを初期化します。生成 API のクライアントは作りません。
func newApp(ctx context.Context, opts *globalOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})

	kv, err := history.OpenSQLite(cfg.History.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	store := history.NewStore(kv, cfg.History.Key, logger.Named("history"))
	store.Load(ctx)

	return &app{cfg: cfg, logger: logger, kv: kv, history: store}, nil
}

// newStudio は Gemini クライアントを生成して Studio を組み立てます。
func (a *app) newStudio(ctx context.Context) (*studio.Studio, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := generator.NewGenAIModel(ctx, a.cfg.Gemini.APIKey)
	if err != nil {
		return nil, err
	}
	gen, err := generator.NewGeminiGenerator(model, a.cfg.Gemini.Model, generator.WithLogger(a.logger.Named("generator")))
	if err != nil {
		return nil, err
	}
	return studio.New(imgutil.NewNormalizer(), gen, a.history, studio.WithLogger(a.logger.Named("studio")))
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("failed to close history database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
