// Package server は Studio を HTTP JSON API として公開します。
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shouni/gemini-scene-kit/internal/config"
	"github.com/shouni/gemini-scene-kit/pkg/domain"
	"github.com/shouni/gemini-scene-kit/pkg/studio"
)

// Session は HTTP ハンドラーが操作するオーケストレーターです。
type Session interface {
	Snapshot() studio.State
	Upload(ctx context.Context, data []byte, declaredMIME string) error
	SetPrompt(prompt string) error
	SelectPreset(index int) error
	ChangeRatio(ratio string) error
	Generate(ctx context.Context) (domain.GenerationOutcome, error)
	Clear()
	ReuseHistory(id string) error
	History() []domain.HistoryEntry
	HistoryEntry(id string) (domain.HistoryEntry, error)
	DeleteHistory(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) error
	Result() (string, []byte, error)
}

type Server struct {
	cfg     *config.Config
	session Session
	router  chi.Router
	logger  *zap.Logger
	http    *http.Server
}

// New はルーティングとミドルウェアを設定した Server を生成します。
func New(cfg *config.Config, session Session, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		session: session,
		logger:  logger,
	}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// 生成はリトライ込みで数十秒かかることがある
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, RequestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/presets", s.handlePresets)
		r.Post("/upload", s.handleUpload)
		r.Put("/prompt", s.handleSetPrompt)
		r.Put("/prompt/preset/{index}", s.handleSelectPreset)
		r.Put("/ratio", s.handleChangeRatio)
		r.With(RateLimit(s.cfg.RateLimit.RequestsPerSecond, s.cfg.RateLimit.Burst)).
			Post("/generate", s.handleGenerate)
		r.Get("/result", s.handleResult)
		r.Post("/clear", s.handleClear)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleListHistory)
			r.Delete("/", s.handleClearHistory)
			r.Get("/{id}", s.handleGetHistory)
			r.Delete("/{id}", s.handleDeleteHistory)
			r.Post("/{id}/reuse", s.handleReuseHistory)
		})
	})
	return r
}

// Start はリクエストの待ち受けを開始します。Shutdown されるまで戻りません。
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("address", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen: %w", err)
	}
	return nil
}

// Shutdown は処理中のリクエストの完了を待ってから停止します。
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.http.Shutdown(ctx)
}

// Router はテスト用にハンドラーを返します。
func (s *Server) Router() http.Handler {
	return s.router
}
