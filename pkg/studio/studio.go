// Package studio は画像のアップロードから生成、履歴の再利用までの状態遷移を管理します。
package studio

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
	"github.com/shouni/gemini-scene-kit/pkg/generator"
	"github.com/shouni/gemini-scene-kit/pkg/imgutil"
	"go.uber.org/zap"
)

// ErrNoResult は表示中の生成結果がないことを示します。
var ErrNoResult = errors.New("no generated image to download")

// Studio は1ユーザー分のセッション状態を持つオーケストレーターです。
// 状態の更新はミューテックスで直列化し、リモート呼び出しの間はロックを外します。
type Studio struct {
	normalizer ImageNormalizer
	generator  generator.SceneGenerator
	history    HistoryStore
	buildGuide GuideBuilder
	now        func() time.Time
	logger     *zap.Logger

	mu     sync.Mutex
	state  State
	token  uint64
	lastID int64
}

type Option func(*Studio)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Studio) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock は履歴IDとタイムスタンプに使う時計を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(s *Studio) {
		if now != nil {
			s.now = now
		}
	}
}

func WithGuideBuilder(b GuideBuilder) Option {
	return func(s *Studio) {
		if b != nil {
			s.buildGuide = b
		}
	}
}

// New は依存関係を注入して Studio を初期化します。
// 初期状態は既定スタイルのプロンプトと既定アスペクト比です。
func New(normalizer ImageNormalizer, gen generator.SceneGenerator, history HistoryStore, opts ...Option) (*Studio, error) {
	if normalizer == nil {
		return nil, fmt.Errorf("normalizer is required")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if history == nil {
		return nil, fmt.Errorf("history store is required")
	}

	s := &Studio{
		normalizer: normalizer,
		generator:  gen,
		history:    history,
		buildGuide: imgutil.BuildAspectGuide,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, e := range history.Entries() {
		if n, ok := parseEntryID(e.ID); ok && n > s.lastID {
			s.lastID = n
		}
	}
	s.resetLocked()
	return s, nil
}

// Snapshot は現在の状態のコピーを返します。
func (s *Studio) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Upload はアップロードされた画像を正規化し、商品画像として保持します。
// 対応外の形式は正規化を行わずに domain.ErrInvalidFormat を返します。
func (s *Studio) Upload(ctx context.Context, data []byte, declaredMIME string) error {
	s.mu.Lock()
	if !domain.IsSupportedUpload(declaredMIME) {
		s.state.LastError = MsgInvalidFormat
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrInvalidFormat, declaredMIME)
	}
	s.state.LastError = ""
	s.state.IsUploading = true
	s.state.SourceImage = nil
	s.state.LastResult = ""
	s.mu.Unlock()

	img, err := s.normalizer.Normalize(ctx, data, declaredMIME)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsUploading = false
	if err != nil {
		s.logger.Error("画像の正規化に失敗しました", zap.String("mime_type", declaredMIME), zap.Error(err))
		s.state.LastError = MsgProcessingError
		return fmt.Errorf("画像の正規化に失敗しました: %w", err)
	}
	s.state.SourceImage = &img
	s.logger.Info("商品画像を設定しました",
		zap.String("mime_type", img.MimeType), zap.Int("width", img.Width), zap.Int("height", img.Height))
	return nil
}

// SetPrompt はシーン説明を更新します。上限を超える場合は domain.ErrPromptTooLong を返します。
func (s *Studio) SetPrompt(prompt string) error {
	if n := utf8.RuneCountInString(prompt); n > domain.MaxPromptLength {
		return fmt.Errorf("%w: %d > %d", domain.ErrPromptTooLong, n, domain.MaxPromptLength)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Prompt = prompt
	return nil
}

// SelectPreset はスタイルライブラリのプロンプトを適用します。
func (s *Studio) SelectPreset(index int) error {
	preset, err := domain.PresetAt(index)
	if err != nil {
		return err
	}
	return s.SetPrompt(preset.Prompt)
}

// ChangeRatio はアスペクト比を変更し、ガイド画像を作り直します。
func (s *Studio) ChangeRatio(ratio string) error {
	if !domain.IsSupportedAspectRatio(ratio) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedRatio, ratio)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyRatioLocked(ratio)
	return nil
}

// Generate は現在の状態で1回シーン生成を行います。
// 結果は状態に反映したうえで返します。失敗は error ではなく Outcome と LastError で表します。
func (s *Studio) Generate(ctx context.Context) (domain.GenerationOutcome, error) {
	s.mu.Lock()
	if s.state.IsGenerating {
		s.mu.Unlock()
		return domain.GenerationOutcome{}, domain.ErrGenerationInProgress
	}
	if s.state.SourceImage == nil {
		s.state.LastError = MsgMissingImage
		s.mu.Unlock()
		return domain.GenerationOutcome{}, domain.ErrMissingImage
	}

	s.token++
	req := domain.GenerationRequest{
		Source:      *s.state.SourceImage,
		Prompt:      s.state.Prompt,
		AspectRatio: s.state.AspectRatio,
		Token:       s.token,
	}
	if s.state.Guide != nil {
		g := *s.state.Guide
		req.Guide = &g
	}
	s.state.IsGenerating = true
	s.state.LastError = ""
	s.state.LastResult = ""
	s.mu.Unlock()

	outcome := s.generator.GenerateScene(ctx, req)

	if outcome.IsSuccess() {
		s.record(ctx, req, outcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Token != s.token {
		s.logger.Info("クリア後に完了した生成結果は表示に反映しません",
			zap.Uint64("token", req.Token), zap.Uint64("current", s.token), zap.Stringer("kind", outcome.Kind))
		return outcome, nil
	}
	s.state.IsGenerating = false
	if outcome.IsSuccess() {
		s.state.LastResult = outcome.ImageURI
	} else {
		s.state.LastError = outcome.UserMessage()
	}
	return outcome, nil
}

// record は成功した生成を履歴の先頭に追加します。保存に失敗しても生成結果は表示します。
func (s *Studio) record(ctx context.Context, req domain.GenerationRequest, outcome domain.GenerationOutcome) {
	s.mu.Lock()
	id, ts := s.mintIDLocked()
	s.mu.Unlock()

	entry := domain.HistoryEntry{
		ID:             id,
		GeneratedImage: outcome.ImageURI,
		OriginalImage:  req.Source,
		Prompt:         generator.ResolvePrompt(req.Prompt),
		AspectRatio:    req.AspectRatio,
		Timestamp:      ts,
	}
	if err := s.history.Insert(ctx, entry); err != nil {
		s.logger.Error("履歴の保存に失敗しました", zap.String("id", id), zap.Error(err))
		return
	}
	s.logger.Info("生成結果を履歴に追加しました", zap.String("id", id), zap.String("aspect_ratio", req.AspectRatio))
}

// mintIDLocked は gen_<エポックミリ秒> 形式のIDを発行します。
// 前回の発行値と保存済みの履歴より必ず大きい値にします。
func (s *Studio) mintIDLocked() (string, int64) {
	ms := s.now().UnixMilli()
	ts := ms
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	id := entryID(ms)
	for {
		if _, err := s.history.Get(id); err != nil {
			break
		}
		ms++
		id = entryID(ms)
	}
	s.lastID = ms
	return id, ts
}

func entryID(ms int64) string {
	return "gen_" + strconv.FormatInt(ms, 10)
}

// parseEntryID は gen_<n> 形式のIDから n を取り出します。
func parseEntryID(id string) (int64, bool) {
	rest, ok := strings.CutPrefix(id, "gen_")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Clear はセッション状態を初期値に戻します。
// 実行中の生成は中断しませんが、その結果は表示に反映されなくなります。
func (s *Studio) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	s.resetLocked()
}

// ReuseHistory は履歴の入力と結果を現在の状態に戻します。生成は行いません。
// 選択肢にないアスペクト比が保存されていた場合は既定値に戻します。
func (s *Studio) ReuseHistory(id string) error {
	entry, err := s.history.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	img := entry.OriginalImage
	s.state.SourceImage = &img
	s.state.Prompt = entry.Prompt
	ratio := entry.AspectRatio
	if !domain.IsSupportedAspectRatio(ratio) {
		s.logger.Warn("履歴のアスペクト比が選択肢にないため既定値を使います",
			zap.String("id", id), zap.String("aspect_ratio", ratio))
		ratio = domain.DefaultAspectRatio
	}
	s.applyRatioLocked(ratio)
	s.state.LastResult = entry.GeneratedImage
	s.state.LastError = ""
	return nil
}

// History は新しい順の履歴を返します。
func (s *Studio) History() []domain.HistoryEntry {
	return s.history.Entries()
}

// HistoryEntry は ID に一致する履歴を返します。
func (s *Studio) HistoryEntry(id string) (domain.HistoryEntry, error) {
	return s.history.Get(id)
}

func (s *Studio) DeleteHistory(ctx context.Context, id string) error {
	return s.history.Delete(ctx, id)
}

func (s *Studio) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}

// Result は表示中の生成結果を MIME タイプと生データで返します。
func (s *Studio) Result() (string, []byte, error) {
	s.mu.Lock()
	uri := s.state.LastResult
	s.mu.Unlock()
	if uri == "" {
		return "", nil, ErrNoResult
	}
	return domain.ParseDataURI(uri)
}

func (s *Studio) resetLocked() {
	s.state = State{Prompt: domain.DefaultStylePrompt()}
	s.applyRatioLocked(domain.DefaultAspectRatio)
}

// applyRatioLocked はアスペクト比を設定し、ガイド画像を作り直します。
// ガイドが作れない場合は nil のままにし、生成時はテキストの指示で代替します。
func (s *Studio) applyRatioLocked(ratio string) {
	s.state.AspectRatio = ratio
	guide, err := s.buildGuide(ratio)
	if err != nil {
		s.logger.Warn("ガイド画像を作成できませんでした", zap.String("aspect_ratio", ratio), zap.Error(err))
		s.state.Guide = nil
		return
	}
	s.state.Guide = &guide
}
