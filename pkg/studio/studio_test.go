package studio

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
	"github.com/shouni/gemini-scene-kit/pkg/generator"
	"github.com/shouni/gemini-scene-kit/pkg/history"
	"github.com/shouni/gemini-scene-kit/pkg/imgutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.UnixMilli(1717000000000)

type fixture struct {
	studio     *Studio
	normalizer *mockNormalizer
	gen        *mockGenerator
	history    *history.Store
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		normalizer: &mockNormalizer{},
		gen:        &mockGenerator{},
		history:    history.NewStore(history.NewMemoryKV(), "", nil),
	}
	opts = append([]Option{WithLogger(zaptest.NewLogger(t)), WithClock(func() time.Time { return fixedNow })}, opts...)
	s, err := New(f.normalizer, f.gen, f.history, opts...)
	require.NoError(t, err)
	f.studio = s
	return f
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x * 5), B: 90, A: 255})
		}
	}
	data, err := imgutil.EncodeJPEG(img, imgutil.DefaultJPEGQuality)
	require.NoError(t, err)
	return data
}

func TestNew(t *testing.T) {
	kv := history.NewStore(history.NewMemoryKV(), "", nil)

	_, err := New(nil, &mockGenerator{}, kv)
	assert.Error(t, err)
	_, err = New(&mockNormalizer{}, nil, kv)
	assert.Error(t, err)
	_, err = New(&mockNormalizer{}, &mockGenerator{}, nil)
	assert.Error(t, err)

	s, err := New(&mockNormalizer{}, &mockGenerator{}, kv)
	require.NoError(t, err)
	st := s.Snapshot()
	assert.Equal(t, domain.DefaultStylePrompt(), st.Prompt)
	assert.Equal(t, domain.DefaultAspectRatio, st.AspectRatio)
	require.NotNil(t, st.Guide)
	assert.Equal(t, 288, st.Guide.Width)
	assert.Equal(t, 512, st.Guide.Height)
}

func TestStudio_EndToEnd(t *testing.T) {
	ctx := context.Background()
	gen := &mockGenerator{}
	store := history.NewStore(history.NewMemoryKV(), "", nil)
	s, err := New(imgutil.NewNormalizer(), gen, store,
		WithLogger(zaptest.NewLogger(t)), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	require.NoError(t, s.Upload(ctx, testJPEG(t), domain.MimeTypeJPEG))
	require.NoError(t, s.ChangeRatio("1:1"))
	require.NoError(t, s.SetPrompt(""))

	gen.generateFunc = func(ctx context.Context, req domain.GenerationRequest) domain.GenerationOutcome {
		return domain.SuccessOutcome("image/jpeg", []byte("scene"))
	}
	outcome, err := s.Generate(ctx)
	require.NoError(t, err)
	require.True(t, outcome.IsSuccess())

	st := s.Snapshot()
	assert.Equal(t, "data:image/jpeg;base64,c2NlbmU=", st.LastResult)
	assert.Empty(t, st.LastError)
	assert.False(t, st.IsGenerating)

	reqs := gen.received()
	require.Len(t, reqs, 1)
	assert.Equal(t, "1:1", reqs[0].AspectRatio)
	assert.Equal(t, domain.MimeTypeJPEG, reqs[0].Source.MimeType)
	assert.Equal(t, 40, reqs[0].Source.Width)
	require.NotNil(t, reqs[0].Guide)
	assert.Equal(t, 512, reqs[0].Guide.Width)
	assert.Equal(t, 512, reqs[0].Guide.Height)

	entries := s.History()
	require.Len(t, entries, 1)
	assert.Equal(t, "gen_1717000000000", entries[0].ID)
	assert.Equal(t, "1:1", entries[0].AspectRatio)
	assert.Equal(t, generator.DefaultScenePrompt, entries[0].Prompt)
	assert.Equal(t, st.LastResult, entries[0].GeneratedImage)
	assert.Equal(t, *st.SourceImage, entries[0].OriginalImage)
	assert.Equal(t, fixedNow.UnixMilli(), entries[0].Timestamp)
}

func TestStudio_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("GIFは正規化も生成も行わずに拒否するのだ", func(t *testing.T) {
		f := newFixture(t)

		err := f.studio.Upload(ctx, []byte("GIF89a"), "image/gif")

		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
		assert.Zero(t, f.normalizer.callCount())
		assert.Empty(t, f.gen.received())
		assert.Equal(t, MsgInvalidFormat, f.studio.Snapshot().LastError)
	})

	t.Run("正規化に失敗したら汎用メッセージを出し、商品画像は未設定のまま", func(t *testing.T) {
		f := newFixture(t)
		f.normalizer.normalizeFunc = func(ctx context.Context, data []byte, mime string) (domain.NormalizedImage, error) {
			return domain.NormalizedImage{}, errors.New("decode failed")
		}

		err := f.studio.Upload(ctx, []byte("broken"), domain.MimeTypePNG)

		require.Error(t, err)
		st := f.studio.Snapshot()
		assert.Equal(t, MsgProcessingError, st.LastError)
		assert.Nil(t, st.SourceImage)
		assert.False(t, st.IsUploading)
	})

	t.Run("アップロードは前回の結果とエラーを消す", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.studio.Upload(ctx, []byte("a"), domain.MimeTypePNG))
		_, err := f.studio.Generate(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, f.studio.Snapshot().LastResult)

		require.NoError(t, f.studio.Upload(ctx, []byte("b"), domain.MimeTypeWebP))

		st := f.studio.Snapshot()
		assert.Empty(t, st.LastResult)
		assert.Empty(t, st.LastError)
		require.NotNil(t, st.SourceImage)
		assert.Equal(t, domain.MimeTypeWebP, st.SourceImage.MimeType)
	})
}

func TestStudio_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("画像が無ければ生成を呼ばない", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.studio.Generate(ctx)

		assert.ErrorIs(t, err, domain.ErrMissingImage)
		assert.Empty(t, f.gen.received())
		assert.Equal(t, MsgMissingImage, f.studio.Snapshot().LastError)
	})

	t.Run("ブロックされたら入力を保ったままエラーを表示する", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.studio.Upload(ctx, []byte("a"), domain.MimeTypePNG))
		require.NoError(t, f.studio.SetPrompt("on the moon"))
		f.gen.generateFunc = func(ctx context.Context, req domain.GenerationRequest) domain.GenerationOutcome {
			return domain.BlockedOutcome(domain.BlockReasonSafety)
		}

		outcome, err := f.studio.Generate(ctx)

		require.NoError(t, err)
		st := f.studio.Snapshot()
		assert.Equal(t, outcome.UserMessage(), st.LastError)
		assert.Empty(t, st.LastResult)
		assert.NotNil(t, st.SourceImage)
		assert.Equal(t, "on the moon", st.Prompt)
		assert.False(t, st.IsGenerating)
		assert.Empty(t, f.studio.History())
	})

	t.Run("同じミリ秒の生成でもIDは重複しない", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.studio.Upload(ctx, []byte("a"), domain.MimeTypePNG))

		for i := 0; i < 3; i++ {
			_, err := f.studio.Generate(ctx)
			require.NoError(t, err)
		}

		entries := f.studio.History()
		require.Len(t, entries, 3)
		assert.Equal(t, "gen_1717000000002", entries[0].ID)
		assert.Equal(t, "gen_1717000000001", entries[1].ID)
		assert.Equal(t, "gen_1717000000000", entries[2].ID)
	})

	t.Run("再起動後も保存済みの履歴とIDが重複しない", func(t *testing.T) {
		kv := history.NewMemoryKV()
		clock := WithClock(func() time.Time { return fixedNow })

		first, err := New(&mockNormalizer{}, &mockGenerator{}, history.NewStore(kv, "", nil), clock)
		require.NoError(t, err)
		require.NoError(t, first.Upload(ctx, []byte("a"), domain.MimeTypePNG))
		_, err = first.Generate(ctx)
		require.NoError(t, err)

		store := history.NewStore(kv, "", nil)
		store.Load(ctx)
		second, err := New(&mockNormalizer{}, &mockGenerator{}, store, clock)
		require.NoError(t, err)
		require.NoError(t, second.Upload(ctx, []byte("b"), domain.MimeTypePNG))
		_, err = second.Generate(ctx)
		require.NoError(t, err)

		entries := second.History()
		require.Len(t, entries, 2)
		assert.Equal(t, "gen_1717000000001", entries[0].ID)
		assert.Equal(t, "gen_1717000000000", entries[1].ID)

		require.NoError(t, second.DeleteHistory(ctx, "gen_1717000000000"))
		assert.Len(t, second.History(), 1)
	})

	t.Run("時計が戻っても既存のIDは再利用しない", func(t *testing.T) {
		f := newFixture(t, WithClock(func() time.Time { return fixedNow.Add(-time.Hour) }))
		require.NoError(t, f.history.Insert(ctx, domain.HistoryEntry{
			ID:          "gen_1716996400000",
			AspectRatio: domain.AspectRatio1x1,
			Timestamp:   1716996400000,
		}))
		require.NoError(t, f.studio.Upload(ctx, []byte("a"), domain.MimeTypePNG))

		_, err := f.studio.Generate(ctx)
		require.NoError(t, err)

		entries := f.studio.History()
		require.Len(t, entries, 2)
		assert.Equal(t, "gen_1716996400001", entries[0].ID)
		assert.Equal(t, int64(1716996400000), entries[0].Timestamp)
	})

	t.Run("生成中の二重実行とクリア後の結果は表示に反映しない", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.studio.Upload(ctx, []byte("a"), domain.MimeTypePNG))

		started := make(chan struct{})
		release := make(chan struct{})
		f.gen.generateFunc = func(ctx context.Context, req domain.GenerationRequest) domain.GenerationOutcome {
			close(started)
			<-release
			return domain.SuccessOutcome("image/png", []byte("late"))
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, err := f.studio.Generate(ctx)
			assert.NoError(t, err)
		}()
		<-started

		assert.True(t, f.studio.Snapshot().IsGenerating)
		_, err := f.studio.Generate(ctx)
		assert.ErrorIs(t, err, domain.ErrGenerationInProgress)

		f.studio.Clear()
		close(release)
		<-done

		st := f.studio.Snapshot()
		assert.Empty(t, st.LastResult)
		assert.Nil(t, st.SourceImage)
		assert.False(t, st.IsGenerating)
		assert.Equal(t, domain.DefaultStylePrompt(), st.Prompt)
		// 結果は履歴にだけ残る
		require.Len(t, f.studio.History(), 1)
		assert.Len(t, f.gen.received(), 1)
	})
}

func TestStudio_ReuseHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	original := domain.NewNormalizedImage([]byte("product"), domain.MimeTypeJPEG, 300, 400)
	entry := domain.HistoryEntry{
		ID:             "gen_1",
		GeneratedImage: "data:image/png;base64,b2xk",
		OriginalImage:  original,
		Prompt:         "wooden desk",
		AspectRatio:    "3:4",
		Timestamp:      1,
	}
	require.NoError(t, f.history.Insert(ctx, entry))

	require.NoError(t, f.studio.SetPrompt("something else"))
	require.NoError(t, f.studio.ChangeRatio("16:9"))

	require.NoError(t, f.studio.ReuseHistory("gen_1"))

	st := f.studio.Snapshot()
	assert.Equal(t, entry.GeneratedImage, st.LastResult)
	assert.Equal(t, "wooden desk", st.Prompt)
	assert.Equal(t, "3:4", st.AspectRatio)
	require.NotNil(t, st.Guide)
	assert.Equal(t, 384, st.Guide.Width)
	assert.Empty(t, f.gen.received())

	_, err := f.studio.Generate(ctx)
	require.NoError(t, err)

	reqs := f.gen.received()
	require.Len(t, reqs, 1)
	assert.Equal(t, original, reqs[0].Source)
	assert.Equal(t, "wooden desk", reqs[0].Prompt)
	assert.Equal(t, "3:4", reqs[0].AspectRatio)
	assert.Equal(t, 384, reqs[0].Guide.Width)
	assert.Equal(t, 512, reqs[0].Guide.Height)

	assert.ErrorIs(t, f.studio.ReuseHistory("gen_missing"), domain.ErrHistoryNotFound)

	t.Run("選択肢にないアスペクト比の履歴は既定値で復元する", func(t *testing.T) {
		require.NoError(t, f.history.Insert(ctx, domain.HistoryEntry{
			ID:             "gen_2",
			GeneratedImage: "data:image/png;base64,b2xk",
			OriginalImage:  original,
			Prompt:         "panorama",
			AspectRatio:    "21:9",
			Timestamp:      2,
		}))

		require.NoError(t, f.studio.ReuseHistory("gen_2"))

		st := f.studio.Snapshot()
		assert.Equal(t, domain.DefaultAspectRatio, st.AspectRatio)
		require.NotNil(t, st.Guide)
		assert.Equal(t, 288, st.Guide.Width)
		assert.Equal(t, 512, st.Guide.Height)
		assert.Equal(t, "panorama", st.Prompt)
	})
}

func TestStudio_PromptAndRatio(t *testing.T) {
	f := newFixture(t)

	t.Run("上限を超えるプロンプトは拒否する", func(t *testing.T) {
		require.NoError(t, f.studio.SetPrompt(strings.Repeat("あ", domain.MaxPromptLength)))
		err := f.studio.SetPrompt(strings.Repeat("あ", domain.MaxPromptLength+1))
		assert.ErrorIs(t, err, domain.ErrPromptTooLong)
		assert.Equal(t, domain.MaxPromptLength, len([]rune(f.studio.Snapshot().Prompt)))
	})

	t.Run("プリセットを適用できる", func(t *testing.T) {
		require.NoError(t, f.studio.SelectPreset(2))
		assert.Equal(t, domain.StylePresets[2].Prompt, f.studio.Snapshot().Prompt)
		assert.ErrorIs(t, f.studio.SelectPreset(len(domain.StylePresets)), domain.ErrUnknownPreset)
	})

	t.Run("選択肢にないアスペクト比は拒否し、状態は変えない", func(t *testing.T) {
		require.NoError(t, f.studio.ChangeRatio("16:9"))
		assert.ErrorIs(t, f.studio.ChangeRatio("2:1"), domain.ErrUnsupportedRatio)
		st := f.studio.Snapshot()
		assert.Equal(t, "16:9", st.AspectRatio)
		assert.Equal(t, 512, st.Guide.Width)
		assert.Equal(t, 288, st.Guide.Height)
	})

	t.Run("ガイドが作れなければガイドなしで生成する", func(t *testing.T) {
		g := newFixture(t, WithGuideBuilder(func(ratio string) (domain.NormalizedImage, error) {
			return domain.NormalizedImage{}, errors.New("canvas unavailable")
		}))
		require.NoError(t, g.studio.Upload(context.Background(), []byte("a"), domain.MimeTypePNG))
		require.NoError(t, g.studio.ChangeRatio("4:3"))
		assert.Nil(t, g.studio.Snapshot().Guide)

		_, err := g.studio.Generate(context.Background())
		require.NoError(t, err)
		assert.Nil(t, g.gen.received()[0].Guide)
	})
}

func TestStudio_HistoryAndResult(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.studio.Result()
	assert.ErrorIs(t, err, ErrNoResult)

	require.NoError(t, f.studio.Upload(ctx, []byte("a"), domain.MimeTypePNG))
	_, err = f.studio.Generate(ctx)
	require.NoError(t, err)
	_, err = f.studio.Generate(ctx)
	require.NoError(t, err)

	mime, data, err := f.studio.Result()
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte("generated"), data)

	entries := f.studio.History()
	require.Len(t, entries, 2)
	require.NoError(t, f.studio.DeleteHistory(ctx, entries[0].ID))
	assert.Len(t, f.studio.History(), 1)

	got, err := f.studio.HistoryEntry(entries[1].ID)
	require.NoError(t, err)
	assert.Equal(t, entries[1], got)

	require.NoError(t, f.studio.ClearHistory(ctx))
	assert.Empty(t, f.studio.History())
	// 履歴を消しても表示中の結果はそのまま
	assert.NotEmpty(t, f.studio.Snapshot().LastResult)
}
