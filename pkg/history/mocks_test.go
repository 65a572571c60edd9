package history

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
)

// mockKV は KVStore のテスト用モックなのだ。
type mockKV struct {
	getFunc func(ctx context.Context, key string) ([]byte, error)
	putFunc func(ctx context.Context, key string, value []byte) error
	puts    int
	stored  []byte
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	if m.stored == nil {
		return nil, ErrNotFound
	}
	return m.stored, nil
}

func (m *mockKV) Put(ctx context.Context, key string, value []byte) error {
	m.puts++
	if m.putFunc != nil {
		if err := m.putFunc(ctx, key, value); err != nil {
			return err
		}
	}
	m.stored = append([]byte(nil), value...)
	return nil
}

func entry(n int) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:             fmt.Sprintf("gen_%d", 1700000000000+n),
		GeneratedImage: "data:image/png;base64,AAAA",
		OriginalImage:  domain.NewNormalizedImage([]byte{byte(n)}, domain.MimeTypeJPEG, 10, 20),
		Prompt:         fmt.Sprintf("prompt %d", n),
		AspectRatio:    "9:16",
		Timestamp:      int64(1700000000000 + n),
	}
}
