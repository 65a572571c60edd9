package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
	"go.uber.org/zap"
)

const (
	// DefaultKey は履歴を保存するキーです。
	DefaultKey = "nano-banana-history"
	// MaxEntries は保持する履歴の最大件数です。
	MaxEntries = 20
)

// Store は新しい順に並んだ最大20件の生成履歴です。
// 変更の直前に KVStore から読み直し、変更のたびに全件を書き込みます。
// 別プロセスが同じキーを更新していても、その内容を上書きで巻き戻しません。
type Store struct {
	kv     KVStore
	key    string
	logger *zap.Logger

	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// NewStore は空の Store を生成します。永続化済みの履歴を読むには Load を呼びます。
func NewStore(kv KVStore, key string, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, key: key, logger: logger}
}

// Load は永続化された履歴を読み込みます。
// データが無い、または壊れている場合は空の履歴として扱い、エラーは返しません。
func (s *Store) Load(ctx context.Context) []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	raw, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		return s.snapshot()
	case err != nil:
		s.logger.Warn("履歴の読み込みに失敗しました。空の履歴で開始します", zap.String("key", s.key), zap.Error(err))
		return s.snapshot()
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("履歴データが壊れています。空の履歴で開始します", zap.String("key", s.key), zap.Error(err))
		return s.snapshot()
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.entries = entries
	s.logger.Debug("履歴を読み込みました", zap.Int("entries", len(entries)))
	return s.snapshot()
}

// Entries は新しい順の履歴のコピーを返します。
func (s *Store) Entries() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get は ID に一致する履歴を返します。
func (s *Store) Get(id string) (domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.HistoryEntry{}, fmt.Errorf("%w: %s", domain.ErrHistoryNotFound, id)
}

// Insert は履歴を先頭に追加し、上限を超えた古い履歴を切り捨てて保存します。
func (s *Store) Insert(ctx context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)

	next := make([]domain.HistoryEntry, 0, min(len(s.entries)+1, MaxEntries))
	next = append(next, entry)
	next = append(next, s.entries...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	return s.commit(ctx, next)
}

// Delete は ID に一致する履歴を削除して保存します。存在しない ID でもエラーにはしません。
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)

	next := make([]domain.HistoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ID != id {
			next = append(next, e)
		}
	}
	return s.commit(ctx, next)
}

// Clear はすべての履歴を削除して保存します。
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []domain.HistoryEntry{})
}

// refreshLocked は永続化済みの履歴でメモリ上の履歴を置き換えます。
// 読み込みに失敗した場合や壊れている場合は、メモリ上の履歴をそのまま使います。
func (s *Store) refreshLocked(ctx context.Context) {
	raw, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.entries = nil
		return
	case err != nil:
		s.logger.Warn("履歴の再読み込みに失敗しました。メモリ上の履歴を使います", zap.String("key", s.key), zap.Error(err))
		return
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("履歴データが壊れています。メモリ上の履歴を使います", zap.String("key", s.key), zap.Error(err))
		return
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.entries = entries
}

// commit は next を書き込み、成功した場合のみメモリ上の履歴を置き換えます。
func (s *Store) commit(ctx context.Context, next []domain.HistoryEntry) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("履歴のシリアライズに失敗しました: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("履歴の保存に失敗しました: %w", err)
	}
	s.entries = next
	return nil
}

func (s *Store) snapshot() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
