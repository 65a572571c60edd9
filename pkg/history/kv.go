// Package history は生成履歴の保存・読み込みを担当します。
package history

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound はキーに対応する値が保存されていないことを示します。
var ErrNotFound = errors.New("history: key not found")

// KVStore は履歴を1つのキーに丸ごと保存する永続化先です。
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// MemoryKV はプロセス内だけで値を保持する KVStore です。テストや一時的な実行に使います。
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}
