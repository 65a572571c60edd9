package studio

import (
	"context"
	"sync"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
)

// --- Mocks ---

type mockNormalizer struct {
	mu            sync.Mutex
	calls         int
	normalizeFunc func(ctx context.Context, data []byte, mime string) (domain.NormalizedImage, error)
}

func (m *mockNormalizer) Normalize(ctx context.Context, data []byte, mime string) (domain.NormalizedImage, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.normalizeFunc != nil {
		return m.normalizeFunc(ctx, data, mime)
	}
	return domain.NewNormalizedImage(data, mime, 640, 480), nil
}

func (m *mockNormalizer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockGenerator は SceneGenerator のテスト用モックなのだ。
type mockGenerator struct {
	mu           sync.Mutex
	requests     []domain.GenerationRequest
	generateFunc func(ctx context.Context, req domain.GenerationRequest) domain.GenerationOutcome
}

func (m *mockGenerator) GenerateScene(ctx context.Context, req domain.GenerationRequest) domain.GenerationOutcome {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return domain.SuccessOutcome("image/png", []byte("generated"))
}

func (m *mockGenerator) received() []domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.GenerationRequest(nil), m.requests...)
}
