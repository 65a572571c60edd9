package generator

import (
	"context"
	"sync"
	"time"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockAIClient は ImageModel のテスト用モックなのだ。
type mockAIClient struct {
	mu           sync.Mutex
	calls        int
	lastModel    string
	lastParts    []*genai.Part
	lastOpts     gemini.GenerateOptions
	generateFunc func(call int, parts []*genai.Part) (*gemini.Response, error)
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.lastModel = model
	m.lastParts = parts
	m.lastOpts = opts
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(call, parts)
	}
	return imageResponse("image/png", []byte("fake")), nil
}

func (m *mockAIClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// recordingTimer は backoff.Timer を実装し、待機せずに待機時間だけを記録するのだ。
type recordingTimer struct {
	mu     sync.Mutex
	delays []time.Duration
	c      chan time.Time
}

func newRecordingTimer() *recordingTimer {
	return &recordingTimer{c: make(chan time.Time, 1)}
}

func (r *recordingTimer) Start(d time.Duration) {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	r.c <- time.Now()
}

func (r *recordingTimer) Stop() {}

func (r *recordingTimer) C() <-chan time.Time { return r.c }

func (r *recordingTimer) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

// --- Fixtures ---

func imageResponse(mimeType string, data []byte) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
				},
			}},
		},
	}
}

func sourceImage() domain.NormalizedImage {
	return domain.NewNormalizedImage([]byte("jpeg-bytes"), domain.MimeTypeJPEG, 800, 600)
}

func guideImage() *domain.NormalizedImage {
	g := domain.NewNormalizedImage([]byte("png-bytes"), domain.MimeTypePNG, 512, 512)
	return &g
}
