package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
	"github.com/shouni/gemini-scene-kit/pkg/studio"
)

// downloadBaseName はダウンロード時のファイル名です（拡張子なし）。
const downloadBaseName = "cenario-produto-nanobanana"

type errorBody struct {
	Error string `json:"error"`
}

type presetBody struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

type generateBody struct {
	Outcome domain.GenerationOutcome `json:"outcome"`
	Message string                   `json:"message,omitempty"`
	State   studio.State             `json:"state"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	out := make([]presetBody, len(domain.StylePresets))
	for i, p := range domain.StylePresets {
		out[i] = presetBody{Index: i, Title: p.Title, Prompt: p.Prompt}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.Server.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("multipart form の解析に失敗しました: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("file フィールドがありません: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("ファイルの読み込みに失敗しました: %w", err))
		return
	}

	declared := header.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		declared = mt
	}

	if err := s.session.Upload(r.Context(), data, declared); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, domain.ErrInvalidFormat) {
			status = http.StatusUnsupportedMediaType
		}
		s.writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSetPrompt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if err := s.session.SetPrompt(body.Prompt); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSelectPreset(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("%w: %s", domain.ErrUnknownPreset, chi.URLParam(r, "index")))
		return
	}
	if err := s.session.SelectPreset(index); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleChangeRatio(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Ratio string `json:"ratio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if err := s.session.ChangeRatio(body.Ratio); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleGenerate はクライアントが切断しても生成と履歴の保存を最後まで行います。
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.session.Generate(context.WithoutCancel(r.Context()))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, generateBody{
		Outcome: outcome,
		Message: outcome.UserMessage(),
		State:   s.session.Snapshot(),
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	mimeType, data, err := s.session.Result()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s%s", downloadBaseName, extensionFor(mimeType)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session.Clear()
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.History())
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ClearHistory(r.Context()); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	entry, err := s.session.HistoryEntry(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteHistory(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReuseHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ReuseHistory(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// statusFor はドメインエラーを HTTP ステータスに対応付けます。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrGenerationInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrHistoryNotFound), errors.Is(err, studio.ErrNoResult):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMissingImage),
		errors.Is(err, domain.ErrPromptTooLong),
		errors.Is(err, domain.ErrUnsupportedRatio),
		errors.Is(err, domain.ErrInvalidRatio),
		errors.Is(err, domain.ErrUnknownPreset):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case domain.MimeTypeJPEG:
		return ".jpg"
	case domain.MimeTypeWebP:
		return ".webp"
	}
	return ".png"
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
