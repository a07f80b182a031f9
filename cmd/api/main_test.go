package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kactuary/actuary-rag/engine/domain"
	"github.com/kactuary/actuary-rag/engine/rag"
)

type fakeQueryService struct {
	answer     *rag.Answer
	err        error
	gotHistory []domain.ChatMessage
}

func (f *fakeQueryService) Query(_ context.Context, _ string, history []domain.ChatMessage) (*rag.Answer, error) {
	f.gotHistory = history
	return f.answer, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleChat_Success(t *testing.T) {
	svc := &fakeQueryService{answer: &rag.Answer{
		Text:     "KIC-S는 신지급여력제도입니다.",
		Contexts: []string{"[KICS 해설서.pdf - 10페이지]\n본문"},
		Topics:   []domain.Topic{domain.TopicCapitalAdequacy},
	}}

	body := `{"question":"KIC-S란 무엇인가요?","history":[{"role":"user","content":"안녕하세요"},{"role":"assistant","content":"안녕하세요."}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handleChat(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != svc.answer.Text {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Contexts) != 1 || len(resp.Topics) != 1 {
		t.Errorf("contexts/topics not forwarded: %+v", resp)
	}
	if len(svc.gotHistory) != 2 {
		t.Errorf("history length = %d, want 2", len(svc.gotHistory))
	}
}

func TestHandleChat_MissingQuestion(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handleChat(&fakeQueryService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleChat_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()

	handleChat(&fakeQueryService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleChat_ServiceError(t *testing.T) {
	svc := &fakeQueryService{err: errors.New("boom")}
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"질문"}`))
	rec := httptest.NewRecorder()

	handleChat(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	handleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("ACTUARY_TEST_KEY", "set")
	if got := envOr("ACTUARY_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("envOr = %q, want set", got)
	}
	if got := envOr("ACTUARY_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("envOr = %q, want fallback", got)
	}
}
