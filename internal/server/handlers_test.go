package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ridhiratan/macos-tahoe-rag/internal/chat"
	"github.com/ridhiratan/macos-tahoe-rag/internal/config"
	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
	"github.com/ridhiratan/macos-tahoe-rag/internal/storage"
)

type fakeService struct {
	resp  *models.ChatResponse
	err   error
	ready bool
}

func (f *fakeService) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	return f.resp, f.err
}
func (f *fakeService) IndexReady() bool { return f.ready }

func newTestServer(t *testing.T, svc ChatService) *Server {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "chunks.db"))
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewServer(svc, store, config.Default(), zap.NewNop())
}

func TestHandleChat(t *testing.T) {
	svc := &fakeService{
		resp: &models.ChatResponse{
			Response:   "Liquid Glass is the new design language.",
			Sources:    []string{"design.txt"},
			WebSources: []models.WebSource{{Title: "t", URL: "https://u"}},
			SourceType: models.SourceTypeHybrid,
		},
		ready: true,
	}
	srv := newTestServer(t, svc)

	body := strings.NewReader(`{"message": "What is Liquid Glass?", "history": []}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SourceType != models.SourceTypeHybrid || len(resp.Sources) != 1 || len(resp.WebSources) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleChatInvalidBody(t *testing.T) {
	srv := newTestServer(t, &fakeService{})
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleChatEmptyMessage(t *testing.T) {
	srv := newTestServer(t, &fakeService{})
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": ""}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleChatMissingCredential(t *testing.T) {
	srv := newTestServer(t, &fakeService{err: chat.ErrNotConfigured})
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "q"}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "API key not configured") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &fakeService{ready: true})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" || body["index_ready"] != true {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestHandleHealthDegraded(t *testing.T) {
	srv := newTestServer(t, &fakeService{ready: false})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["index_ready"] != false {
		t.Error("expected index_ready false when retriever is not ready")
	}
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t, &fakeService{ready: true})
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	cfg, ok := body["config"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing config section: %v", body)
	}
	if cfg["top_k"] != float64(5) || cfg["relevance_threshold"] != 0.35 {
		t.Errorf("unexpected config section: %v", cfg)
	}
}
