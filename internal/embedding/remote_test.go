package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		resp := embeddingsResponse{}
		for i := range req.Input {
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: i, Embedding: []float32{3, 4}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newRemoteForTest(t *testing.T, baseURL string) *RemoteEmbedder {
	t.Helper()
	t.Setenv("TEST_EMBED_KEY", "secret")
	e, err := NewRemoteEmbedder(RemoteConfig{
		BaseURL:    baseURL,
		APIKeyEnv:  "TEST_EMBED_KEY",
		Model:      "text-embedding-3-small",
		Dimensions: 2,
		Timeout:    5 * time.Second,
		CacheSize:  10,
	})
	if err != nil {
		t.Fatalf("NewRemoteEmbedder() error = %v", err)
	}
	return e
}

func TestRemoteEmbedderNormalizesAndCaches(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls)
	defer srv.Close()

	e := newRemoteForTest(t, srv.URL)
	vec, err := e.Embed(context.Background(), "liquid glass")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("expected unit-length embedding, norm^2 = %f", norm)
	}

	// Second call for the same text hits the cache.
	if _, err := e.Embed(context.Background(), "liquid glass"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
}

func TestRemoteEmbedderBatch(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls)
	defer srv.Close()

	e := newRemoteForTest(t, srv.URL)
	vecs, err := e.EmbedBatch(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 2 {
			t.Errorf("embedding %d has wrong dimension %d", i, len(v))
		}
	}
}

func TestRemoteEmbedderRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(embeddingsResponse{Data: []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{{Index: 0, Embedding: []float32{1, 0}}}})
	}))
	defer srv.Close()

	e := newRemoteForTest(t, srv.URL)
	if _, err := e.Embed(context.Background(), "retry me"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 calls (1 retry), got %d", calls)
	}
}

func TestNewRemoteEmbedderMissingKey(t *testing.T) {
	t.Setenv("TEST_EMBED_KEY", "")
	if _, err := NewRemoteEmbedder(RemoteConfig{APIKeyEnv: "TEST_EMBED_KEY"}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(8)
	a, _ := e.Embed(context.Background(), "tahoe")
	b, _ := e.Embed(context.Background(), "tahoe")
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("mock embeddings not deterministic")
		}
	}
	c, _ := e.Embed(context.Background(), "something else")
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should get different embeddings")
	}
}
