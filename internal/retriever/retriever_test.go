package retriever

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/ridhiratan/macos-tahoe-rag/internal/config"
	"github.com/ridhiratan/macos-tahoe-rag/internal/embedding"
	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
	"github.com/ridhiratan/macos-tahoe-rag/internal/vector"
)

// fakeIndex returns canned results and records Load calls.
type fakeIndex struct {
	results   []*vector.VectorResult
	loadErr   error
	loadCalls int
	size      int
}

func (f *fakeIndex) Add(ctx context.Context, ids []string, vectors [][]float32) error { return nil }
func (f *fakeIndex) Search(ctx context.Context, query []float32, k int) ([]*vector.VectorResult, error) {
	if k > len(f.results) {
		k = len(f.results)
	}
	return f.results[:k], nil
}
func (f *fakeIndex) Remove(ctx context.Context, ids []string) error { return nil }
func (f *fakeIndex) Save(path string) error                         { return nil }
func (f *fakeIndex) Load(path string) error {
	f.loadCalls++
	return f.loadErr
}
func (f *fakeIndex) Size() int    { return f.size }
func (f *fakeIndex) Close() error { return nil }

// fakeStorage serves chunks from a map.
type fakeStorage struct {
	chunks map[string]*models.Chunk
}

func (f *fakeStorage) CreateChunk(ctx context.Context, chunk *models.Chunk) error       { return nil }
func (f *fakeStorage) BatchCreateChunks(ctx context.Context, chunks []*models.Chunk) error { return nil }
func (f *fakeStorage) GetChunk(ctx context.Context, id string) (*models.Chunk, error) {
	if c, ok := f.chunks[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("chunk not found: %s", id)
}
func (f *fakeStorage) DeleteChunksBySource(ctx context.Context, source string) ([]string, error) {
	return nil, nil
}
func (f *fakeStorage) ListSources(ctx context.Context) ([]string, error)  { return nil, nil }
func (f *fakeStorage) CountChunks(ctx context.Context) (int64, error)     { return int64(len(f.chunks)), nil }
func (f *fakeStorage) Close() error                                       { return nil }

func newTestRetriever(idx *fakeIndex, store *fakeStorage) *Retriever {
	cfg := config.Default()
	cfg.Retrieval.Vocabulary = []string{"liquid glass", "tahoe"}
	return NewRetriever(store, embedding.NewMockEmbedder(8), idx, &cfg.Retrieval, "/tmp/unused.idx", zap.NewNop())
}

func TestRetrieveRanksAndCaps(t *testing.T) {
	idx := &fakeIndex{
		size: 3,
		results: []*vector.VectorResult{
			{ID: "c1", Distance: 0.20},
			{ID: "c2", Distance: 0.25},
			{ID: "c3", Distance: 0.90},
		},
	}
	store := &fakeStorage{chunks: map[string]*models.Chunk{
		"c1": {ID: "c1", Content: "Battery settings got a refresh.", Source: "battery.txt"},
		// c2 mentions the query terms, so its boost should lift it above c1.
		"c2": {ID: "c2", Content: "Liquid Glass design language spans the whole system.", Source: "design.txt"},
		"c3": {ID: "c3", Content: "Unrelated release notes.", Source: "notes.txt"},
	}}
	r := newTestRetriever(idx, store)

	ev, err := r.Retrieve(context.Background(), "What is Liquid Glass?", 2)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(ev.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(ev.Chunks))
	}
	if ev.Chunks[0].ID != "c2" {
		t.Errorf("expected boosted chunk c2 first, got %s", ev.Chunks[0].ID)
	}
	for _, c := range ev.Chunks {
		if c.FinalScore != c.SemanticScore-c.KeywordBoost {
			t.Errorf("final score invariant broken for %s: %f != %f - %f",
				c.ID, c.FinalScore, c.SemanticScore, c.KeywordBoost)
		}
		if c.KeywordBoost < 0 || c.KeywordBoost > 0.3 {
			t.Errorf("keyword boost out of range for %s: %f", c.ID, c.KeywordBoost)
		}
	}
	if ev.Chunks[0].FinalScore > ev.Chunks[1].FinalScore {
		t.Error("chunks not sorted ascending by final score")
	}
	if !ev.Relevant {
		t.Error("expected relevant verdict for close match")
	}
}

func TestRetrieveVerdictThresholdIsStrict(t *testing.T) {
	store := &fakeStorage{chunks: map[string]*models.Chunk{
		"c1": {ID: "c1", Content: "zzz qqq", Source: "a.txt"},
	}}

	// Exactly at the threshold: no boost applies, final score stays 0.35.
	idx := &fakeIndex{size: 1, results: []*vector.VectorResult{{ID: "c1", Distance: 0.35}}}
	ev, err := newTestRetriever(idx, store).Retrieve(context.Background(), "defender", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if ev.Relevant {
		t.Error("final score == threshold must not be relevant")
	}

	idx = &fakeIndex{size: 1, results: []*vector.VectorResult{{ID: "c1", Distance: 0.349999}}}
	ev, _ = newTestRetriever(idx, store).Retrieve(context.Background(), "defender", 5)
	if !ev.Relevant {
		t.Error("final score just below threshold must be relevant")
	}
}

func TestRetrieveEmptyIndexVerdict(t *testing.T) {
	idx := &fakeIndex{size: 1, results: nil}
	r := newTestRetriever(idx, &fakeStorage{chunks: map[string]*models.Chunk{}})
	ev, err := r.Retrieve(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(ev.Chunks) != 0 || ev.Relevant {
		t.Errorf("expected empty, irrelevant evidence; got %+v", ev)
	}
}

func TestRetrieveStableOrderOnTies(t *testing.T) {
	// Same distance, same (zero) boost: original similarity order must hold.
	idx := &fakeIndex{
		size: 2,
		results: []*vector.VectorResult{
			{ID: "first", Distance: 0.5},
			{ID: "second", Distance: 0.5},
		},
	}
	store := &fakeStorage{chunks: map[string]*models.Chunk{
		"first":  {ID: "first", Content: "aaa", Source: "a.txt"},
		"second": {ID: "second", Content: "bbb", Source: "b.txt"},
	}}
	ev, err := newTestRetriever(idx, store).Retrieve(context.Background(), "zzzz", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(ev.Chunks) != 2 || ev.Chunks[0].ID != "first" || ev.Chunks[1].ID != "second" {
		t.Errorf("tie order not preserved: %+v", ev.Chunks)
	}
}

func TestInitializeIdempotent(t *testing.T) {
	idx := &fakeIndex{size: 1, results: nil}
	r := newTestRetriever(idx, &fakeStorage{})

	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}
	if idx.loadCalls != 1 {
		t.Errorf("expected exactly 1 index load, got %d", idx.loadCalls)
	}
	if !r.Ready() {
		t.Error("expected Ready() after initialization")
	}
}

func TestInitializeIndexUnavailable(t *testing.T) {
	idx := &fakeIndex{loadErr: fmt.Errorf("open index file: no such file")}
	r := newTestRetriever(idx, &fakeStorage{})

	err := r.Initialize(context.Background())
	if !errors.Is(err, ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
	if r.Ready() {
		t.Error("Ready() must be false when index is unavailable")
	}
	if _, err := r.Retrieve(context.Background(), "query", 5); !errors.Is(err, ErrIndexUnavailable) {
		t.Errorf("Retrieve must surface ErrIndexUnavailable, got %v", err)
	}
}

func TestInitializeEmptyIndexUnavailable(t *testing.T) {
	idx := &fakeIndex{size: 0}
	r := newTestRetriever(idx, &fakeStorage{})
	if err := r.Initialize(context.Background()); !errors.Is(err, ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable for empty index, got %v", err)
	}
}
