package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/ridhiratan/macos-tahoe-rag/internal/embedding"
	"github.com/ridhiratan/macos-tahoe-rag/internal/storage"
	"github.com/ridhiratan/macos-tahoe-rag/internal/vector"
)

func writeDoc(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func newTestIngester(t *testing.T) (*Ingester, storage.Storage, vector.VectorIndex) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "chunks.db"))
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	idx, err := vector.NewFlatIndex(8)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	in := NewIngester(store, embedding.NewMockEmbedder(8), idx, NewChunker(200, 50), zap.NewNop())
	return in, store, idx
}

func TestIngestDir(t *testing.T) {
	in, store, idx := newTestIngester(t)
	docsDir := t.TempDir()
	writeDoc(t, docsDir, "features.txt", "Liquid Glass is the new design language of macOS Tahoe.")
	writeDoc(t, docsDir, "compat.md", "macOS Tahoe runs on Apple silicon Macs.")
	writeDoc(t, docsDir, "ignored.pdf", "binary-ish payload")

	indexPath := filepath.Join(t.TempDir(), "vectors.idx")
	err := in.IngestDir(context.Background(), docsDir, []string{".txt", ".md"}, indexPath)
	if err != nil {
		t.Fatalf("IngestDir() error = %v", err)
	}

	count, _ := store.CountChunks(context.Background())
	if count == 0 {
		t.Fatal("expected chunks in storage")
	}
	if idx.Size() != int(count) {
		t.Errorf("index size %d != chunk count %d", idx.Size(), count)
	}
	sources, _ := store.ListSources(context.Background())
	if len(sources) != 2 {
		t.Errorf("expected 2 sources (pdf skipped), got %v", sources)
	}
	if _, err := os.Stat(indexPath); err != nil {
		t.Errorf("index file not saved: %v", err)
	}
}

func TestIngestDirEmpty(t *testing.T) {
	in, _, _ := newTestIngester(t)
	err := in.IngestDir(context.Background(), t.TempDir(), []string{".txt"}, filepath.Join(t.TempDir(), "v.idx"))
	if err == nil {
		t.Error("expected error for empty docs directory")
	}
}

func TestIngestFileReplacesExisting(t *testing.T) {
	in, store, idx := newTestIngester(t)
	docsDir := t.TempDir()
	path := writeDoc(t, docsDir, "notes.txt", "first version of the notes")
	indexPath := filepath.Join(t.TempDir(), "vectors.idx")

	if err := in.IngestFile(context.Background(), path, indexPath); err != nil {
		t.Fatalf("IngestFile() error = %v", err)
	}
	firstCount, _ := store.CountChunks(context.Background())

	writeDoc(t, docsDir, "notes.txt", "second version, slightly different")
	if err := in.IngestFile(context.Background(), path, indexPath); err != nil {
		t.Fatalf("second IngestFile() error = %v", err)
	}
	secondCount, _ := store.CountChunks(context.Background())
	if secondCount != firstCount {
		t.Errorf("re-ingest should replace, not append: %d -> %d", firstCount, secondCount)
	}
	if idx.Size() != int(secondCount) {
		t.Errorf("index size %d != chunk count %d", idx.Size(), secondCount)
	}
}

func TestRemoveFile(t *testing.T) {
	in, store, idx := newTestIngester(t)
	docsDir := t.TempDir()
	path := writeDoc(t, docsDir, "gone.txt", "short lived content")
	indexPath := filepath.Join(t.TempDir(), "vectors.idx")

	if err := in.IngestFile(context.Background(), path, indexPath); err != nil {
		t.Fatalf("IngestFile() error = %v", err)
	}
	if err := in.RemoveFile(context.Background(), path, indexPath); err != nil {
		t.Fatalf("RemoveFile() error = %v", err)
	}
	count, _ := store.CountChunks(context.Background())
	if count != 0 || idx.Size() != 0 {
		t.Errorf("expected empty store and index, got %d chunks, %d vectors", count, idx.Size())
	}
}
