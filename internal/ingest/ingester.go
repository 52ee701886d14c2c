package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ridhiratan/macos-tahoe-rag/internal/embedding"
	"github.com/ridhiratan/macos-tahoe-rag/internal/storage"
	"github.com/ridhiratan/macos-tahoe-rag/internal/vector"
)

// Ingester runs the indexing pipeline: load, chunk, embed, persist. It owns
// the vector index's write path; the chat request path never goes through it.
type Ingester struct {
	storage  storage.Storage
	embedder embedding.Embedder
	index    vector.VectorIndex
	chunker  *Chunker
	logger   *zap.Logger
}

// NewIngester creates an ingester with the given dependencies.
func NewIngester(
	store storage.Storage,
	embedder embedding.Embedder,
	index vector.VectorIndex,
	chunker *Chunker,
	logger *zap.Logger,
) *Ingester {
	return &Ingester{
		storage:  store,
		embedder: embedder,
		index:    index,
		chunker:  chunker,
		logger:   logger,
	}
}

// IngestDir indexes every matching document under dir and saves the vector
// index to indexPath.
func (in *Ingester) IngestDir(ctx context.Context, dir string, extensions []string, indexPath string) error {
	docs, err := LoadDocuments(dir, extensions)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents found in %s", dir)
	}
	in.logger.Info("loaded documents", zap.Int("count", len(docs)), zap.String("dir", dir))

	total := 0
	for _, doc := range docs {
		n, err := in.ingestDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", doc.Name, err)
		}
		total += n
	}
	if err := in.index.Save(indexPath); err != nil {
		return fmt.Errorf("save vector index: %w", err)
	}
	in.logger.Info("indexing complete",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", total),
		zap.String("index_path", indexPath),
	)
	return nil
}

// IngestFile re-indexes a single file (used by watch mode) and saves the index.
func (in *Ingester) IngestFile(ctx context.Context, path, indexPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc := Document{Name: filepath.Base(path), Path: path, Text: string(data)}
	if _, err := in.ingestDocument(ctx, doc); err != nil {
		return err
	}
	return in.index.Save(indexPath)
}

// RemoveFile drops a file's chunks and vectors (used by watch mode) and saves the index.
func (in *Ingester) RemoveFile(ctx context.Context, path, indexPath string) error {
	if err := in.removeSource(ctx, filepath.Base(path)); err != nil {
		return err
	}
	return in.index.Save(indexPath)
}

// ingestDocument replaces all chunks for the document's source label.
func (in *Ingester) ingestDocument(ctx context.Context, doc Document) (int, error) {
	if err := in.removeSource(ctx, doc.Name); err != nil {
		return 0, err
	}

	chunks := in.chunker.Chunk(doc.Name, doc.Text)
	if len(chunks) == 0 {
		in.logger.Warn("document produced no chunks", zap.String("source", doc.Name))
		return 0, nil
	}

	texts := make([]string, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
		ids[i] = chunk.ID
	}
	vectors, err := in.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}

	if err := in.storage.BatchCreateChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}
	if err := in.index.Add(ctx, ids, vectors); err != nil {
		return 0, fmt.Errorf("index vectors: %w", err)
	}
	in.logger.Debug("document indexed", zap.String("source", doc.Name), zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

func (in *Ingester) removeSource(ctx context.Context, source string) error {
	ids, err := in.storage.DeleteChunksBySource(ctx, source)
	if err != nil {
		return fmt.Errorf("delete old chunks: %w", err)
	}
	if len(ids) > 0 {
		if err := in.index.Remove(ctx, ids); err != nil {
			return fmt.Errorf("remove old vectors: %w", err)
		}
	}
	return nil
}
