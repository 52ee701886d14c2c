// Package vector provides the persistent vector index and similarity search.
package vector

import "context"

// VectorIndex defines vector storage and nearest-neighbor search. The chat
// request path only uses Search; writes happen during ingestion.
type VectorIndex interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	// Search returns the k nearest vectors ordered by ascending distance.
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Remove(ctx context.Context, ids []string) error
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}

// VectorResult is a single similarity hit. Distance is a dissimilarity
// measure: lower means more similar (cosine distance for normalized vectors).
type VectorResult struct {
	ID       string
	Distance float64
}
