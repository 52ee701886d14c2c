// Package storage defines the persistence interface for documentation chunks.
package storage

import (
	"context"

	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
)

// Storage defines chunk persistence operations. The request path only uses
// the read side; writes happen during ingestion.
type Storage interface {
	CreateChunk(ctx context.Context, chunk *models.Chunk) error
	BatchCreateChunks(ctx context.Context, chunks []*models.Chunk) error
	GetChunk(ctx context.Context, id string) (*models.Chunk, error)
	DeleteChunksBySource(ctx context.Context, source string) ([]string, error)
	ListSources(ctx context.Context) ([]string, error)
	CountChunks(ctx context.Context) (int64, error)
	Close() error
}
