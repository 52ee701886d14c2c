// Package retriever implements hybrid retrieval: a broad semantic search
// rescaled by lexical evidence, with a relevance verdict for the router.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ridhiratan/macos-tahoe-rag/internal/config"
	"github.com/ridhiratan/macos-tahoe-rag/internal/embedding"
	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
	"github.com/ridhiratan/macos-tahoe-rag/internal/ranking"
	"github.com/ridhiratan/macos-tahoe-rag/internal/storage"
	"github.com/ridhiratan/macos-tahoe-rag/internal/vector"
)

// ErrIndexUnavailable signals that the vector index has not been built yet.
// Callers treat it as "no local knowledge available" and degrade to web-only.
var ErrIndexUnavailable = errors.New("vector index not available; run 'tahoe-rag index' first")

// Evidence is the outcome of one retrieval: the reranked chunks plus the
// verdict on whether local documentation is usable as the primary source.
type Evidence struct {
	Chunks []models.ScoredChunk
	// Relevant is true when chunks are non-empty and the best final score
	// beats the relevance threshold (strictly below).
	Relevant bool
}

// Retriever runs hybrid retrieval against the local documentation index.
// The index handle is loaded lazily, exactly once, and shared read-only
// across concurrent requests afterwards.
type Retriever struct {
	storage   storage.Storage
	embedder  embedding.Embedder
	index     vector.VectorIndex
	scorer    *ranking.BoostScorer
	cfg       *config.RetrievalConfig
	indexPath string
	logger    *zap.Logger

	initOnce sync.Once
	initErr  error
	ready    atomic.Bool
}

// NewRetriever creates a retriever with the given dependencies. The vector
// index is not loaded until the first call to Initialize or Retrieve.
func NewRetriever(
	store storage.Storage,
	embedder embedding.Embedder,
	index vector.VectorIndex,
	cfg *config.RetrievalConfig,
	indexPath string,
	logger *zap.Logger,
) *Retriever {
	return &Retriever{
		storage:   store,
		embedder:  embedder,
		index:     index,
		scorer:    ranking.NewBoostScorer(cfg),
		cfg:       cfg,
		indexPath: indexPath,
		logger:    logger,
	}
}

// Initialize loads the vector index from disk. Safe under concurrent first
// access; repeated calls are no-ops that return the first outcome.
func (r *Retriever) Initialize(ctx context.Context) error {
	r.initOnce.Do(func() {
		if err := r.index.Load(r.indexPath); err != nil {
			r.initErr = fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
			return
		}
		if r.index.Size() == 0 {
			r.initErr = ErrIndexUnavailable
			return
		}
		r.ready.Store(true)
		r.logger.Info("retriever initialized",
			zap.String("index_path", r.indexPath),
			zap.Int("vectors", r.index.Size()),
		)
	})
	return r.initErr
}

// Ready reports whether the index is loaded. Used by the health endpoint to
// distinguish "degraded to web-only" from "fully operational".
func (r *Retriever) Ready() bool {
	return r.ready.Load()
}

// Retrieve returns up to k chunks reranked by final score, plus the relevance
// verdict. k defaults to the configured top-k and is capped by the candidate
// pool size. Returns ErrIndexUnavailable when the index has not been built.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (*Evidence, error) {
	if err := r.Initialize(ctx); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = r.cfg.TopK
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Fetch a larger candidate pool than requested so reranking has enough
	// material to correct semantic-search misses.
	candidates, err := r.index.Search(ctx, queryVec, r.cfg.CandidateK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	scored := make([]models.ScoredChunk, 0, len(candidates))
	for _, cand := range candidates {
		chunk, err := r.storage.GetChunk(ctx, cand.ID)
		if err != nil {
			r.logger.Warn("chunk missing for indexed vector", zap.String("id", cand.ID), zap.Error(err))
			continue
		}
		boost := r.scorer.Score(query, chunk.Content)
		scored = append(scored, models.ScoredChunk{
			Chunk:         *chunk,
			SemanticScore: cand.Distance,
			KeywordBoost:  boost,
			FinalScore:    cand.Distance - boost,
		})
	}

	// Stable: ties keep their original similarity order.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].FinalScore < scored[j].FinalScore })
	if len(scored) > k {
		scored = scored[:k]
	}

	relevant := len(scored) > 0 && scored[0].FinalScore < r.cfg.RelevanceThreshold
	return &Evidence{Chunks: scored, Relevant: relevant}, nil
}
