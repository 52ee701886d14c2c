// Package models defines core data structures for chunks, chat requests, and web results.
package models

import "time"

// SourceUnknown is the provenance label used when a chunk arrives without one.
const SourceUnknown = "unknown"

// Chunk is a unit of indexed documentation: a bounded span of text plus the
// label of the file it came from. Chunks are written once at ingest time and
// are read-only afterwards.
type Chunk struct {
	ID        string    `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	Source    string    `json:"source" db:"source"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ScoredChunk is a Chunk annotated with per-query ranking evidence. Scores are
// only meaningful within the request that produced them.
type ScoredChunk struct {
	Chunk
	// SemanticScore is the raw distance from the vector index (lower = more similar).
	SemanticScore float64 `json:"semantic_score"`
	// KeywordBoost is the lexical-overlap bonus in [0, BoostCap].
	KeywordBoost float64 `json:"keyword_boost"`
	// FinalScore = SemanticScore - KeywordBoost (lower = better).
	FinalScore float64 `json:"final_score"`
}
