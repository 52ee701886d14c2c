// Package ingest builds the local documentation index: loading raw text,
// splitting it into overlapping chunks, embedding, and persisting.
package ingest

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
)

// Chunker splits text into overlapping chunks of roughly chunkSize
// characters, breaking only at word boundaries.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in characters).
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 2
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Chunk splits text into chunks labeled with source. Empty input yields nil.
func (c *Chunker) Chunk(source, text string) []*models.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []*models.Chunk
	start := 0
	for start < len(words) {
		length := 0
		end := start
		for end < len(words) {
			wordLen := len(words[end])
			if length > 0 {
				wordLen++ // joining space
			}
			if length+wordLen > c.chunkSize && length > 0 {
				break
			}
			length += wordLen
			end++
		}

		chunks = append(chunks, &models.Chunk{
			ID:      fmt.Sprintf("%s_%s", source, uuid.New().String()[:8]),
			Content: strings.Join(words[start:end], " "),
			Source:  source,
		})
		if end >= len(words) {
			break
		}

		// Walk back from the window end until roughly chunkOverlap
		// characters carry over into the next chunk.
		overlapLen := 0
		overlapStart := end
		for overlapStart > start+1 {
			next := len(words[overlapStart-1]) + 1
			if overlapLen+next > c.chunkOverlap {
				break
			}
			overlapLen += next
			overlapStart--
		}
		start = overlapStart
	}
	return chunks
}
