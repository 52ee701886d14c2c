// Package generator wraps the downstream text generation service. Generation
// failure is the one fatal error class for a chat request.
package generator

import (
	"context"

	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
)

// Generator produces a completion from a system prompt and message history.
type Generator interface {
	Complete(ctx context.Context, systemPrompt string, messages []models.Turn) (string, error)
}
