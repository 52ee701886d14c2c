// Package websearch adapts an external web search provider into normalized
// (title, url, snippet) results. Provider failure never aborts a request:
// callers treat any error as zero results.
package websearch

import (
	"context"

	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
)

// Searcher issues a web search and normalizes the results.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.WebResult, error)
}

// Disabled is a Searcher that always returns no results. Used when web
// search is turned off or not configured.
type Disabled struct{}

// Search returns no results.
func (Disabled) Search(ctx context.Context, query string, maxResults int) ([]models.WebResult, error) {
	return nil, nil
}
