// Package router decides which knowledge sources back a response and
// assembles the labeled context for the generator.
package router

import (
	"fmt"
	"strings"

	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
	"github.com/ridhiratan/macos-tahoe-rag/internal/retriever"
)

// blockSeparator joins context blocks so sources stay visually distinct.
const blockSeparator = "\n\n---\n\n"

// noInformationPlaceholder is the sentinel context when neither local
// documentation nor web search produced anything. The context is never empty.
const noInformationPlaceholder = "No relevant documentation found."

// RoutedContext is the routing outcome: the populated prompt skeleton, the
// decision label, and the provenance to return to the caller. Sources and
// WebSources are never nil so that absent provenance stays distinguishable
// from missing fields.
type RoutedContext struct {
	SystemPrompt string
	Decision     models.SourceType
	Sources      []string
	WebSources   []models.WebSource
}

// Route applies the decision table to the retrieval evidence and web results.
// Evidence may be nil (retrieval degraded); web search is expected to have
// already been attempted by the caller regardless of local relevance.
//
//	relevant, web   -> hybrid: both blocks
//	relevant, none  -> local: local block only
//	not,      web   -> web: web block only
//	not,      none  -> local: placeholder block
func Route(evidence *retriever.Evidence, webResults []models.WebResult) *RoutedContext {
	relevant := evidence != nil && evidence.Relevant
	webPresent := len(webResults) > 0

	switch {
	case relevant && webPresent:
		return &RoutedContext{
			SystemPrompt: fmt.Sprintf(hybridPromptSkeleton,
				FormatLocalContext(evidence.Chunks), FormatWebContext(webResults)),
			Decision:   models.SourceTypeHybrid,
			Sources:    localSources(evidence.Chunks),
			WebSources: webSources(webResults),
		}
	case relevant:
		return &RoutedContext{
			SystemPrompt: fmt.Sprintf(localPromptSkeleton, FormatLocalContext(evidence.Chunks)),
			Decision:     models.SourceTypeLocal,
			Sources:      localSources(evidence.Chunks),
			WebSources:   []models.WebSource{},
		}
	case webPresent:
		return &RoutedContext{
			SystemPrompt: fmt.Sprintf(webPromptSkeleton, FormatWebContext(webResults)),
			Decision:     models.SourceTypeWeb,
			Sources:      []string{},
			WebSources:   webSources(webResults),
		}
	default:
		return &RoutedContext{
			SystemPrompt: fmt.Sprintf(localPromptSkeleton, noInformationPlaceholder),
			Decision:     models.SourceTypeLocal,
			Sources:      []string{},
			WebSources:   []models.WebSource{},
		}
	}
}

// FormatLocalContext renders chunks as labeled source blocks.
func FormatLocalContext(chunks []models.ScoredChunk) string {
	if len(chunks) == 0 {
		return noInformationPlaceholder
	}
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		source := chunk.Source
		if source == "" {
			source = models.SourceUnknown
		}
		parts = append(parts, fmt.Sprintf("[Source: %s]\n%s", source, chunk.Content))
	}
	return strings.Join(parts, blockSeparator)
}

// FormatWebContext renders web results as labeled blocks.
func FormatWebContext(results []models.WebResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("[Web: %s]\nURL: %s\n%s", r.Title, r.URL, r.Snippet))
	}
	return strings.Join(parts, blockSeparator)
}

// localSources returns the distinct source labels in first-appearance order.
func localSources(chunks []models.ScoredChunk) []string {
	seen := make(map[string]bool, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		source := chunk.Source
		if source == "" {
			source = models.SourceUnknown
		}
		if !seen[source] {
			seen[source] = true
			sources = append(sources, source)
		}
	}
	return sources
}

func webSources(results []models.WebResult) []models.WebSource {
	out := make([]models.WebSource, 0, len(results))
	for _, r := range results {
		out = append(out, models.WebSource{Title: r.Title, URL: r.URL})
	}
	return out
}
