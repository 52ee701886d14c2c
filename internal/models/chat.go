package models

import "fmt"

// SourceType labels which knowledge sources backed a response.
type SourceType string

const (
	SourceTypeLocal  SourceType = "local"
	SourceTypeWeb    SourceType = "web"
	SourceTypeHybrid SourceType = "hybrid"
)

// Turn is a single prior conversation message. Roles are passed through to
// the generator without validation; the caller owns conversation state.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single question plus the caller-supplied history.
type ChatRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history,omitempty"`
}

// Validate ensures the request has a non-empty message.
func (r *ChatRequest) Validate() error {
	if r.Message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}

// WebSource is a (title, url) provenance pair for a web result that backed
// the response.
type WebSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ChatResponse is the answer plus provenance. Sources holds the distinct
// local source labels used; WebSources preserves result order. Both may be
// empty (but never null) when no provenance exists.
type ChatResponse struct {
	Response   string      `json:"response"`
	Sources    []string    `json:"sources"`
	WebSources []WebSource `json:"web_sources"`
	SourceType SourceType  `json:"source_type"`
}
