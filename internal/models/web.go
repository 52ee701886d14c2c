package models

// WebResult is a normalized hit from the external web search provider.
// One-shot per request; never persisted.
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
