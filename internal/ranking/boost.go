// Package ranking provides the lexical-overlap boost used to rerank
// semantic search candidates.
package ranking

import (
	"regexp"
	"strings"

	"github.com/ridhiratan/macos-tahoe-rag/internal/config"
)

var tokenRegex = regexp.MustCompile(`[a-z0-9]+`)

// BoostScorer scores lexical overlap between a query and a candidate chunk.
// Pure and deterministic; safe for concurrent use.
type BoostScorer struct {
	tokenBoost     float64
	vocabBoost     float64
	cap            float64
	minTokenLength int
	vocabulary     []string
}

// NewBoostScorer creates a scorer from the retrieval configuration. The
// curated vocabulary is lowercased once up front.
func NewBoostScorer(cfg *config.RetrievalConfig) *BoostScorer {
	vocab := make([]string, 0, len(cfg.Vocabulary))
	for _, term := range cfg.Vocabulary {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			vocab = append(vocab, term)
		}
	}
	return &BoostScorer{
		tokenBoost:     cfg.TokenBoost,
		vocabBoost:     cfg.VocabularyBoost,
		cap:            cfg.BoostCap,
		minTokenLength: cfg.MinTokenLength,
		vocabulary:     vocab,
	}
}

// Score returns the keyword boost for a query/content pair, in [0, cap].
// Each sufficiently long query token found in the content adds tokenBoost;
// each vocabulary term present in both query and content adds vocabBoost.
func (s *BoostScorer) Score(query, content string) float64 {
	if query == "" || content == "" {
		return 0
	}
	loweredQuery := strings.ToLower(query)
	loweredContent := strings.ToLower(content)

	var boost float64
	for _, token := range tokenRegex.FindAllString(loweredQuery, -1) {
		if len(token) < s.minTokenLength {
			continue
		}
		if strings.Contains(loweredContent, token) {
			boost += s.tokenBoost
		}
	}
	for _, term := range s.vocabulary {
		if strings.Contains(loweredQuery, term) && strings.Contains(loweredContent, term) {
			boost += s.vocabBoost
		}
	}
	if boost > s.cap {
		boost = s.cap
	}
	return boost
}
