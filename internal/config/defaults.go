package config

// DefaultVocabulary is the curated list of release-specific terms that earn
// the larger keyword boost. Membership is a product decision; override it in
// the config file as the feature vocabulary evolves.
var DefaultVocabulary = []string{
	"liquid glass",
	"tahoe",
	"macos 26",
	"apple intelligence",
	"spotlight",
	"continuity",
	"control center",
	"stage manager",
	"live activities",
	"game mode",
	"shortcuts",
	"safari",
	"metal",
	"rosetta",
	"compatibility",
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./data/chunks.db"
	}
	if cfg.Storage.VectorIndexPath == "" {
		cfg.Storage.VectorIndexPath = "./data/vectors.idx"
	}
	if cfg.Storage.DocsDir == "" {
		cfg.Storage.DocsDir = "./docs"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.TimeoutSeconds == 0 {
		cfg.Embedding.TimeoutSeconds = 30
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Generation.BaseURL == "" {
		cfg.Generation.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Generation.APIKeyEnv == "" {
		cfg.Generation.APIKeyEnv = "ANTHROPIC_API_KEY"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "claude-sonnet-4-20250514"
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 1024
	}
	if cfg.Generation.TimeoutSeconds == 0 {
		cfg.Generation.TimeoutSeconds = 60
	}
	if cfg.WebSearch.BaseURL == "" {
		cfg.WebSearch.BaseURL = "https://api.search.brave.com"
	}
	if cfg.WebSearch.APIKeyEnv == "" {
		cfg.WebSearch.APIKeyEnv = "BRAVE_SEARCH_API_KEY"
	}
	if cfg.WebSearch.MaxResults == 0 {
		cfg.WebSearch.MaxResults = 3
	}
	if cfg.WebSearch.TimeoutSeconds == 0 {
		cfg.WebSearch.TimeoutSeconds = 10
	}
	if cfg.WebSearch.RequestsPerSecond == 0 {
		cfg.WebSearch.RequestsPerSecond = 1
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.CandidateK == 0 {
		cfg.Retrieval.CandidateK = 15
	}
	if cfg.Retrieval.RelevanceThreshold == 0 {
		cfg.Retrieval.RelevanceThreshold = 0.35
	}
	if cfg.Retrieval.TokenBoost == 0 {
		cfg.Retrieval.TokenBoost = 0.05
	}
	if cfg.Retrieval.VocabularyBoost == 0 {
		cfg.Retrieval.VocabularyBoost = 0.1
	}
	if cfg.Retrieval.BoostCap == 0 {
		cfg.Retrieval.BoostCap = 0.3
	}
	if cfg.Retrieval.MinTokenLength == 0 {
		cfg.Retrieval.MinTokenLength = 4
	}
	if cfg.Retrieval.Vocabulary == nil {
		cfg.Retrieval.Vocabulary = DefaultVocabulary
	}
	if cfg.Chat.HistoryWindow == 0 {
		cfg.Chat.HistoryWindow = 20
	}
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 1000
	}
	if cfg.Ingest.ChunkOverlap == 0 {
		cfg.Ingest.ChunkOverlap = 200
	}
	if cfg.Ingest.Extensions == nil {
		cfg.Ingest.Extensions = []string{".txt", ".md"}
	}
}
