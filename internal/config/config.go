// Package config provides configuration loading and structs for the tahoe-rag server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	WebSearch  WebSearchConfig  `yaml:"web_search"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Chat       ChatConfig       `yaml:"chat"`
	Ingest     IngestConfig     `yaml:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

// StorageConfig holds paths for the chunk database, vector index, and docs.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
	DocsDir         string `yaml:"docs_dir"`
}

// EmbeddingConfig holds settings for the remote embeddings endpoint.
type EmbeddingConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	Model          string `yaml:"model"`
	Dimensions     int    `yaml:"dimensions"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CacheSize      int    `yaml:"cache_size"`
}

// GenerationConfig holds settings for the text generation backend.
type GenerationConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	Model          string `yaml:"model"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// WebSearchConfig holds settings for the web search provider.
type WebSearchConfig struct {
	Enabled           *bool   `yaml:"enabled"`
	BaseURL           string  `yaml:"base_url"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	MaxResults        int     `yaml:"max_results"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// EnabledOrDefault returns whether web search is enabled; defaults to true when unset.
func (w *WebSearchConfig) EnabledOrDefault() bool {
	if w.Enabled != nil {
		return *w.Enabled
	}
	return true
}

// RetrievalConfig holds the reranking policy. The constants here decide how
// lexical evidence rescales semantic distances and when local documentation
// is trusted as a primary source, so they are configuration rather than code.
type RetrievalConfig struct {
	TopK               int      `yaml:"top_k"`
	CandidateK         int      `yaml:"candidate_k"`
	RelevanceThreshold float64  `yaml:"relevance_threshold"`
	TokenBoost         float64  `yaml:"token_boost"`
	VocabularyBoost    float64  `yaml:"vocabulary_boost"`
	BoostCap           float64  `yaml:"boost_cap"`
	MinTokenLength     int      `yaml:"min_token_length"`
	Vocabulary         []string `yaml:"vocabulary"`
}

// ChatConfig holds conversation settings.
type ChatConfig struct {
	// HistoryWindow caps how many prior turns are forwarded to the generator.
	HistoryWindow int `yaml:"history_window"`
}

// IngestConfig holds chunking settings for the indexing pipeline.
type IngestConfig struct {
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
	Extensions   []string `yaml:"extensions"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	cfg.Storage.DocsDir = expandPath(cfg.Storage.DocsDir, configDir)
	if cfg.Server.StaticDir != "" {
		cfg.Server.StaticDir = expandPath(cfg.Server.StaticDir, configDir)
	}

	return &cfg, nil
}

// Default returns a config with all defaults applied and paths left relative
// to the working directory. Used when no config file is present.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
