// Package main is the tahoe-rag CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ridhiratan/macos-tahoe-rag/internal/chat"
	"github.com/ridhiratan/macos-tahoe-rag/internal/config"
	"github.com/ridhiratan/macos-tahoe-rag/internal/embedding"
	"github.com/ridhiratan/macos-tahoe-rag/internal/generator"
	"github.com/ridhiratan/macos-tahoe-rag/internal/ingest"
	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
	"github.com/ridhiratan/macos-tahoe-rag/internal/retriever"
	"github.com/ridhiratan/macos-tahoe-rag/internal/server"
	"github.com/ridhiratan/macos-tahoe-rag/internal/storage"
	"github.com/ridhiratan/macos-tahoe-rag/internal/vector"
	"github.com/ridhiratan/macos-tahoe-rag/internal/websearch"
	"github.com/ridhiratan/macos-tahoe-rag/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

// loadConfig loads config from path. When path is the default and no such
// file exists, built-in defaults are used so the tool works out of the box.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func main() {
	// API keys may live in a local .env file during development.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "index":
		runIndex()
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("tahoe-rag version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// components bundles everything the chat path needs.
type components struct {
	Storage   *storage.SQLiteStorage
	Index     *vector.FlatIndex
	Retriever *retriever.Retriever
	Service   *chat.Service
}

func (c *components) Close() {
	_ = c.Index.Close()
	_ = c.Storage.Close()
}

// initializeComponents wires the chat pipeline. A missing generation
// credential is not fatal here: the server starts and chat requests fail
// with "API key not configured", matching the health/degradation contract.
func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	idx, err := vector.NewFlatIndex(cfg.Embedding.Dimensions)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	embedder, err := embedding.NewRemoteEmbedder(embedding.RemoteConfig{
		BaseURL:    cfg.Embedding.BaseURL,
		APIKeyEnv:  cfg.Embedding.APIKeyEnv,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSeconds) * time.Second,
		CacheSize:  cfg.Embedding.CacheSize,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("embedding client: %w", err)
	}

	ret := retriever.NewRetriever(store, embedder, idx, &cfg.Retrieval, cfg.Storage.VectorIndexPath, logger)

	var searcher websearch.Searcher = websearch.Disabled{}
	if cfg.WebSearch.EnabledOrDefault() {
		brave, err := websearch.NewBraveSearcher(websearch.BraveConfig{
			BaseURL:           cfg.WebSearch.BaseURL,
			APIKeyEnv:         cfg.WebSearch.APIKeyEnv,
			Timeout:           time.Duration(cfg.WebSearch.TimeoutSeconds) * time.Second,
			RequestsPerSecond: cfg.WebSearch.RequestsPerSecond,
		})
		if err != nil {
			logger.Warn("web search disabled", zap.Error(err))
		} else {
			searcher = brave
		}
	}

	var gen generator.Generator
	anthropic, err := generator.NewAnthropicGenerator(generator.AnthropicConfig{
		BaseURL:   cfg.Generation.BaseURL,
		APIKeyEnv: cfg.Generation.APIKeyEnv,
		Model:     cfg.Generation.Model,
		MaxTokens: cfg.Generation.MaxTokens,
		Timeout:   time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Warn("generation client not configured", zap.Error(err))
	} else {
		gen = anthropic
	}

	svc := chat.NewService(ret, searcher, gen, cfg, logger)
	return &components{Storage: store, Index: idx, Retriever: ret, Service: svc}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// Warm the index up front so the first request doesn't pay for it; an
	// unbuilt index is fine, the service degrades to web-only.
	if err := components.Retriever.Initialize(context.Background()); err != nil {
		logger.Warn("local index not ready; serving web-only", zap.Error(err))
	}

	srv := server.NewServer(components.Service, components.Storage, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	watch := fs.Bool("watch", false, "keep running and re-index files as they change")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	idx, err := vector.NewFlatIndex(cfg.Embedding.Dimensions)
	if err != nil {
		logger.Fatal("Failed to create vector index", zap.Error(err))
	}
	embedder, err := embedding.NewRemoteEmbedder(embedding.RemoteConfig{
		BaseURL:    cfg.Embedding.BaseURL,
		APIKeyEnv:  cfg.Embedding.APIKeyEnv,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSeconds) * time.Second,
		CacheSize:  cfg.Embedding.CacheSize,
	})
	if err != nil {
		logger.Fatal("Embedding client required for indexing", zap.Error(err))
	}

	ingester := ingest.NewIngester(store, embedder, idx,
		ingest.NewChunker(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap), logger)

	ctx := context.Background()
	if err := ingester.IngestDir(ctx, cfg.Storage.DocsDir, cfg.Ingest.Extensions, cfg.Storage.VectorIndexPath); err != nil {
		logger.Fatal("Indexing failed", zap.Error(err))
	}
	if !*watch {
		return
	}

	watcher := ingest.NewWatcher(cfg.Storage.DocsDir, cfg.Ingest.Extensions,
		func(path string) {
			if err := ingester.IngestFile(ctx, path, cfg.Storage.VectorIndexPath); err != nil {
				logger.Warn("re-index failed", zap.String("path", path), zap.Error(err))
			}
		},
		func(path string) {
			if err := ingester.RemoveFile(ctx, path, cfg.Storage.VectorIndexPath); err != nil {
				logger.Warn("remove failed", zap.String("path", path), zap.Error(err))
			}
		},
		logger,
	)
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := watcher.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	watcher.Stop()
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fmt.Println("Usage: tahoe-rag ask <question>")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := zap.NewNop()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	resp, err := components.Service.Chat(ctx, &models.ChatRequest{Message: question})
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(resp.Response)
	fmt.Printf("\n[source_type: %s]\n", resp.SourceType)
	for _, source := range resp.Sources {
		fmt.Printf("  - %s\n", source)
	}
	for _, ws := range resp.WebSources {
		fmt.Printf("  - %s (%s)\n", utils.Truncate(ws.Title, 60), ws.URL)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	count, err := store.CountChunks(ctx)
	if err != nil {
		fmt.Printf("Failed to count chunks: %v\n", err)
		os.Exit(1)
	}
	sources, _ := store.ListSources(ctx)

	fmt.Printf("Chunks:  %d\n", count)
	fmt.Printf("Sources: %d\n", len(sources))
	if _, err := os.Stat(cfg.Storage.VectorIndexPath); err == nil {
		fmt.Printf("Vector index: %s\n", cfg.Storage.VectorIndexPath)
	} else {
		fmt.Printf("Vector index: not built (run 'tahoe-rag index')\n")
	}
	fmt.Printf("Docs dir: %s\n", filepath.Clean(cfg.Storage.DocsDir))
}

func printUsage() {
	fmt.Println(`tahoe-rag - macOS Tahoe documentation chatbot

Usage:
  tahoe-rag server [--config path] [--debug]   Start the HTTP API
  tahoe-rag index  [--config path] [--watch]   Build the local index from the docs dir
  tahoe-rag ask    [--config path] <question>  Ask a question from the command line
  tahoe-rag status [--config path]             Show index statistics
  tahoe-rag version                            Print version`)
}
