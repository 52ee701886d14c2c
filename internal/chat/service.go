// Package chat orchestrates one question-answering request: hybrid
// retrieval, web search, context routing, and the generation call.
package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ridhiratan/macos-tahoe-rag/internal/config"
	"github.com/ridhiratan/macos-tahoe-rag/internal/generator"
	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
	"github.com/ridhiratan/macos-tahoe-rag/internal/retriever"
	"github.com/ridhiratan/macos-tahoe-rag/internal/router"
	"github.com/ridhiratan/macos-tahoe-rag/internal/websearch"
)

// Retriever is the local-retrieval dependency of the service.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) (*retriever.Evidence, error)
	Ready() bool
}

// Service answers questions by combining local retrieval, web search, and
// generation. Stateless per request; the caller owns conversation history.
type Service struct {
	retriever Retriever
	searcher  websearch.Searcher
	generator generator.Generator
	cfg       *config.Config
	logger    *zap.Logger
}

// NewService creates a chat service. gen may be nil when the generation
// credential is missing; requests then fail with ErrNotConfigured.
func NewService(
	ret Retriever,
	searcher websearch.Searcher,
	gen generator.Generator,
	cfg *config.Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		retriever: ret,
		searcher:  searcher,
		generator: gen,
		cfg:       cfg,
		logger:    logger,
	}
}

// IndexReady reports whether the local index is initialized. Operators use
// this to distinguish "degraded to web-only" from "fully operational".
func (s *Service) IndexReady() bool {
	return s.retriever.Ready()
}

// Chat runs one request end to end. Retrieval and web search both fail soft;
// only a missing credential or a generation failure is returned as an error.
func (s *Service) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, ErrNotConfigured
	}

	var evidence *retriever.Evidence
	ev, err := s.retriever.Retrieve(ctx, req.Message, s.cfg.Retrieval.TopK)
	if err != nil {
		// Unavailable index and transient search failures both degrade to
		// "no local evidence"; the router still gets a decision to make.
		s.logger.Warn("local retrieval degraded", zap.Error(err))
	} else {
		evidence = ev
	}

	// Web search is always attempted: it serves as fallback when local
	// evidence is weak and as supplement when it is strong.
	var webResults []models.WebResult
	results, err := s.searcher.Search(ctx, req.Message, s.cfg.WebSearch.MaxResults)
	if err != nil {
		s.logger.Warn("web search degraded", zap.Error(err))
	} else {
		webResults = results
	}

	routed := router.Route(evidence, webResults)
	s.logger.Debug("context routed",
		zap.String("decision", string(routed.Decision)),
		zap.Int("local_chunks", chunkCount(evidence)),
		zap.Int("web_results", len(webResults)),
	)

	messages := s.assembleMessages(req)
	text, err := s.generator.Complete(ctx, routed.SystemPrompt, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	return &models.ChatResponse{
		Response:   text,
		Sources:    routed.Sources,
		WebSources: routed.WebSources,
		SourceType: routed.Decision,
	}, nil
}

// assembleMessages appends the new user turn to the caller-supplied history,
// preserving order. History beyond the configured window is dropped oldest
// first so context growth stays bounded.
func (s *Service) assembleMessages(req *models.ChatRequest) []models.Turn {
	history := req.History
	if window := s.cfg.Chat.HistoryWindow; window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	messages := make([]models.Turn, 0, len(history)+1)
	messages = append(messages, history...)
	return append(messages, models.Turn{Role: "user", Content: req.Message})
}

func chunkCount(ev *retriever.Evidence) int {
	if ev == nil {
		return 0
	}
	return len(ev.Chunks)
}
