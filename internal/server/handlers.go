package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ridhiratan/macos-tahoe-rag/internal/chat"
	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("chat request",
		zap.Int("message_len", len(req.Message)),
		zap.Int("history_turns", len(req.History)),
	)

	resp, err := s.service.Chat(r.Context(), &req)
	if err != nil {
		if errors.Is(err, chat.ErrNotConfigured) {
			s.respondError(w, http.StatusInternalServerError, "API key not configured")
			return
		}
		s.logger.Error("chat failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"index_ready": s.service.IndexReady(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chunkCount, err := s.storage.CountChunks(ctx)
	if err != nil {
		s.logger.Error("status: count chunks failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sources, err := s.storage.ListSources(ctx)
	if err != nil {
		s.logger.Error("status: list sources failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"chunks":      chunkCount,
		"sources":     sources,
		"index_ready": s.service.IndexReady(),
		"config": map[string]interface{}{
			"top_k":               s.cfg.Retrieval.TopK,
			"candidate_k":         s.cfg.Retrieval.CandidateK,
			"relevance_threshold": s.cfg.Retrieval.RelevanceThreshold,
			"web_search_enabled":  s.cfg.WebSearch.EnabledOrDefault(),
			"generation_model":    s.cfg.Generation.Model,
		},
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
