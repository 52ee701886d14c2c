// Package server provides the HTTP API for the tahoe-rag chatbot.
package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ridhiratan/macos-tahoe-rag/internal/config"
	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
	"github.com/ridhiratan/macos-tahoe-rag/internal/storage"
)

// ChatService is the request-handling dependency of the server.
type ChatService interface {
	Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
	IndexReady() bool
}

// Server is the HTTP server for the chatbot API.
type Server struct {
	service ChatService
	storage storage.Storage
	cfg     *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(service ChatService, store storage.Storage, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		service: service,
		storage: store,
		cfg:     cfg,
		logger:  logger,
	}
}

// Routes builds the router. Split out so tests can drive handlers directly.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	// Allow-all CORS, matching the local-development posture of the web UI.
	r.Use(cors.AllowAll().Handler)

	r.Post("/api/chat", s.handleChat)
	r.Get("/api/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	if dir := s.cfg.Server.StaticDir; dir != "" {
		fileServer := http.FileServer(http.Dir(dir))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, filepath.Join(dir, "index.html"))
		})
	}
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
